package postgres

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/mrops-br/storefront-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

// Runs only when TEST_DATABASE_URL points at a disposable database.
func TestPostgresBlobStore(t *testing.T) {
	connStr := os.Getenv("TEST_DATABASE_URL")
	if connStr == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	s, err := Open(ctx, connStr, noop.NewTracerProvider().Tracer("test"), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	defer s.Close()

	key := "test_" + t.Name()
	_, err = s.Load(ctx, key)
	assert.ErrorIs(t, err, domain.ErrBlobNotFound)

	require.NoError(t, s.Save(ctx, key, []byte(`first`)))
	require.NoError(t, s.Save(ctx, key, []byte(`second`)))

	got, err := s.Load(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))

	_, err = s.db.ExecContext(ctx, `DELETE FROM kv_store WHERE key = $1`, key)
	require.NoError(t, err)
}

func TestOpenRequiresConnectionString(t *testing.T) {
	_, err := Open(context.Background(), "", noop.NewTracerProvider().Tracer("test"), slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Error(t, err)
}
