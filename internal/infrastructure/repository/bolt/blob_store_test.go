package bolt

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/mrops-br/storefront-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

func openStore(t *testing.T, path string) *BlobStore {
	t.Helper()
	s, err := Open(path, noop.NewTracerProvider().Tracer("test"), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return s
}

func TestBoltBlobStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "store.db")

	s := openStore(t, path)
	_, err := s.Load(ctx, domain.CatalogKey)
	assert.ErrorIs(t, err, domain.ErrBlobNotFound)

	require.NoError(t, s.Save(ctx, domain.CatalogKey, []byte(`[{"id":"1"}]`)))
	require.NoError(t, s.Close())

	s = openStore(t, path)
	defer s.Close()

	got, err := s.Load(ctx, domain.CatalogKey)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"1"}]`, string(got))
}
