package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/mrops-br/storefront-api/internal/domain"
	"github.com/mrops-br/storefront-api/internal/infrastructure/repository/memory"
	"github.com/stretchr/testify/require"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace/noop"
)

var (
	testTracer = noop.NewTracerProvider().Tracer("test")
	testMeter  = metricnoop.NewMeterProvider().Meter("test")
	testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))
)

func newMemoryStore() *memory.BlobStore {
	return memory.NewBlobStore(testTracer, testLogger)
}

func newLoadedCatalog(t *testing.T, store domain.BlobStore) *CatalogService {
	t.Helper()
	svc := NewCatalogService(store, testTracer, testMeter, testLogger)
	require.NoError(t, svc.Load(context.Background()))
	return svc
}

// countingStore wraps a store and can be told to fail writes
type countingStore struct {
	domain.BlobStore
	mu        sync.Mutex
	saves     int
	failSaves bool
}

func (s *countingStore) Save(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSaves {
		return errors.New("disk full")
	}
	s.saves++
	return s.BlobStore.Save(ctx, key, value)
}

func (s *countingStore) saveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// brokenStore fails every read with a non-missing error
type brokenStore struct {
	domain.BlobStore
}

func (brokenStore) Load(context.Context, string) ([]byte, error) {
	return nil, errors.New("io error")
}
