package memory

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mrops-br/storefront-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// BlobStore is an in-memory implementation of domain.BlobStore
type BlobStore struct {
	mu     sync.RWMutex
	blobs  map[string][]byte
	tracer trace.Tracer
	logger *slog.Logger
}

// NewBlobStore creates a new in-memory blob store
func NewBlobStore(tracer trace.Tracer, logger *slog.Logger) *BlobStore {
	return &BlobStore{
		blobs:  make(map[string][]byte),
		tracer: tracer,
		logger: logger,
	}
}

// Load returns a copy of the blob stored under key
func (s *BlobStore) Load(ctx context.Context, key string) ([]byte, error) {
	ctx, span := s.tracer.Start(ctx, "BlobStore.Load")
	defer span.End()

	span.SetAttributes(attribute.String("blob.key", key))

	s.mu.RLock()
	defer s.mu.RUnlock()

	blob, exists := s.blobs[key]
	if !exists {
		span.SetStatus(codes.Error, "Blob not found")
		s.logger.DebugContext(ctx, "Blob not found", slog.String("key", key))
		return nil, domain.ErrBlobNotFound
	}

	span.SetAttributes(attribute.Int("blob.size", len(blob)))
	span.SetStatus(codes.Ok, "Blob loaded")
	return append([]byte(nil), blob...), nil
}

// Save replaces the blob stored under key
func (s *BlobStore) Save(ctx context.Context, key string, value []byte) error {
	ctx, span := s.tracer.Start(ctx, "BlobStore.Save")
	defer span.End()

	span.SetAttributes(
		attribute.String("blob.key", key),
		attribute.Int("blob.size", len(value)),
	)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.blobs[key] = append([]byte(nil), value...)

	s.logger.DebugContext(ctx, "Blob saved",
		slog.String("key", key),
		slog.Int("size", len(value)),
	)

	span.SetStatus(codes.Ok, "Blob saved")
	return nil
}
