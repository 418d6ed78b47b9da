package bolt

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mrops-br/storefront-api/internal/domain"
	bolt "go.etcd.io/bbolt"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var bucketName = []byte("blobs")

// BlobStore keeps blobs in a single bbolt bucket
type BlobStore struct {
	db     *bolt.DB
	tracer trace.Tracer
	logger *slog.Logger
}

// Open opens (or creates) the database file at path
func Open(path string, tracer trace.Tracer, logger *slog.Logger) (*BlobStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt database %s: %w", path, err)
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}

	logger.Info("Bolt blob store opened", slog.String("path", path))

	return &BlobStore{db: db, tracer: tracer, logger: logger}, nil
}

// Load returns the blob stored under key
func (s *BlobStore) Load(ctx context.Context, key string) ([]byte, error) {
	_, span := s.tracer.Start(ctx, "BoltBlobStore.Load")
	defer span.End()

	span.SetAttributes(attribute.String("blob.key", key))

	var blob []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketName).Get([]byte(key))
		if v == nil {
			return domain.ErrBlobNotFound
		}
		// v is only valid for the life of the transaction
		blob = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to load blob")
		return nil, err
	}

	span.SetStatus(codes.Ok, "Blob loaded")
	return blob, nil
}

// Save replaces the blob stored under key
func (s *BlobStore) Save(ctx context.Context, key string, value []byte) error {
	ctx, span := s.tracer.Start(ctx, "BoltBlobStore.Save")
	defer span.End()

	span.SetAttributes(
		attribute.String("blob.key", key),
		attribute.Int("blob.size", len(value)),
	)

	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(key), value)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to save blob")
		s.logger.ErrorContext(ctx, "Failed to save blob",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to save blob %s: %w", key, err)
	}

	span.SetStatus(codes.Ok, "Blob saved")
	return nil
}

// Close releases the database file
func (s *BlobStore) Close() error {
	return s.db.Close()
}
