package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/mrops-br/storefront-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	createTableSQL = `CREATE TABLE IF NOT EXISTS kv_store (
	key        TEXT PRIMARY KEY,
	value      BYTEA NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`
	loadSQL = `SELECT value FROM kv_store WHERE key = $1`
	saveSQL = `INSERT INTO kv_store (key, value, updated_at) VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
)

// BlobStore keeps blobs in a Postgres key-value table
type BlobStore struct {
	db     *sql.DB
	tracer trace.Tracer
	logger *slog.Logger
}

// Open connects to Postgres through the pgx driver and ensures the table exists
func Open(ctx context.Context, connStr string, tracer trace.Tracer, logger *slog.Logger) (*BlobStore, error) {
	if connStr == "" {
		return nil, errors.New("database connection string not set, set DATABASE_URL")
	}

	db, err := sql.Open("pgx", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.ExecContext(ctx, createTableSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create kv_store table: %w", err)
	}

	logger.Info("Postgres blob store connected")

	return NewBlobStore(db, tracer, logger), nil
}

// NewBlobStore wraps an existing connection
func NewBlobStore(db *sql.DB, tracer trace.Tracer, logger *slog.Logger) *BlobStore {
	return &BlobStore{db: db, tracer: tracer, logger: logger}
}

// Load returns the blob stored under key
func (s *BlobStore) Load(ctx context.Context, key string) ([]byte, error) {
	ctx, span := s.tracer.Start(ctx, "PostgresBlobStore.Load")
	defer span.End()

	span.SetAttributes(attribute.String("blob.key", key))

	var blob []byte
	err := s.db.QueryRowContext(ctx, loadSQL, key).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(codes.Error, "Blob not found")
		return nil, domain.ErrBlobNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to load blob")
		return nil, fmt.Errorf("failed to load blob %s: %w", key, err)
	}

	span.SetStatus(codes.Ok, "Blob loaded")
	return blob, nil
}

// Save upserts the blob stored under key
func (s *BlobStore) Save(ctx context.Context, key string, value []byte) error {
	ctx, span := s.tracer.Start(ctx, "PostgresBlobStore.Save")
	defer span.End()

	span.SetAttributes(
		attribute.String("blob.key", key),
		attribute.Int("blob.size", len(value)),
	)

	if _, err := s.db.ExecContext(ctx, saveSQL, key, value); err != nil {
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

// Close closes the database connection
func (s *BlobStore) Close() error {
	return s.db.Close()
}
