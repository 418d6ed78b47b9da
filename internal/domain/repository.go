package domain

import (
	"context"
	"errors"
)

var (
	ErrProductNotFound      = errors.New("product not found")
	ErrBlobNotFound         = errors.New("blob not found")
	ErrConfirmationRequired = errors.New("deletion must be confirmed")
	ErrEmptyCart            = errors.New("cart is empty")
	ErrImageTooLarge        = errors.New("image exceeds the upload size limit")
)

// CatalogKey is the namespace the catalog blob is stored under
const CatalogKey = "paty_products"

// BlobStore is a flat key-value store for serialized documents
type BlobStore interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
}

// DescriptionGenerator writes a short sales description for a product.
// Failures are reported as fallback text, never as errors.
type DescriptionGenerator interface {
	Generate(ctx context.Context, name, category string) string
}

// ImageEncoder converts raw image bytes into an embeddable image reference
type ImageEncoder interface {
	Encode(data []byte) (string, error)
}
