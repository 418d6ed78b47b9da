package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mrops-br/storefront-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// CatalogService owns the product list and writes every change through to
// the blob store before returning.
type CatalogService struct {
	mu                sync.RWMutex
	products          []domain.Product
	store             domain.BlobStore
	tracer            trace.Tracer
	logger            *slog.Logger
	productOperations metric.Int64Counter
	catalogSize       metric.Int64Gauge
}

// NewCatalogService creates a new catalog service. Call Load before use.
func NewCatalogService(
	store domain.BlobStore,
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
) *CatalogService {
	productOperations, _ := meter.Int64Counter(
		"products.operations",
		metric.WithDescription("Total number of product operations"),
	)

	catalogSize, _ := meter.Int64Gauge(
		"products.catalog.size",
		metric.WithDescription("Number of products in the catalog"),
	)

	return &CatalogService{
		store:             store,
		tracer:            tracer,
		logger:            logger,
		productOperations: productOperations,
		catalogSize:       catalogSize,
	}
}

// Load reads the persisted catalog. Absent or malformed data falls back to
// the starter catalog; the result is written back immediately.
func (s *CatalogService) Load(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "CatalogService.Load")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	products, source := s.readPersisted(ctx)
	s.products = products

	span.SetAttributes(
		attribute.String("catalog.source", source),
		attribute.Int("product.count", len(products)),
	)
	s.logger.InfoContext(ctx, "Catalog loaded",
		slog.String("source", source),
		slog.Int("count", len(products)),
	)

	if err := s.persist(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to persist catalog")
		return err
	}

	span.SetStatus(codes.Ok, "Catalog loaded")
	return nil
}

func (s *CatalogService) readPersisted(ctx context.Context) ([]domain.Product, string) {
	blob, err := s.store.Load(ctx, domain.CatalogKey)
	if err != nil {
		if !errors.Is(err, domain.ErrBlobNotFound) {
			s.logger.WarnContext(ctx, "Failed to read persisted catalog, using starter catalog",
				slog.String("error", err.Error()),
			)
		}
		return domain.StarterCatalog(), "starter"
	}

	var products []domain.Product
	if err := json.Unmarshal(blob, &products); err != nil || products == nil {
		s.logger.WarnContext(ctx, "Persisted catalog is malformed, using starter catalog",
			slog.Any("error", err),
		)
		return domain.StarterCatalog(), "starter"
	}

	seen := make(map[string]bool, len(products))
	for _, p := range products {
		if p.ID == "" || seen[p.ID] || p.Validate() != nil {
			s.logger.WarnContext(ctx, "Persisted catalog has invalid entries, using starter catalog",
				slog.String("product_id", p.ID),
			)
			return domain.StarterCatalog(), "starter"
		}
		seen[p.ID] = true
	}

	return products, "persisted"
}

// persist serializes the whole list; callers hold the write lock
func (s *CatalogService) persist(ctx context.Context) error {
	blob, err := json.Marshal(s.products)
	if err != nil {
		return fmt.Errorf("failed to serialize catalog: %w", err)
	}
	if err := s.store.Save(ctx, domain.CatalogKey, blob); err != nil {
		return fmt.Errorf("failed to persist catalog: %w", err)
	}
	s.catalogSize.Record(ctx, int64(len(s.products)))
	return nil
}

// List returns the catalog filtered by selector
func (s *CatalogService) List(ctx context.Context, selector domain.CategorySelector) []domain.Product {
	ctx, span := s.tracer.Start(ctx, "CatalogService.List")
	defer span.End()

	s.mu.RLock()
	defer s.mu.RUnlock()

	products := domain.Filter(s.products, selector)
	out := make([]domain.Product, len(products))
	copy(out, products)

	span.SetAttributes(
		attribute.String("catalog.category", selector.String()),
		attribute.Int("product.count", len(out)),
	)
	s.record(ctx, "list", "success")

	s.logger.DebugContext(ctx, "Products listed",
		slog.String("category", selector.String()),
		slog.Int("count", len(out)),
	)
	return out
}

// Get retrieves a product by ID
func (s *CatalogService) Get(ctx context.Context, id string) (domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.Get")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id))

	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := domain.FindProduct(s.products, id)
	if !ok {
		span.RecordError(domain.ErrProductNotFound)
		span.SetStatus(codes.Error, "Product not found")
		s.record(ctx, "read", "not_found")
		return domain.Product{}, domain.ErrProductNotFound
	}

	s.record(ctx, "read", "success")
	span.SetStatus(codes.Ok, "Product found")
	return p, nil
}

// Add appends a new product
func (s *CatalogService) Add(ctx context.Context, p domain.Product) error {
	ctx, span := s.tracer.Start(ctx, "CatalogService.Add")
	defer span.End()

	span.SetAttributes(
		attribute.String("product.id", p.ID),
		attribute.String("product.name", p.Name),
	)

	if err := p.Validate(); err != nil {
		return s.fail(ctx, span, "create", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	updated, err := domain.AddProduct(s.products, p)
	if err != nil {
		return s.fail(ctx, span, "create", err)
	}

	return s.commit(ctx, span, "create", updated, p.ID)
}

// Update replaces an existing product. Unknown ids are a no-op.
func (s *CatalogService) Update(ctx context.Context, p domain.Product) error {
	ctx, span := s.tracer.Start(ctx, "CatalogService.Update")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", p.ID))

	if err := p.Validate(); err != nil {
		return s.fail(ctx, span, "update", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	updated, ok := domain.UpdateProduct(s.products, p)
	if !ok {
		s.logger.WarnContext(ctx, "Update ignored, product not in catalog",
			slog.String("product_id", p.ID),
		)
		s.record(ctx, "update", "noop")
		span.SetStatus(codes.Ok, "No matching product")
		return nil
	}

	return s.commit(ctx, span, "update", updated, p.ID)
}

// Remove deletes a product once the caller has confirmed the deletion.
// Unknown ids are a no-op.
func (s *CatalogService) Remove(ctx context.Context, id string, confirmed bool) error {
	ctx, span := s.tracer.Start(ctx, "CatalogService.Remove")
	defer span.End()

	span.SetAttributes(
		attribute.String("product.id", id),
		attribute.Bool("delete.confirmed", confirmed),
	)

	if !confirmed {
		return s.fail(ctx, span, "delete", domain.ErrConfirmationRequired)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	updated, ok := domain.RemoveProduct(s.products, id)
	if !ok {
		s.record(ctx, "delete", "noop")
		span.SetStatus(codes.Ok, "No matching product")
		return nil
	}

	return s.commit(ctx, span, "delete", updated, id)
}

// commit swaps in the new list and writes it through. On a failed write the
// previous list is kept so memory and storage do not diverge.
func (s *CatalogService) commit(ctx context.Context, span trace.Span, op string, updated []domain.Product, id string) error {
	previous := s.products
	s.products = updated

	if err := s.persist(ctx); err != nil {
		s.products = previous
		return s.fail(ctx, span, op, err)
	}

	s.record(ctx, op, "success")
	s.logger.InfoContext(ctx, "Catalog updated",
		slog.String("operation", op),
		slog.String("product_id", id),
		slog.Int("count", len(s.products)),
	)
	span.SetStatus(codes.Ok, "Catalog updated")
	return nil
}

func (s *CatalogService) fail(ctx context.Context, span trace.Span, op string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	s.logger.WarnContext(ctx, "Catalog operation failed",
		slog.String("operation", op),
		slog.String("error", err.Error()),
	)
	s.record(ctx, op, "failure")
	return err
}

func (s *CatalogService) record(ctx context.Context, op, result string) {
	s.productOperations.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", op),
			attribute.String("result", result),
		),
	)
}
