package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mrops-br/storefront-api/internal/app/dto"
	"github.com/mrops-br/storefront-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// ProductLookup finds catalog products by id
type ProductLookup interface {
	Get(ctx context.Context, id string) (domain.Product, error)
}

type cartEntry struct {
	cart    *domain.Cart
	touched time.Time
}

// CartService keeps one in-memory cart per session. A cart exists only
// once something has been added to it; idle carts are dropped by Sweep.
type CartService struct {
	mu          sync.Mutex
	carts       map[string]*cartEntry
	catalog     ProductLookup
	now         func() time.Time
	tracer      trace.Tracer
	logger      *slog.Logger
	cartUpdates metric.Int64Counter
}

// NewCartService creates a new cart service
func NewCartService(catalog ProductLookup, tracer trace.Tracer, meter metric.Meter, logger *slog.Logger) *CartService {
	cartUpdates, _ := meter.Int64Counter(
		"cart.operations",
		metric.WithDescription("Total number of cart operations"),
	)

	return &CartService{
		carts:       make(map[string]*cartEntry),
		catalog:     catalog,
		now:         time.Now,
		tracer:      tracer,
		logger:      logger,
		cartUpdates: cartUpdates,
	}
}

// lookup returns the session cart without creating one; callers hold mu
func (s *CartService) lookup(sessionID string) (*domain.Cart, bool) {
	e, ok := s.carts[sessionID]
	if !ok {
		return nil, false
	}
	e.touched = s.now()
	return e.cart, true
}

// summary renders the session cart, or an empty one; callers hold mu
func (s *CartService) summary(sessionID string) *dto.CartResponse {
	c, ok := s.lookup(sessionID)
	if !ok {
		return dto.ToCartResponse(domain.NewCart())
	}
	return dto.ToCartResponse(c)
}

// Get returns the session cart summary
func (s *CartService) Get(ctx context.Context, sessionID string) *dto.CartResponse {
	_, span := s.tracer.Start(ctx, "CartService.Get")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.summary(sessionID)
}

// Add puts one unit of the catalog product into the cart
func (s *CartService) Add(ctx context.Context, sessionID, productID string) (*dto.CartResponse, error) {
	ctx, span := s.tracer.Start(ctx, "CartService.Add")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", productID))

	p, err := s.catalog.Get(ctx, productID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Product not found")
		s.record(ctx, "add", "not_found")
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.lookup(sessionID)
	if !ok {
		c = domain.NewCart()
		s.carts[sessionID] = &cartEntry{cart: c, touched: s.now()}
	}
	c.AddOrIncrement(p)

	s.record(ctx, "add", "success")
	s.logger.InfoContext(ctx, "Product added to cart",
		slog.String("product_id", productID),
		slog.Int("item_count", c.ItemCount()),
	)
	return dto.ToCartResponse(c), nil
}

// Adjust changes a line's quantity by delta, dropping it at zero
func (s *CartService) Adjust(ctx context.Context, sessionID, productID string, delta int) *dto.CartResponse {
	ctx, span := s.tracer.Start(ctx, "CartService.Adjust")
	defer span.End()

	span.SetAttributes(
		attribute.String("product.id", productID),
		attribute.Int("cart.delta", delta),
	)

	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.lookup(sessionID); ok {
		c.AdjustQuantity(productID, delta)
	}

	s.record(ctx, "adjust", "success")
	return s.summary(sessionID)
}

// Remove drops a line from the cart
func (s *CartService) Remove(ctx context.Context, sessionID, productID string) *dto.CartResponse {
	ctx, span := s.tracer.Start(ctx, "CartService.Remove")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", productID))

	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.lookup(sessionID); ok {
		c.Remove(productID)
	}

	s.record(ctx, "remove", "success")
	return s.summary(sessionID)
}

// Clear empties the session cart
func (s *CartService) Clear(ctx context.Context, sessionID string) *dto.CartResponse {
	ctx, span := s.tracer.Start(ctx, "CartService.Clear")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, sessionID)

	s.record(ctx, "clear", "success")
	return dto.ToCartResponse(domain.NewCart())
}

// Lines returns a snapshot of the session cart lines
func (s *CartService) Lines(sessionID string) []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.lookup(sessionID); ok {
		return c.Lines()
	}
	return nil
}

// Sweep drops carts untouched for longer than idle and returns how many
// were dropped
func (s *CartService) Sweep(ctx context.Context, idle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-idle)
	dropped := 0
	for id, e := range s.carts {
		if e.touched.Before(cutoff) {
			delete(s.carts, id)
			dropped++
		}
	}

	if dropped > 0 {
		s.logger.InfoContext(ctx, "Idle carts dropped",
			slog.Int("dropped", dropped),
			slog.Int("remaining", len(s.carts)),
		)
	}
	return dropped
}

func (s *CartService) record(ctx context.Context, op, result string) {
	s.cartUpdates.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", op),
			attribute.String("result", result),
		),
	)
}
