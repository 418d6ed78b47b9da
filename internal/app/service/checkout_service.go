package service

import (
	"context"
	"log/slog"

	"github.com/mrops-br/storefront-api/internal/app/dto"
	"github.com/mrops-br/storefront-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// CartReader exposes read-only cart lines
type CartReader interface {
	Lines(sessionID string) []domain.CartLine
}

// CheckoutService composes the messaging handoff for a session cart
type CheckoutService struct {
	carts           CartReader
	composer        domain.Composer
	tracer          trace.Tracer
	logger          *slog.Logger
	checkoutCounter metric.Int64Counter
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(carts CartReader, composer domain.Composer, tracer trace.Tracer, meter metric.Meter, logger *slog.Logger) *CheckoutService {
	checkoutCounter, _ := meter.Int64Counter(
		"checkout.handoffs.total",
		metric.WithDescription("Total number of composed checkout handoffs"),
	)

	return &CheckoutService{
		carts:           carts,
		composer:        composer,
		tracer:          tracer,
		logger:          logger,
		checkoutCounter: checkoutCounter,
	}
}

// Checkout builds the order message and link. The cart is left untouched.
// An empty cart is refused here; the composer itself accepts it.
func (s *CheckoutService) Checkout(ctx context.Context, sessionID string) (*dto.CheckoutResponse, error) {
	ctx, span := s.tracer.Start(ctx, "CheckoutService.Checkout")
	defer span.End()

	lines := s.carts.Lines(sessionID)
	if len(lines) == 0 {
		span.RecordError(domain.ErrEmptyCart)
		span.SetStatus(codes.Error, "Empty cart")
		return nil, domain.ErrEmptyCart
	}

	handoff := s.composer.Compose(lines)

	span.SetAttributes(attribute.Int("cart.lines", len(lines)))
	s.checkoutCounter.Add(ctx, 1)
	s.logger.InfoContext(ctx, "Checkout handoff composed",
		slog.Int("lines", len(lines)),
	)

	span.SetStatus(codes.Ok, "Handoff composed")
	return dto.ToCheckoutResponse(handoff), nil
}
