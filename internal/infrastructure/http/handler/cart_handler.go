package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mrops-br/storefront-api/internal/app/dto"
	"github.com/mrops-br/storefront-api/internal/app/service"
	"github.com/mrops-br/storefront-api/internal/infrastructure/http/middleware"
	"github.com/mrops-br/storefront-api/internal/infrastructure/http/response"
)

// CartHandler handles the shopper's cart and checkout
type CartHandler struct {
	carts    *service.CartService
	checkout *service.CheckoutService
	logger   *slog.Logger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(carts *service.CartService, checkout *service.CheckoutService, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		carts:    carts,
		checkout: checkout,
		logger:   logger,
	}
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sid := middleware.SessionID(r.Context())
	response.JSON(w, http.StatusOK, h.carts.Get(r.Context(), sid))
}

// AddItem handles POST /cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req dto.AddCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to decode request body",
			slog.String("error", err.Error()),
		)
		response.Error(w, http.StatusBadRequest, err)
		return
	}

	cart, err := h.carts.Add(r.Context(), middleware.SessionID(r.Context()), req.ProductID)
	if err != nil {
		response.DomainError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, cart)
}

// AdjustItem handles PATCH /cart/items/{id}
func (h *CartHandler) AdjustItem(w http.ResponseWriter, r *http.Request) {
	var req dto.AdjustCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to decode request body",
			slog.String("error", err.Error()),
		)
		response.Error(w, http.StatusBadRequest, err)
		return
	}

	cart := h.carts.Adjust(r.Context(), middleware.SessionID(r.Context()), chi.URLParam(r, "id"), req.Delta)
	response.JSON(w, http.StatusOK, cart)
}

// RemoveItem handles DELETE /cart/items/{id}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	cart := h.carts.Remove(r.Context(), middleware.SessionID(r.Context()), chi.URLParam(r, "id"))
	response.JSON(w, http.StatusOK, cart)
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, h.carts.Clear(r.Context(), middleware.SessionID(r.Context())))
}

// Checkout handles POST /checkout
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	handoff, err := h.checkout.Checkout(r.Context(), middleware.SessionID(r.Context()))
	if err != nil {
		response.DomainError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, handoff)
}
