package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/mrops-br/storefront-api/internal/app/dto"
	"github.com/mrops-br/storefront-api/internal/app/service"
	"github.com/mrops-br/storefront-api/internal/domain"
	"github.com/mrops-br/storefront-api/internal/infrastructure/http/response"
)

// ProductHandler handles HTTP requests for the catalog
type ProductHandler struct {
	service *service.CatalogService
	logger  *slog.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(service *service.CatalogService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger,
	}
}

// ListCategories handles GET /categories
func (h *ProductHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, dto.ToCategoriesResponse())
}

// ListProducts handles GET /products?category=
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	selector, err := domain.ParseSelector(r.URL.Query().Get("category"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, err)
		return
	}

	products := h.service.List(r.Context(), selector)
	response.JSON(w, http.StatusOK, dto.ToProductResponseList(products))
}

// GetProduct handles GET /products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	product, err := h.service.Get(r.Context(), id)
	if err != nil {
		response.DomainError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, dto.ToProductResponse(product))
}

// DeleteProduct handles DELETE /admin/products/{id}?confirm=true
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))

	if err := h.service.Remove(r.Context(), id, confirmed); err != nil {
		h.logger.WarnContext(r.Context(), "Product removal refused",
			slog.String("product_id", id),
			slog.String("error", err.Error()),
		)
		response.DomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
