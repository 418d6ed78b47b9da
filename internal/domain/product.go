package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidProductName  = errors.New("product name is required")
	ErrInvalidProductPrice = errors.New("product price must be a non-negative number")
	ErrDuplicateProduct    = errors.New("product id already exists")
)

// Product represents one catalog item
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Category    Category        `json:"category"`
	Image       string          `json:"image"`
	Description string          `json:"description"`
}

// Validate performs business validation on the product
func (p Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrInvalidProductName
	}
	if p.Price.IsNegative() {
		return ErrInvalidProductPrice
	}
	if !p.Category.Valid() {
		return ErrInvalidCategory
	}
	return nil
}

// AddProduct appends p to the catalog. The id must not already be present.
func AddProduct(catalog []Product, p Product) ([]Product, error) {
	if _, ok := FindProduct(catalog, p.ID); ok {
		return catalog, ErrDuplicateProduct
	}
	out := make([]Product, 0, len(catalog)+1)
	out = append(out, catalog...)
	return append(out, p), nil
}

// UpdateProduct replaces the entry with the same id. It reports false and
// returns the catalog unchanged when no entry matches.
func UpdateProduct(catalog []Product, p Product) ([]Product, bool) {
	idx := indexOf(catalog, p.ID)
	if idx < 0 {
		return catalog, false
	}
	out := make([]Product, len(catalog))
	copy(out, catalog)
	out[idx] = p
	return out, true
}

// RemoveProduct deletes the entry with the given id, if any.
func RemoveProduct(catalog []Product, id string) ([]Product, bool) {
	idx := indexOf(catalog, id)
	if idx < 0 {
		return catalog, false
	}
	out := make([]Product, 0, len(catalog)-1)
	out = append(out, catalog[:idx]...)
	return append(out, catalog[idx+1:]...), true
}

// FindProduct returns the product with the given id
func FindProduct(catalog []Product, id string) (Product, bool) {
	if idx := indexOf(catalog, id); idx >= 0 {
		return catalog[idx], true
	}
	return Product{}, false
}

func indexOf(catalog []Product, id string) int {
	for i := range catalog {
		if catalog[i].ID == id {
			return i
		}
	}
	return -1
}

// StarterCatalog returns the built-in catalog used when nothing usable is persisted.
func StarterCatalog() []Product {
	return []Product{
		{
			ID:          "1",
			Name:        "Vestido Floral Verão",
			Price:       decimal.RequireFromString("129.90"),
			Category:    CategoryVestido,
			Image:       "https://images.unsplash.com/photo-1515372039744-b8f02a3ae446?w=500&q=80",
			Description: "Vestido leve com estampa floral, perfeito para dias ensolarados.",
		},
		{
			ID:          "2",
			Name:        "Blusa de Seda Branca",
			Price:       decimal.RequireFromString("89.90"),
			Category:    CategoryBlusa,
			Image:       "https://images.unsplash.com/photo-1534126511673-b6899657816a?w=500&q=80",
			Description: "Elegância e conforto em uma peça versátil.",
		},
		{
			ID:          "3",
			Name:        "Bolsa de Couro Rosa",
			Price:       decimal.RequireFromString("199.90"),
			Category:    CategoryBolsas,
			Image:       "https://images.unsplash.com/photo-1584917865442-de89df76afd3?w=500&q=80",
			Description: "Acessório indispensável para compor seu look.",
		},
	}
}
