package dto

import (
	"github.com/mrops-br/storefront-api/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var brPrinter = message.NewPrinter(language.BrazilianPortuguese)

// ProductResponse represents the product response
type ProductResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	PriceLabel  string  `json:"price_label"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Description string  `json:"description"`
}

// CategoriesResponse lists the category chips, "all" first
type CategoriesResponse struct {
	All        string   `json:"all"`
	Categories []string `json:"categories"`
}

// FormatBRL renders an amount in Brazilian currency notation for display
func FormatBRL(amount decimal.Decimal) string {
	return brPrinter.Sprint(currency.Symbol(currency.BRL.Amount(amount.InexactFloat64())))
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p domain.Product) *ProductResponse {
	return &ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price.InexactFloat64(),
		PriceLabel:  FormatBRL(p.Price),
		Category:    string(p.Category),
		Image:       p.Image,
		Description: p.Description,
	}
}

// ToProductResponseList converts a list of domain Products to ProductResponse list
func ToProductResponseList(products []domain.Product) []*ProductResponse {
	responses := make([]*ProductResponse, len(products))
	for i, p := range products {
		responses[i] = ToProductResponse(p)
	}
	return responses
}

// ToCategoriesResponse lists the known categories
func ToCategoriesResponse() *CategoriesResponse {
	cats := domain.Categories()
	labels := make([]string, len(cats))
	for i, c := range cats {
		labels[i] = string(c)
	}
	return &CategoriesResponse{All: domain.AllCategoriesLabel, Categories: labels}
}
