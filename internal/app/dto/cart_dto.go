package dto

import "github.com/mrops-br/storefront-api/internal/domain"

// AddCartItemRequest represents the request to add one unit of a product
type AddCartItemRequest struct {
	ProductID string `json:"product_id"`
}

// AdjustCartItemRequest represents a signed quantity change
type AdjustCartItemRequest struct {
	Delta int `json:"delta"`
}

// CartLineResponse is one cart line
type CartLineResponse struct {
	ProductResponse
	Quantity int     `json:"quantity"`
	Subtotal float64 `json:"subtotal"`
}

// CartResponse summarizes the cart
type CartResponse struct {
	Lines      []*CartLineResponse `json:"lines"`
	Total      float64             `json:"total"`
	TotalLabel string              `json:"total_label"`
	ItemCount  int                 `json:"item_count"`
	LineCount  int                 `json:"line_count"`
}

// CheckoutResponse carries the composed order message and handoff link
type CheckoutResponse struct {
	Message string `json:"message"`
	URL     string `json:"url"`
}

// ToCartResponse converts a domain Cart to CartResponse
func ToCartResponse(c *domain.Cart) *CartResponse {
	lines := c.Lines()
	out := make([]*CartLineResponse, len(lines))
	for i, l := range lines {
		out[i] = &CartLineResponse{
			ProductResponse: *ToProductResponse(l.Product),
			Quantity:        l.Quantity,
			Subtotal:        l.Subtotal().InexactFloat64(),
		}
	}

	total := c.Total()
	return &CartResponse{
		Lines:      out,
		Total:      total.InexactFloat64(),
		TotalLabel: FormatBRL(total),
		ItemCount:  c.ItemCount(),
		LineCount:  c.Len(),
	}
}

// ToCheckoutResponse converts a handoff to CheckoutResponse
func ToCheckoutResponse(h domain.Handoff) *CheckoutResponse {
	return &CheckoutResponse{Message: h.Message, URL: h.URL}
}
