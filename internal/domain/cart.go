package domain

import (
	"math"

	"github.com/shopspring/decimal"
)

// CartLine is a snapshot of a product plus the quantity in the cart.
// Quantity is always positive while the line is present.
type CartLine struct {
	Product
	Quantity int `json:"quantity"`
}

// Subtotal returns price × quantity
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart aggregates cart lines, at most one per product id, in insertion order.
// The zero value is an empty cart.
type Cart struct {
	lines []CartLine
}

// NewCart creates an empty cart
func NewCart() *Cart {
	return &Cart{}
}

// AddOrIncrement adds one unit of p
func (c *Cart) AddOrIncrement(p Product) {
	if i := c.index(p.ID); i >= 0 {
		c.lines[i].Quantity = addQuantity(c.lines[i].Quantity, 1)
		return
	}
	c.lines = append(c.lines, CartLine{Product: p, Quantity: 1})
}

// AdjustQuantity adds delta to the line's quantity. A result of zero or
// below removes the line; a positive delta never does. Unknown ids are
// ignored.
func (c *Cart) AdjustQuantity(id string, delta int) {
	i := c.index(id)
	if i < 0 {
		return
	}
	q := addQuantity(c.lines[i].Quantity, delta)
	if q <= 0 {
		c.removeAt(i)
		return
	}
	c.lines[i].Quantity = q
}

// Remove deletes the line for id if present
func (c *Cart) Remove(id string) {
	if i := c.index(id); i >= 0 {
		c.removeAt(i)
	}
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.lines = nil
}

// Total is the sum of price × quantity over all lines
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// ItemCount is the sum of all quantities
func (c *Cart) ItemCount() int {
	n := 0
	for _, l := range c.lines {
		n = addQuantity(n, l.Quantity)
	}
	return n
}

// Len is the number of distinct lines
func (c *Cart) Len() int {
	return len(c.lines)
}

// Lines returns a copy of the cart lines
func (c *Cart) Lines() []CartLine {
	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// Line returns the line for id
func (c *Cart) Line(id string) (CartLine, bool) {
	if i := c.index(id); i >= 0 {
		return c.lines[i], true
	}
	return CartLine{}, false
}

func (c *Cart) index(id string) int {
	for i := range c.lines {
		if c.lines[i].ID == id {
			return i
		}
	}
	return -1
}

// addQuantity adds delta to a non-negative quantity, saturating at math.MaxInt
func addQuantity(q, delta int) int {
	if delta > 0 && q > math.MaxInt-delta {
		return math.MaxInt
	}
	return q + delta
}

func (c *Cart) removeAt(i int) {
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
}
