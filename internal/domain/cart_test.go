package domain

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(id, price string) Product {
	return Product{ID: id, Name: "Item " + id, Price: decimal.RequireFromString(price), Category: CategoryBlusa}
}

func TestCartAddOrIncrement(t *testing.T) {
	cart := NewCart()
	p := product("1", "129.90")

	for i := 0; i < 5; i++ {
		cart.AddOrIncrement(p)
	}

	require.Equal(t, 1, cart.Len())
	line, ok := cart.Line("1")
	require.True(t, ok)
	assert.Equal(t, 5, line.Quantity)
}

func TestCartTotalsExample(t *testing.T) {
	cart := NewCart()
	cart.AddOrIncrement(product("1", "129.90"))
	cart.AddOrIncrement(product("1", "129.90"))
	cart.AddOrIncrement(product("3", "199.90"))

	assert.True(t, decimal.RequireFromString("459.70").Equal(cart.Total()), "total = %s", cart.Total())
	assert.Equal(t, 3, cart.ItemCount())
	assert.Equal(t, 2, cart.Len())
}

func TestCartEmptyTotal(t *testing.T) {
	var cart Cart
	assert.True(t, cart.Total().IsZero())
	assert.Equal(t, 0, cart.ItemCount())
	assert.Empty(t, cart.Lines())
}

func TestCartAdjustQuantity(t *testing.T) {
	t.Run("decrement to zero removes the line", func(t *testing.T) {
		cart := NewCart()
		cart.AddOrIncrement(product("1", "129.90"))
		cart.AddOrIncrement(product("1", "129.90"))

		cart.AdjustQuantity("1", -2)

		_, ok := cart.Line("1")
		assert.False(t, ok)
		assert.Equal(t, 0, cart.Len())
	})

	t.Run("large negative delta clamps and removes", func(t *testing.T) {
		cart := NewCart()
		cart.AddOrIncrement(product("1", "10"))
		cart.AdjustQuantity("1", -100)
		assert.Equal(t, 0, cart.Len())
	})

	t.Run("positive delta increments", func(t *testing.T) {
		cart := NewCart()
		cart.AddOrIncrement(product("1", "10"))
		cart.AdjustQuantity("1", 3)
		line, _ := cart.Line("1")
		assert.Equal(t, 4, line.Quantity)
	})

	t.Run("huge positive delta saturates instead of removing", func(t *testing.T) {
		cart := NewCart()
		cart.AddOrIncrement(product("1", "10"))
		cart.AdjustQuantity("1", math.MaxInt)

		line, ok := cart.Line("1")
		require.True(t, ok)
		assert.Equal(t, math.MaxInt, line.Quantity)

		cart.AddOrIncrement(product("1", "10"))
		line, _ = cart.Line("1")
		assert.Equal(t, math.MaxInt, line.Quantity)

		cart.AddOrIncrement(product("2", "10"))
		assert.Equal(t, math.MaxInt, cart.ItemCount())
		cart.Remove("2")

		cart.AdjustQuantity("1", math.MinInt)
		assert.Equal(t, 0, cart.Len())
	})

	t.Run("unknown id is ignored", func(t *testing.T) {
		cart := NewCart()
		cart.AddOrIncrement(product("1", "10"))
		cart.AdjustQuantity("9", -1)
		assert.Equal(t, 1, cart.ItemCount())
	})

	t.Run("quantity never goes negative", func(t *testing.T) {
		cart := NewCart()
		p := product("1", "10")
		deltas := []int{1, -1, -1, 1, 1, -3, 2, -1, 1}
		for _, d := range deltas {
			if d > 0 {
				cart.AddOrIncrement(p)
				cart.AdjustQuantity(p.ID, d-1)
			} else {
				cart.AdjustQuantity(p.ID, d)
			}
			for _, l := range cart.Lines() {
				assert.Positive(t, l.Quantity)
			}
		}
	})
}

func TestCartRemove(t *testing.T) {
	cart := NewCart()
	cart.AddOrIncrement(product("1", "10"))
	cart.AddOrIncrement(product("2", "20"))

	cart.Remove("1")
	cart.Remove("missing")

	lines := cart.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "2", lines[0].ID)
}

func TestCartLinesAreCopies(t *testing.T) {
	cart := NewCart()
	cart.AddOrIncrement(product("1", "10"))

	lines := cart.Lines()
	lines[0].Quantity = 42

	line, _ := cart.Line("1")
	assert.Equal(t, 1, line.Quantity)
}
