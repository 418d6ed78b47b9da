package domain

import (
	"net/url"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testComposer = Composer{
	StoreName:   "Paty Modas",
	BaseURL:     "https://wa.me",
	Destination: "5518981784826",
}

func TestComposeSingleLine(t *testing.T) {
	lines := []CartLine{{
		Product:  Product{ID: "2", Name: "Blusa", Price: decimal.RequireFromString("89.90")},
		Quantity: 1,
	}}

	h := testComposer.Compose(lines)

	assert.Contains(t, h.Message, "1x Blusa - R$ 89.90")
	assert.Contains(t, h.Message, "*Total: R$ 89.90*")
	assert.True(t, strings.HasPrefix(h.Message, "*Olá, Paty Modas! Gostaria de fazer o seguinte pedido:*\n\n"))
	assert.True(t, strings.HasSuffix(h.Message, "Aguardo confirmação!"))

	require.True(t, strings.HasPrefix(h.URL, "https://wa.me/5518981784826?text="))
	assert.NotContains(t, h.URL, "+")

	u, err := url.Parse(h.URL)
	require.NoError(t, err)
	assert.Equal(t, h.Message, u.Query().Get("text"))
}

func TestComposeMultipleLines(t *testing.T) {
	cart := NewCart()
	cart.AddOrIncrement(product("1", "129.90"))
	cart.AddOrIncrement(product("1", "129.90"))
	cart.AddOrIncrement(product("3", "199.90"))

	h := testComposer.Compose(cart.Lines())

	assert.Contains(t, h.Message, "• 2x Item 1 - R$ 129.90\n")
	assert.Contains(t, h.Message, "• 1x Item 3 - R$ 199.90\n")
	assert.Contains(t, h.Message, "Total: R$ 459.70")
	assert.Equal(t, 3, cart.ItemCount(), "compose must not mutate the cart")
}

func TestComposeEmptyCart(t *testing.T) {
	h := testComposer.Compose(nil)

	assert.Contains(t, h.Message, "Total: R$ 0.00")
	assert.Contains(t, h.Message, "Aguardo confirmação!")
	assert.NotEmpty(t, h.URL)
}

func TestQueryEscapeSpaces(t *testing.T) {
	in := "Saia (P) *novo* 1+1 ok!"
	got := queryEscapeSpaces(in)

	assert.Equal(t, "Saia%20%28P%29%20%2Anovo%2A%201%2B1%20ok%21", got)

	back, err := url.QueryUnescape(got)
	require.NoError(t, err)
	assert.Equal(t, in, back)
}
