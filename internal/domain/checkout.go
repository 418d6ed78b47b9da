package domain

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

// Handoff is a composed order message and the messaging link carrying it
type Handoff struct {
	Message string `json:"message"`
	URL     string `json:"url"`
}

// Composer builds the order message sent to the store over the messaging link
type Composer struct {
	StoreName   string
	BaseURL     string
	Destination string
}

// Compose formats the cart lines as an order message. It never mutates its input.
func (c Composer) Compose(lines []CartLine) Handoff {
	var b strings.Builder
	fmt.Fprintf(&b, "*Olá, %s! Gostaria de fazer o seguinte pedido:*\n\n", c.StoreName)

	total := decimal.Zero
	for _, l := range lines {
		fmt.Fprintf(&b, "• %dx %s - R$ %s\n", l.Quantity, l.Name, l.Price.StringFixed(2))
		total = total.Add(l.Subtotal())
	}

	fmt.Fprintf(&b, "\n*Total: R$ %s*", total.StringFixed(2))
	b.WriteString("\n\nAguardo confirmação!")

	msg := b.String()
	return Handoff{
		Message: msg,
		URL:     fmt.Sprintf("%s/%s?text=%s", strings.TrimRight(c.BaseURL, "/"), c.Destination, queryEscapeSpaces(msg)),
	}
}

// queryEscapeSpaces is url.QueryEscape with spaces written as %20 instead of +.
// Every byte outside [A-Za-z0-9-_.~] is escaped, including !*'().
func queryEscapeSpaces(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
