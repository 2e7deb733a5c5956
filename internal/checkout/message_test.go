package checkout

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/andeshop/storefront-go/internal/cart"
	"github.com/andeshop/storefront-go/internal/discount"
)

func TestBuildOrderSummary(t *testing.T) {
	lines := []cart.Line{
		{ProductID: "1", Name: "Widget", UnitPrice: 100, Quantity: 2},
		{ProductID: "2", Name: "Gadget", UnitPrice: 9.5, Quantity: 1},
	}
	d := &discount.State{Code: "SAVE10", Percent: 0.1}

	text := BuildOrderSummary("ord-9", lines, 209.5, d, 188.55)

	require.Contains(t, text, "New order #ord-9")
	require.Contains(t, text, "2 x Widget — $200.00")
	require.Contains(t, text, "1 x Gadget — $9.50")
	require.Contains(t, text, "Subtotal: $209.50")
	require.Contains(t, text, "Discount SAVE10 (-10%): -$20.95")
	require.Contains(t, text, "Total: $188.55")
	require.Contains(t, text, "Delivery address:")
}

func TestBuildOrderSummaryWithoutOrderOrDiscount(t *testing.T) {
	lines := []cart.Line{{ProductID: "1", Name: "Widget", UnitPrice: 100, Quantity: 1}}

	text := BuildOrderSummary("", lines, 100, nil, 100)

	require.Contains(t, text, "not yet registered")
	require.NotContains(t, text, "Discount")
	require.Contains(t, text, "Total: $100.00")
}

func TestWhatsAppURL(t *testing.T) {
	link := WhatsAppURL("573001112233", "hello world & more")

	require.True(t, strings.HasPrefix(link, "https://wa.me/573001112233?text="))

	u, err := url.Parse(link)
	require.NoError(t, err)
	require.Equal(t, "hello world & more", u.Query().Get("text"))
}
