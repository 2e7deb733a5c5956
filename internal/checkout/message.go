package checkout

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/andeshop/storefront-go/internal/cart"
	"github.com/andeshop/storefront-go/internal/discount"
)

// BuildOrderSummary renders the human-readable order text that is handed to
// WhatsApp: itemized lines, subtotal, discount line when one was consumed,
// grand total and placeholder fields for shipping coordination.
func BuildOrderSummary(orderID string, lines []cart.Line, subtotal float64, d *discount.State, total float64) string {
	var b strings.Builder

	if orderID != "" {
		fmt.Fprintf(&b, "New order #%s\n\n", orderID)
	} else {
		b.WriteString("New order (not yet registered)\n\n")
	}

	for _, l := range lines {
		fmt.Fprintf(&b, "• %d x %s — $%.2f\n", l.Quantity, l.Name, l.UnitPrice*float64(l.Quantity))
	}

	fmt.Fprintf(&b, "\nSubtotal: $%.2f\n", subtotal)
	if d != nil {
		fmt.Fprintf(&b, "Discount %s (-%s): -$%.2f\n", d.Code, d.PercentDisplay(), subtotal-total)
	}
	fmt.Fprintf(&b, "Total: $%.2f\n", total)

	b.WriteString("\nName:\nDelivery address:\nPayment method:\n")
	return b.String()
}

// WhatsAppURL builds the wa.me deep link with the summary pre-encoded.
func WhatsAppURL(phone, text string) string {
	return "https://wa.me/" + phone + "?text=" + url.QueryEscape(text)
}
