package checkout

import (
	"fmt"
	"net/url"
	"strings"
)

// Handoff renders a quotation into a message and deep link for the shop's
// messaging channel. It performs no I/O; opening the link is the caller's
// business.
type Handoff struct {
	ShopName string
	// Phone is the destination number in international format without the
	// leading plus, as wa.me expects it.
	Phone string
}

// Message renders the human-readable order summary submitted through the
// messaging channel. Output is deterministic for a given snapshot.
func (h Handoff) Message(s Snapshot) string {
	var b strings.Builder

	switch s.Method {
	case MethodDirect:
		fmt.Fprintf(&b, "Hello %s, I would like a quote for the immediate purchase of this product:\n\n", h.ShopName)
	default:
		fmt.Fprintf(&b, "Hello %s, I put together an order on the web shop. Here are the details for a quote:\n\n", h.ShopName)
	}

	for _, item := range s.Items {
		fmt.Fprintf(&b, "- %dx %s (Size: %s) - $%s each\n",
			item.Quantity, item.Name, item.Size, item.UnitPrice.StringFixed(2))
	}

	b.WriteString("\n*Quotation summary:*\n")
	fmt.Fprintf(&b, "Subtotal: $%s\n", s.Subtotal.StringFixed(2))
	fmt.Fprintf(&b, "Estimated shipping: $%s\n", s.Shipping.StringFixed(2))
	fmt.Fprintf(&b, "*Estimated total: $%s*\n\n", s.Total.StringFixed(2))

	if s.Method == MethodDirect {
		b.WriteString("Please confirm availability and the payment process.")
	} else {
		b.WriteString("Please help me complete my order.")
	}
	return b.String()
}

// Link builds the wa.me deep link carrying the URI-encoded message.
func (h Handoff) Link(s Snapshot) string {
	return "https://wa.me/" + h.Phone + "?text=" + url.QueryEscape(h.Message(s))
}
