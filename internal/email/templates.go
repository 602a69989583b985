package email

import (
	"fmt"
	"html"
	"strings"

	"github.com/example/sneaker-shop/internal/checkout"
)

// BuildQuotationNoticeBody renders the operator-facing HTML summary of a new
// quotation.
func BuildQuotationNoticeBody(snap checkout.Snapshot) string {
	var b strings.Builder

	b.WriteString("<html><body>")
	fmt.Fprintf(&b, "<h2>New quotation %s</h2>", html.EscapeString(snap.ID))
	fmt.Fprintf(&b, "<p>Method: %s<br>Status: %s<br>Created: %s</p>",
		html.EscapeString(string(snap.Method)),
		html.EscapeString(snap.Status),
		snap.CreatedAt.Format("2006-01-02 15:04:05"))

	b.WriteString("<table border=\"1\" cellpadding=\"4\"><tr><th>Item</th><th>Size</th><th>Qty</th><th>Unit price</th></tr>")
	for _, item := range snap.Items {
		fmt.Fprintf(&b, "<tr><td>%s</td><td>%s</td><td>%d</td><td>$%s</td></tr>",
			html.EscapeString(item.Name),
			html.EscapeString(item.Size),
			item.Quantity,
			item.UnitPrice.StringFixed(2))
	}
	b.WriteString("</table>")

	fmt.Fprintf(&b, "<p>Subtotal: $%s<br>Shipping: $%s<br><b>Total: $%s</b></p>",
		snap.Subtotal.StringFixed(2),
		snap.Shipping.StringFixed(2),
		snap.Total.StringFixed(2))
	b.WriteString("</body></html>")

	return b.String()
}
