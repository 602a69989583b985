package checkout

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/example/sneaker-shop/internal/cart"
	"github.com/example/sneaker-shop/internal/catalog"
	"github.com/example/sneaker-shop/internal/pricing"
)

// StatusQuotationPending is the initial status of every recorded quotation.
// The remaining lifecycle lives in the order package.
const StatusQuotationPending = "quotation_pending"

// Method tags how the quotation was produced.
type Method string

const (
	MethodCart   Method = "cart"   // full-cart checkout
	MethodDirect Method = "direct" // single-product "buy now"
)

// Item is one line of an order snapshot, copied from the cart at submission
// time.
type Item struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Size      string          `json:"size"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Category  string          `json:"category"`
	ImageURL  string          `json:"image_url,omitempty"`
}

// Snapshot is the write-once quotation record handed to the order recorder.
type Snapshot struct {
	ID        string          `json:"id"`
	Items     []Item          `json:"items"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Shipping  decimal.Decimal `json:"shipping"`
	Total     decimal.Decimal `json:"total"`
	Status    string          `json:"status"`
	Method    Method          `json:"method"`
	CreatedAt time.Time       `json:"created_at"`
}

// ShippingPolicy is a flat fee charged only when something is being bought.
type ShippingPolicy struct {
	FlatFee decimal.Decimal
}

// FeeFor returns the fee for a given subtotal: zero for an empty order.
func (p ShippingPolicy) FeeFor(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.IsPositive() {
		return p.FlatFee
	}
	return decimal.Zero
}

// BuildSnapshot freezes the given cart lines into an immutable quotation
// record with computed totals, a fresh ID and the initial status.
func BuildSnapshot(lines []cart.Line, policy ShippingPolicy, method Method) Snapshot {
	items := make([]Item, 0, len(lines))
	subtotal := decimal.Zero
	for _, l := range lines {
		items = append(items, Item{
			ProductID: l.ProductID,
			Name:      l.Name,
			Size:      l.Size,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Category:  l.Category,
			ImageURL:  l.ImageURL,
		})
		subtotal = subtotal.Add(l.Subtotal())
	}

	shipping := policy.FeeFor(subtotal)
	return Snapshot{
		ID:        uuid.New().String(),
		Items:     items,
		Subtotal:  subtotal,
		Shipping:  shipping,
		Total:     subtotal.Add(shipping),
		Status:    StatusQuotationPending,
		Method:    method,
		CreatedAt: time.Now(),
	}
}

// BuildDirectSnapshot quotes an immediate single-product purchase without
// touching any cart. The same validation rules as cart.Store.Add apply.
func BuildDirectSnapshot(p catalog.Product, quantity int, size string, policy ShippingPolicy) (Snapshot, error) {
	if quantity < 1 {
		return Snapshot{}, cart.ErrInvalidQuantity
	}
	if size == "" {
		return Snapshot{}, cart.ErrMissingSize
	}

	details := pricing.Describe(p.Price, p.Discount)
	line := cart.Line{
		ProductID: p.ID,
		Name:      p.DisplayName(),
		Size:      size,
		Quantity:  quantity,
		UnitPrice: details.FinalPrice,
		Category:  p.Category,
		ImageURL:  p.ImageURL,
	}
	return BuildSnapshot([]cart.Line{line}, policy, MethodDirect), nil
}
