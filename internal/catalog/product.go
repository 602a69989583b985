package catalog

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OneSize is the canonical size label for products sold in a single size.
// Single-size products carry it in their Sizes list; the cart never
// substitutes it on its own.
const OneSize = "Unitalla"

var (
	ErrMissingName     = errors.New("product needs a name or a brand/model pair")
	ErrInvalidPrice    = errors.New("price must be a non-negative number")
	ErrInvalidDiscount = errors.New("discount must be a percentage between 0 and 100")
)

// Product is a catalog entry. Price is the listed (pre-discount) unit price;
// Discount is an optional percentage, zero meaning none.
type Product struct {
	ID        string          `json:"id"`
	Brand     string          `json:"brand,omitempty"`
	Model     string          `json:"model,omitempty"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Discount  decimal.Decimal `json:"discount"`
	Category  string          `json:"category"`
	Sizes     []string        `json:"sizes"`
	ImageURL  string          `json:"image_url,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// DisplayName composes the customer-facing name. Brand+model wins when both
// are present; otherwise whatever single field is set.
func (p Product) DisplayName() string {
	composed := strings.TrimSpace(strings.TrimSpace(p.Brand) + " " + strings.TrimSpace(p.Model))
	if composed != "" {
		return composed
	}
	return strings.TrimSpace(p.Name)
}

// ParseDocument converts an untyped catalog document into a validated
// Product. It is the single coercion boundary for numeric fields: a price
// that is missing, malformed, or negative is rejected, as is a discount
// outside [0, 100]. A missing discount defaults to zero.
func ParseDocument(id string, doc map[string]any) (Product, error) {
	p := Product{
		ID:       id,
		Brand:    stringField(doc, "brand"),
		Model:    stringField(doc, "model"),
		Name:     stringField(doc, "name"),
		Category: stringField(doc, "category"),
		ImageURL: stringField(doc, "image"),
	}
	if p.ImageURL == "" {
		p.ImageURL = stringField(doc, "image_url")
	}

	if p.DisplayName() == "" {
		return Product{}, ErrMissingName
	}

	price, ok, err := decimalField(doc, "price")
	if err != nil || !ok {
		return Product{}, ErrInvalidPrice
	}
	if price.IsNegative() {
		return Product{}, ErrInvalidPrice
	}
	p.Price = price

	discount, ok, err := decimalField(doc, "discount")
	if err != nil {
		return Product{}, ErrInvalidDiscount
	}
	if ok {
		if discount.IsNegative() || discount.GreaterThan(decimal.NewFromInt(100)) {
			return Product{}, ErrInvalidDiscount
		}
		p.Discount = discount
	}

	if sizes, ok := doc["sizes"].([]any); ok {
		for _, s := range sizes {
			if label, ok := s.(string); ok && label != "" {
				p.Sizes = append(p.Sizes, label)
			}
		}
	}

	return p, nil
}

func stringField(doc map[string]any, key string) string {
	if v, ok := doc[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

// decimalField reads a numeric document field. The second return reports
// whether the field was present at all.
func decimalField(doc map[string]any, key string) (decimal.Decimal, bool, error) {
	raw, present := doc[key]
	if !present || raw == nil {
		return decimal.Zero, false, nil
	}

	switch v := raw.(type) {
	case float64:
		return decimal.NewFromFloat(v), true, nil
	case int:
		return decimal.NewFromInt(int64(v)), true, nil
	case int64:
		return decimal.NewFromInt(v), true, nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return decimal.Zero, true, fmt.Errorf("field %q: %w", key, err)
		}
		return d, true, nil
	default:
		return decimal.Zero, true, fmt.Errorf("field %q: unsupported type %T", key, raw)
	}
}
