package pricing

import "github.com/shopspring/decimal"

var oneHundred = decimal.NewFromInt(100)

// Details is the display-ready breakdown of a product price.
type Details struct {
	FinalPrice      decimal.Decimal `json:"final_price"`
	RegularPrice    decimal.Decimal `json:"regular_price"`
	IsDiscounted    bool            `json:"is_discounted"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
}

// EffectivePrice returns the unit price after applying a percentage discount.
// A discount outside (0, 100] is treated as no discount. The result is
// floored at zero.
func EffectivePrice(listed, discountPct decimal.Decimal) decimal.Decimal {
	if !applicable(discountPct) {
		return listed
	}
	factor := decimal.NewFromInt(1).Sub(discountPct.Div(oneHundred))
	final := listed.Mul(factor)
	if final.IsNegative() {
		return decimal.Zero
	}
	return final
}

// Describe wraps EffectivePrice into a Details value. IsDiscounted is true
// only when a strictly positive discount in (0, 100] was applied.
func Describe(listed, discountPct decimal.Decimal) Details {
	if applicable(discountPct) {
		return Details{
			FinalPrice:      EffectivePrice(listed, discountPct),
			RegularPrice:    listed,
			IsDiscounted:    true,
			DiscountPercent: discountPct,
		}
	}
	return Details{
		FinalPrice:      listed,
		RegularPrice:    listed,
		IsDiscounted:    false,
		DiscountPercent: decimal.Zero,
	}
}

func applicable(discountPct decimal.Decimal) bool {
	return discountPct.IsPositive() && discountPct.LessThanOrEqual(oneHundred)
}
