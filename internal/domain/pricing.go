package domain

import "github.com/shopspring/decimal"

// DerivePrice computes a product's selling price from its cost (hpp) and
// margin percentage, rounded to whole rupiah. Shown as a live preview in
// the product form; the backend stores whatever price is submitted.
func DerivePrice(hpp, marginPercent int64) int64 {
	if hpp <= 0 {
		return 0
	}
	cost := decimal.NewFromInt(hpp)
	factor := decimal.NewFromInt(100 + marginPercent).Div(decimal.NewFromInt(100))
	return cost.Mul(factor).Round(0).IntPart()
}
