package money

import "github.com/shopspring/decimal"

// Line is one priced row of a cart or an order.
type Line struct {
	Price            decimal.Decimal
	PromotionalPrice decimal.Decimal
	Count            int
}

// Totals aggregates a set of lines. Amount is the number of units.
type Totals struct {
	TotalPrice            decimal.Decimal `json:"totalPrice"`
	TotalPromotionalPrice decimal.Decimal `json:"totalPromotionalPrice"`
	Amount                int             `json:"amount"`
}

// Sum totals the list price and the promotional price of every line.
func Sum(lines []Line) Totals {
	t := Totals{TotalPrice: decimal.Zero, TotalPromotionalPrice: decimal.Zero}
	for _, l := range lines {
		count := decimal.NewFromInt(int64(l.Count))
		t.TotalPrice = t.TotalPrice.Add(l.Price.Mul(count))
		t.TotalPromotionalPrice = t.TotalPromotionalPrice.Add(l.PromotionalPrice.Mul(count))
		t.Amount += l.Count
	}
	return t
}
