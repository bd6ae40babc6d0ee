// Package money formats and totals storefront prices.
//
// Prices are rendered the way the storefront shows VND amounts: thousands are
// grouped with "." and a fractional part, when present, follows a ",".
//
//	1234567    → 1.234.567
//	1234567.5  → 1.234.567,5
//	-42000.25  → -42.000,25
package money

import (
	"errors"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is appended by callers that render a price label.
const Currency = "VND"

var ErrInvalidPrice = errors.New("invalid price")

var priceFormat = regexp.MustCompile(`^-?\d{1,3}(\.\d{3})*(,\d+)?$`)

// FormatPrice renders d with grouped thousands and a comma decimal separator.
func FormatPrice(d decimal.Decimal) string {
	s := d.String()

	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, fracPart, _ := strings.Cut(s, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	n := len(intPart)
	for i, digit := range intPart {
		if i > 0 && (n-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(digit)
	}
	if fracPart != "" {
		b.WriteByte(',')
		b.WriteString(fracPart)
	}
	return b.String()
}

// ParsePrice is the inverse of FormatPrice.
func ParsePrice(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if !priceFormat.MatchString(s) {
		return decimal.Zero, ErrInvalidPrice
	}
	s = strings.ReplaceAll(s, ".", "")
	s = strings.Replace(s, ",", ".", 1)
	return decimal.NewFromString(s)
}

// Label renders a price followed by the currency code.
func Label(d decimal.Decimal) string {
	return FormatPrice(d) + " " + Currency
}
