package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatPrice(t *testing.T) {
	cases := map[string]string{
		"0":          "0",
		"999":        "999",
		"1000":       "1.000",
		"1234567":    "1.234.567",
		"1234567.50": "1.234.567,5",
		"-42000.25":  "-42.000,25",
		"0.001":      "0,001",
	}
	for in, want := range cases {
		got := FormatPrice(decimal.RequireFromString(in))
		assert.Equal(t, want, got, "FormatPrice(%s)", in)
	}
}

func TestParsePrice_RoundTrip(t *testing.T) {
	values := []string{"0", "1", "999", "1000", "100000", "1234567.5", "-42000.25", "0.001", "987654321012.75"}
	for _, v := range values {
		d := decimal.RequireFromString(v)
		back, err := ParsePrice(FormatPrice(d))
		require.NoError(t, err, v)
		assert.True(t, back.Equal(d), "round trip of %s gave %s", v, back)
	}
}

func TestParsePrice_RejectsMalformed(t *testing.T) {
	for _, s := range []string{"", "abc", "1,000.5", "12.34", "1..000", "1.0000"} {
		_, err := ParsePrice(s)
		assert.ErrorIs(t, err, ErrInvalidPrice, s)
	}
}

func TestSum(t *testing.T) {
	lines := []Line{
		{Price: decimal.NewFromInt(100000), PromotionalPrice: decimal.NewFromInt(90000), Count: 2},
		{Price: decimal.NewFromInt(50000), PromotionalPrice: decimal.NewFromInt(50000), Count: 1},
	}

	got := Sum(lines)

	assert.True(t, got.TotalPrice.Equal(decimal.NewFromInt(250000)))
	assert.True(t, got.TotalPromotionalPrice.Equal(decimal.NewFromInt(230000)))
	assert.Equal(t, 3, got.Amount)
}

func TestSum_Empty(t *testing.T) {
	got := Sum(nil)
	assert.True(t, got.TotalPrice.IsZero())
	assert.Equal(t, 0, got.Amount)
}
