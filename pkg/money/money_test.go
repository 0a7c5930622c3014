package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatIndianGrouping(t *testing.T) {
	cases := []struct {
		paisa int64
		want  string
	}{
		{0, "₹0.00"},
		{5, "₹0.05"},
		{100, "₹1.00"},
		{10000, "₹100.00"},
		{123456, "₹1,234.56"},
		{12345678, "₹1,23,456.78"},
		{123456789, "₹12,34,567.89"},
		{10000000000, "₹10,00,00,000.00"},
		{-123456, "-₹1,234.56"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Format(tc.paisa))
	}
}

func TestRupeesAndFraction(t *testing.T) {
	p := Paisa(12345)
	assert.Equal(t, int64(123), p.Rupees())
	assert.Equal(t, int64(45), p.Fraction())
}
