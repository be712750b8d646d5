package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Price bounds shared by both stores: a MongoDB Decimal128 holds 34
// significant digits and order_line_items.price is NUMERIC(19, 2).
const (
	MaxPriceDigits        = 34
	MaxPriceIntegerDigits = 17
	MaxPriceScale         = 34
)

// maxPriceCoefficientBits rejects huge coefficients before counting digits.
const maxPriceCoefficientBits = 128

// checkPrice reports why d cannot be stored, or "" when it fits. It only
// inspects the coefficient and exponent, never the decimal's string form.
func checkPrice(d decimal.Decimal) string {
	if d.Coefficient().BitLen() > maxPriceCoefficientBits || d.NumDigits() > MaxPriceDigits {
		return fmt.Sprintf("must have at most %d significant digits", MaxPriceDigits)
	}
	exp := int64(d.Exponent())
	if int64(d.NumDigits())+exp > MaxPriceIntegerDigits {
		return fmt.Sprintf("must have at most %d integer digits", MaxPriceIntegerDigits)
	}
	if -exp > MaxPriceScale {
		return fmt.Sprintf("must have at most %d decimal places", MaxPriceScale)
	}
	return ""
}
