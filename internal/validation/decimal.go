package validation

import (
	validation "github.com/jellydator/validation"
	"github.com/shopspring/decimal"
)

// PositiveDecimal validates that a decimal amount is strictly greater than zero.
var PositiveDecimal = validation.By(func(value interface{}) error {
	d, ok := asDecimal(value)
	if !ok {
		return validation.NewError("validation_decimal_type", "must be a decimal amount")
	}
	if !d.IsPositive() {
		return validation.NewError("validation_decimal_positive", "must be greater than zero")
	}
	return nil
})

// NonNegativeDecimal validates that a decimal amount is zero or greater.
var NonNegativeDecimal = validation.By(func(value interface{}) error {
	d, ok := asDecimal(value)
	if !ok {
		return validation.NewError("validation_decimal_type", "must be a decimal amount")
	}
	if d.IsNegative() {
		return validation.NewError("validation_decimal_non_negative", "must not be negative")
	}
	return nil
})

func asDecimal(value interface{}) (decimal.Decimal, bool) {
	switch v := value.(type) {
	case decimal.Decimal:
		return v, true
	case *decimal.Decimal:
		if v == nil {
			return decimal.Zero, false
		}
		return *v, true
	default:
		return decimal.Zero, false
	}
}
