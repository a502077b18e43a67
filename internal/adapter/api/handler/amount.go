package handler

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/gas1730-arch/oi-market/pkg/errors"
)

var maxAmount = decimal.NewFromInt(math.MaxInt64)

// wholeAmount accepts a positive whole number of currency units. JSON numbers
// and numeric strings both bind into decimal.Decimal, so "15000", 15000 and
// 15000.0 are all accepted while 15000.5 is not.
func wholeAmount(field string, d decimal.Decimal) (int64, error) {
	if !d.IsPositive() {
		return 0, errors.Invalid(field+" must be greater than 0", nil)
	}
	if !d.IsInteger() {
		return 0, errors.Invalid(field+" must be a whole number", nil)
	}
	if d.GreaterThan(maxAmount) {
		return 0, errors.Invalid(field+" is too large", nil)
	}
	return d.IntPart(), nil
}
