// Package pricing is the pure calculator behind the combo catalog: component
// costs in, total cost and two-decimal profit out. It has no side effects and
// no error cases; malformed numeric input coerces to zero on purpose, because
// that is how the operator-facing forms have always behaved.
package pricing

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Cost sums the three cost components of a combo.
func Cost(fabric, seamstress, packaging decimal.Decimal) decimal.Decimal {
	return fabric.Add(seamstress).Add(packaging)
}

// Profit returns salePrice minus totalCost, rounded to two decimal places.
func Profit(salePrice, totalCost decimal.Decimal) decimal.Decimal {
	return salePrice.Sub(totalCost).Round(2)
}

// ComboProfit derives the stored profit for a combo from its raw inputs.
func ComboProfit(salePrice, fabric, seamstress, packaging decimal.Decimal) decimal.Decimal {
	return Profit(salePrice, Cost(fabric, seamstress, packaging))
}

// ParseAmount converts a form value to a monetary amount. Empty or
// unparseable input becomes zero rather than an error.
func ParseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseQuantity converts a form value to an integer count, coercing empty or
// unparseable input to zero. Negative values pass through unchanged.
func ParseQuantity(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
