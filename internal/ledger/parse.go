package ledger

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses user-entered numbers such as "1234.56" or "1,234.56".
// Unlike the calculator, it never coerces bad input to zero.
func ParseAmount(s string) (decimal.Decimal, error) {
	clean := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if clean == "" {
		return decimal.Zero, fmt.Errorf("%w: empty value", ErrInvalidNumber)
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidNumber, s)
	}

	return d, nil
}

// ValidateLineItem rejects negative quantities and prices and percentages outside [0,100].
func ValidateLineItem(item LineItem) error {
	return validateLineItem(-1, item)
}

// ValidateLineItems validates every item and reports the first failure with its index.
func ValidateLineItems(items []LineItem) error {
	for i, item := range items {
		if err := validateLineItem(i, item); err != nil {
			return err
		}
	}

	return nil
}

func validateLineItem(idx int, item LineItem) error {
	checks := []struct {
		field string
		value decimal.Decimal
		max   *decimal.Decimal
	}{
		{field: "quantity", value: item.Quantity},
		{field: "unit_price", value: item.UnitPrice},
		{field: "discount_percent", value: item.DiscountPercent, max: &hundred},
		{field: "tax_rate_percent", value: item.TaxRatePercent, max: &hundred},
	}

	for _, c := range checks {
		if c.value.IsNegative() || (c.max != nil && c.value.GreaterThan(*c.max)) {
			return &LineItemError{Index: idx, Field: c.field, Value: c.value, Err: ErrInvalidLineItem}
		}
	}

	return nil
}
