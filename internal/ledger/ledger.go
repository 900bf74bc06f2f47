// Package ledger computes document totals and reconciles payments against them.
//
// Everything in this package is pure: values in, values out, no I/O. Amounts are
// accumulated at full precision and only rounded to cents by Round and Format,
// which callers use at their display or persistence boundary.
package ledger

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultTaxRatePercent is the tax rate applied to line items that do not carry one.
const DefaultTaxRatePercent = 18

var hundred = decimal.NewFromInt(100)

// LineItem is one priced row of a quotation or invoice.
type LineItem struct {
	Description     string
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal
	TaxRatePercent  decimal.Decimal
	CommodityID     *uuid.UUID
}

// NewLineItem returns an undiscounted item taxed at DefaultTaxRatePercent.
func NewLineItem(description string, quantity, unitPrice decimal.Decimal) LineItem {
	return LineItem{
		Description:    description,
		Quantity:       quantity,
		UnitPrice:      unitPrice,
		TaxRatePercent: decimal.NewFromInt(DefaultTaxRatePercent),
	}
}

// TaxableAmount is quantity * unit price with the discount applied.
// Negative inputs count as zero and percentages are clamped to [0,100].
func (li LineItem) TaxableAmount() decimal.Decimal {
	base := nonNegative(li.Quantity).Mul(nonNegative(li.UnitPrice))
	discount := base.Mul(clampPercent(li.DiscountPercent)).Shift(-2)

	return base.Sub(discount)
}

// TaxAmount is charged on the discounted amount.
func (li LineItem) TaxAmount() decimal.Decimal {
	return li.TaxableAmount().Mul(clampPercent(li.TaxRatePercent)).Shift(-2)
}

// Total is the taxable amount plus tax.
func (li LineItem) Total() decimal.Decimal {
	return li.TaxableAmount().Add(li.TaxAmount())
}

// Totals are the derived figures of a document. They are never set directly.
type Totals struct {
	Subtotal   decimal.Decimal
	TaxTotal   decimal.Decimal
	GrandTotal decimal.Decimal
}

// ComputeTotals sums taxable amounts and tax over items. An empty slice yields zero totals.
func ComputeTotals(items []LineItem) Totals {
	var t Totals

	for _, item := range items {
		t.Subtotal = t.Subtotal.Add(item.TaxableAmount())
		t.TaxTotal = t.TaxTotal.Add(item.TaxAmount())
	}

	t.GrandTotal = t.Subtotal.Add(t.TaxTotal)

	return t
}

// AmountDue is the grand total settled to cents, the figure payments are reconciled against.
func (t Totals) AmountDue() decimal.Decimal {
	return Round(t.GrandTotal)
}

// Round rounds an amount to cents.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Format renders an amount with exactly two decimal places.
func Format(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}

	return d
}

func clampPercent(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}

	if d.GreaterThan(hundred) {
		return hundred
	}

	return d
}
