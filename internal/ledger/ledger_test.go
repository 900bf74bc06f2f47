package ledger_test

import (
	"math/rand/v2"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/billbook/internal/ledger"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func item(qty, price, discount, tax string) ledger.LineItem {
	return ledger.LineItem{
		Quantity:        dec(qty),
		UnitPrice:       dec(price),
		DiscountPercent: dec(discount),
		TaxRatePercent:  dec(tax),
	}
}

func assertAmount(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Equal(t, want, ledger.Format(got))
}

func TestComputeTotals(t *testing.T) {
	type testCase struct {
		name      string
		items     []ledger.LineItem
		wantSub   string
		wantTax   string
		wantGrand string
	}

	tests := []testCase{
		{
			name:      "Empty",
			items:     nil,
			wantSub:   "0.00",
			wantTax:   "0.00",
			wantGrand: "0.00",
		},
		{
			name:      "SingleItem",
			items:     []ledger.LineItem{item("1", "5000", "0", "18")},
			wantSub:   "5000.00",
			wantTax:   "900.00",
			wantGrand: "5900.00",
		},
		{
			name: "TwoItems",
			items: []ledger.LineItem{
				item("1", "5000", "0", "18"),
				item("1", "2000", "0", "18"),
			},
			wantSub:   "7000.00",
			wantTax:   "1260.00",
			wantGrand: "8260.00",
		},
		{
			name:      "DiscountAppliedBeforeTax",
			items:     []ledger.LineItem{item("1", "1000", "10", "18")},
			wantSub:   "900.00",
			wantTax:   "162.00",
			wantGrand: "1062.00",
		},
		{
			name:      "NegativeInputsClamped",
			items:     []ledger.LineItem{item("-2", "100", "0", "18"), item("1", "-50", "0", "18")},
			wantSub:   "0.00",
			wantTax:   "0.00",
			wantGrand: "0.00",
		},
		{
			name:      "PercentagesClampedToHundred",
			items:     []ledger.LineItem{item("1", "100", "150", "18"), item("1", "100", "0", "250")},
			wantSub:   "100.00",
			wantTax:   "100.00",
			wantGrand: "200.00",
		},
		{
			name:      "FractionalQuantity",
			items:     []ledger.LineItem{item("2.5", "19.99", "0", "5")},
			wantSub:   "49.98",
			wantTax:   "2.50",
			wantGrand: "52.47",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ledger.ComputeTotals(tt.items)

			assertAmount(t, tt.wantSub, got.Subtotal)
			assertAmount(t, tt.wantTax, got.TaxTotal)
			assertAmount(t, tt.wantGrand, got.GrandTotal)
		})
	}
}

func TestLineItem_DerivedAmounts(t *testing.T) {
	li := item("1", "1000", "10", "18")

	assertAmount(t, "900.00", li.TaxableAmount())
	assertAmount(t, "162.00", li.TaxAmount())
	assertAmount(t, "1062.00", li.Total())
}

func TestNewLineItem_DefaultTaxRate(t *testing.T) {
	li := ledger.NewLineItem("Consulting", dec("2"), dec("100"))

	assert.True(t, li.TaxRatePercent.Equal(decimal.NewFromInt(ledger.DefaultTaxRatePercent)))
	assert.True(t, li.DiscountPercent.IsZero())
	assertAmount(t, "236.00", li.Total())
}

func TestComputeTotals_GrandTotalIsSubtotalPlusTax(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))

	for range 200 {
		items := make([]ledger.LineItem, r.IntN(12))
		for i := range items {
			items[i] = ledger.LineItem{
				Quantity:        decimal.NewFromInt(int64(r.IntN(50))).Div(decimal.NewFromInt(int64(r.IntN(4) + 1))),
				UnitPrice:       decimal.New(int64(r.IntN(1_000_000)), -3),
				DiscountPercent: decimal.New(int64(r.IntN(10_001)), -2),
				TaxRatePercent:  decimal.New(int64(r.IntN(2_801)), -2),
			}
		}

		got := ledger.ComputeTotals(items)
		assert.True(t, got.GrandTotal.Equal(got.Subtotal.Add(got.TaxTotal)))
	}
}

func TestComputeTotals_Idempotent(t *testing.T) {
	items := []ledger.LineItem{
		item("3", "33.333", "7.5", "18"),
		item("1", "0.01", "0", "12"),
	}
	snapshot := make([]ledger.LineItem, len(items))
	copy(snapshot, items)

	first := ledger.ComputeTotals(items)
	second := ledger.ComputeTotals(items)

	assert.True(t, first.Subtotal.Equal(second.Subtotal))
	assert.True(t, first.TaxTotal.Equal(second.TaxTotal))
	assert.True(t, first.GrandTotal.Equal(second.GrandTotal))
	assert.Equal(t, snapshot, items)
}

func TestTotals_AmountDueRoundsToCents(t *testing.T) {
	totals := ledger.ComputeTotals([]ledger.LineItem{item("1", "10.005", "0", "0")})

	assert.Equal(t, "10.005", totals.GrandTotal.String())
	assertAmount(t, "10.01", totals.AmountDue())
}
