package store

import (
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/billbook/internal/document"
	"github.com/MrJamesThe3rd/billbook/internal/ledger"
)

// fakeRow hands back values in selectDocumentColumns order. Nil entries leave the destination untouched.
type fakeRow []any

func (r fakeRow) Scan(dest ...any) error {
	for i, v := range r {
		if v == nil {
			continue
		}

		reflect.ValueOf(dest[i]).Elem().Set(reflect.ValueOf(v))
	}

	return nil
}

func documentRow(t *testing.T, items []ledger.LineItem) fakeRow {
	t.Helper()

	raw, err := encodeItems(items)
	require.NoError(t, err)

	return fakeRow{
		uuid.New(), string(document.KindInvoice), "INV-0001", uuid.New(), string(document.StatusSent), raw,
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), nil, "",
		nil, nil,
		time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC), nil, nil,
	}
}

func TestScanDocument_DerivesTotalsFromItems(t *testing.T) {
	type testCase struct {
		name          string
		items         []ledger.LineItem
		wantGrand     string
		wantAmountDue string
	}

	tests := []testCase{
		{
			name: "SubCentGrandTotal",
			items: []ledger.LineItem{
				{Quantity: decimal.NewFromInt(1), UnitPrice: decimal.RequireFromString("10.00495")},
			},
			wantGrand:     "10.00495",
			wantAmountDue: "10.00",
		},
		{
			name: "TaxBeyondFourPlaces",
			items: []ledger.LineItem{
				{
					Quantity:        decimal.RequireFromString("3"),
					UnitPrice:       decimal.RequireFromString("0.3333"),
					DiscountPercent: decimal.RequireFromString("2.5"),
					TaxRatePercent:  decimal.RequireFromString("18"),
				},
			},
			wantGrand:     "1.15038495",
			wantAmountDue: "1.15",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := scanDocument(documentRow(t, tt.items))
			require.NoError(t, err)

			want := ledger.ComputeTotals(tt.items)

			assert.True(t, doc.Totals.GrandTotal.Equal(decimal.RequireFromString(tt.wantGrand)), doc.Totals.GrandTotal.String())
			assert.True(t, doc.Totals.GrandTotal.Equal(want.GrandTotal))
			assert.True(t, doc.Totals.GrandTotal.Equal(doc.Totals.Subtotal.Add(doc.Totals.TaxTotal)))
			assert.Equal(t, tt.wantAmountDue, ledger.Format(doc.Totals.AmountDue()))
			assert.Equal(t, ledger.Format(want.AmountDue()), ledger.Format(doc.Reconcile().BalanceDue))
		})
	}
}
