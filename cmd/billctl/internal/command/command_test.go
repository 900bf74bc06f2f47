package command_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/billbook/cmd/billctl/internal/command"
	"github.com/MrJamesThe3rd/billbook/internal/ledger"
)

const invoiceJSON = `{
  "items": [
    {"description": "Design", "quantity": 2, "unit_price": "100", "discount_percent": 10, "tax_rate_percent": 18},
    {"description": "Hosting", "unit_price": "1,000"}
  ],
  "payments": [
    {"amount": "500", "method": "upi", "date": "2026-03-01"}
  ]
}`

const overpaidJSON = `{
  "items": [{"description": "a", "unit_price": 100, "tax_rate_percent": 0}],
  "payments": [{"amount": 60, "method": "cash"}, {"amount": 60, "method": "cash"}]
}`

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	root := command.NewRootCmd(command.Options{DefaultTaxRate: decimal.NewFromInt(18)})

	var out, errOut bytes.Buffer
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)

	err := root.Execute()

	return out.String(), err
}

func TestTotals_JSON(t *testing.T) {
	out, err := run(t, invoiceJSON, "totals", "-f", "-", "--json")
	require.NoError(t, err)

	var got struct {
		Items []struct {
			Description string `json:"description"`
			Taxable     string `json:"taxable"`
			Tax         string `json:"tax"`
			Total       string `json:"total"`
		} `json:"items"`
		Subtotal   string `json:"subtotal"`
		TaxTotal   string `json:"tax_total"`
		GrandTotal string `json:"grand_total"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))

	require.Len(t, got.Items, 2)
	assert.Equal(t, "180.00", got.Items[0].Taxable)
	assert.Equal(t, "32.40", got.Items[0].Tax)
	assert.Equal(t, "212.40", got.Items[0].Total)
	assert.Equal(t, "1180.00", got.Items[1].Total)
	assert.Equal(t, "1180.00", got.Subtotal)
	assert.Equal(t, "212.40", got.TaxTotal)
	assert.Equal(t, "1392.40", got.GrandTotal)
}

func TestTotals_Table(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quotation.json")
	require.NoError(t, os.WriteFile(path, []byte(invoiceJSON), 0o600))

	out, err := run(t, "", "totals", "-f", path)
	require.NoError(t, err)

	assert.Contains(t, out, "Design")
	assert.Contains(t, out, "Hosting")
	assert.Contains(t, out, "Grand total: 1392.40")
}

func TestTotals_Errors(t *testing.T) {
	type testCase struct {
		name    string
		stdin   string
		wantErr error
		wantMsg string
	}

	tests := []testCase{
		{
			name:    "NegativeQuantity",
			stdin:   `{"items": [{"description": "a", "unit_price": 1}, {"description": "b", "quantity": -1, "unit_price": 1}]}`,
			wantErr: ledger.ErrInvalidLineItem,
			wantMsg: "item 1: quantity",
		},
		{
			name:    "DiscountAboveHundred",
			stdin:   `{"items": [{"description": "a", "unit_price": 1, "discount_percent": 150}]}`,
			wantErr: ledger.ErrInvalidLineItem,
			wantMsg: "discount_percent",
		},
		{
			name:    "NoItems",
			stdin:   `{"items": []}`,
			wantMsg: "no items",
		},
		{
			name:    "MalformedAmount",
			stdin:   `{"items": [{"description": "a", "unit_price": "12abc"}]}`,
			wantErr: ledger.ErrInvalidNumber,
		},
		{
			name:    "UnknownField",
			stdin:   `{"lines": []}`,
			wantMsg: "unknown field",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.stdin, "totals")
			require.Error(t, err)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}

			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestReconcile(t *testing.T) {
	type args struct {
		stdin string
		flags []string
	}

	type testCase struct {
		name        string
		args        args
		wantErr     error
		wantPaid    string
		wantBalance string
		wantStatus  string
		wantCount   int
	}

	tests := []testCase{
		{
			name:        "RecordedPaymentsOnly",
			args:        args{stdin: invoiceJSON},
			wantPaid:    "500.00",
			wantBalance: "892.40",
			wantStatus:  "partially_paid",
			wantCount:   1,
		},
		{
			name:        "PayRemainder",
			args:        args{stdin: invoiceJSON, flags: []string{"--pay", "892.40", "--method", "bank_transfer", "--date", "2026-03-10"}},
			wantPaid:    "1392.40",
			wantBalance: "0.00",
			wantStatus:  "paid",
			wantCount:   2,
		},
		{
			name:        "NoPayments",
			args:        args{stdin: `{"items": [{"description": "a", "unit_price": 100, "tax_rate_percent": 0}]}`},
			wantPaid:    "0.00",
			wantBalance: "100.00",
			wantStatus:  "unpaid",
		},
		{
			name:    "PayExceedsBalance",
			args:    args{stdin: invoiceJSON, flags: []string{"--pay", "900"}},
			wantErr: ledger.ErrExceedsBalance,
		},
		{
			name:    "PayZero",
			args:    args{stdin: invoiceJSON, flags: []string{"--pay", "0"}},
			wantErr: ledger.ErrInvalidAmount,
		},
		{
			name:    "UnknownMethod",
			args:    args{stdin: invoiceJSON, flags: []string{"--pay", "10", "--method", "barter"}},
			wantErr: ledger.ErrInvalidMethod,
		},
		{
			name:    "RecordedPaymentsOverpay",
			args:    args{stdin: overpaidJSON},
			wantErr: ledger.ErrExceedsBalance,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.args.stdin, append([]string{"reconcile", "--json"}, tt.args.flags...)...)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)

			var got struct {
				AmountPaid    string `json:"amount_paid"`
				BalanceDue    string `json:"balance_due"`
				PaymentStatus string `json:"payment_status"`
				Payments      int    `json:"payments"`
			}
			require.NoError(t, json.Unmarshal([]byte(out), &got))

			assert.Equal(t, tt.wantPaid, got.AmountPaid)
			assert.Equal(t, tt.wantBalance, got.BalanceDue)
			assert.Equal(t, tt.wantStatus, got.PaymentStatus)
			assert.Equal(t, tt.wantCount, got.Payments)
		})
	}
}

func TestReconcile_Text(t *testing.T) {
	out, err := run(t, invoiceJSON, "reconcile", "--pay", "100", "--method", "card")
	require.NoError(t, err)

	assert.Contains(t, out, "Amount due:  1392.40")
	assert.Contains(t, out, "Balance due: 792.40")
	assert.Contains(t, out, "Status:      partially_paid")
}
