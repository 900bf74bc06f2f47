package command

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/billbook/internal/http/payload"
	"github.com/MrJamesThe3rd/billbook/internal/ledger"
)

var errNoItems = errors.New("document has no items")

type itemInput struct {
	Description     string          `json:"description"`
	Quantity        *payload.Amount `json:"quantity"`
	UnitPrice       payload.Amount  `json:"unit_price"`
	DiscountPercent payload.Amount  `json:"discount_percent"`
	TaxRatePercent  *payload.Amount `json:"tax_rate_percent"`
}

type paymentInput struct {
	Amount    payload.Amount `json:"amount"`
	Method    ledger.Method  `json:"method"`
	Reference string         `json:"reference"`
	Date      payload.Date   `json:"date"`
}

type documentInput struct {
	Items    []itemInput    `json:"items"`
	Payments []paymentInput `json:"payments"`
}

// readDocument decodes path, or stdin when path is "-".
func readDocument(path string, stdin io.Reader) (*documentInput, error) {
	r := stdin

	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", path, err)
		}
		defer f.Close()

		r = f
	}

	var doc documentInput

	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}

	return &doc, nil
}

// lineItems applies defaults and validates every item.
func (d *documentInput) lineItems(defaultTaxRate decimal.Decimal) ([]ledger.LineItem, error) {
	if len(d.Items) == 0 {
		return nil, errNoItems
	}

	items := make([]ledger.LineItem, len(d.Items))

	for i, in := range d.Items {
		item := ledger.LineItem{
			Description:     in.Description,
			Quantity:        decimal.NewFromInt(1),
			UnitPrice:       in.UnitPrice.Decimal,
			DiscountPercent: in.DiscountPercent.Decimal,
			TaxRatePercent:  defaultTaxRate,
		}

		if q := in.Quantity.Ptr(); q != nil {
			item.Quantity = *q
		}

		if r := in.TaxRatePercent.Ptr(); r != nil {
			item.TaxRatePercent = *r
		}

		items[i] = item
	}

	if err := ledger.ValidateLineItems(items); err != nil {
		return nil, err
	}

	return items, nil
}

// account replays recorded payments so history that overpays the document is rejected.
func (d *documentInput) account(totals ledger.Totals) (ledger.Account, error) {
	account := ledger.NewAccount(totals, nil)

	for i, p := range d.Payments {
		_, err := account.RecordPayment(ledger.PaymentParams{
			Amount:    p.Amount.Decimal,
			Method:    p.Method,
			Reference: p.Reference,
			Date:      p.Date.Time,
		})
		if err != nil {
			return ledger.Account{}, fmt.Errorf("payment %d: %w", i, err)
		}
	}

	return account, nil
}
