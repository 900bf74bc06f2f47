// Package document manages quotations and invoices: their line items, lifecycle and payments.
package document

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/billbook/internal/ledger"
)

var (
	ErrNotFound    = errors.New("document not found")
	ErrInvalidKind = errors.New("invalid document kind")

	// ErrNotEditable is returned when a document that is no longer a draft is changed.
	ErrNotEditable = errors.New("document is not editable in its current status")

	// ErrNoItems is returned when a document would be left without line items.
	ErrNoItems = errors.New("document must have at least one line item")

	ErrNotInvoice   = errors.New("document is not an invoice")
	ErrNotQuotation = errors.New("document is not a quotation")
)

// Kind distinguishes quotations from invoices.
type Kind string

const (
	KindQuotation Kind = "quotation"
	KindInvoice   Kind = "invoice"
)

func (k Kind) Valid() bool {
	return k == KindQuotation || k == KindInvoice
}

// NumberPrefix is prepended to the sequence number of documents of this kind.
func (k Kind) NumberPrefix() string {
	if k == KindQuotation {
		return "QUO"
	}

	return "INV"
}

// Status is the lifecycle state of a document. Which statuses are reachable depends on the Kind.
type Status string

const (
	StatusDraft          Status = "draft"
	StatusSent           Status = "sent"
	StatusAccepted       Status = "accepted"
	StatusConverted      Status = "converted"
	StatusPartialPayment Status = "partial_payment"
	StatusPaid           Status = "paid"
)

// Document is a quotation or an invoice.
type Document struct {
	ID                 uuid.UUID
	Kind               Kind
	Number             string
	CustomerID         uuid.UUID
	Status             Status
	Items              []ledger.LineItem
	Payments           []ledger.Payment
	Totals             ledger.Totals
	IssueDate          time.Time
	DueDate            *time.Time
	Notes              string
	SourceQuotationID  *uuid.UUID
	ConvertedInvoiceID *uuid.UUID
	CreatedAt          time.Time
	UpdatedAt          *time.Time
	DeletedAt          *time.Time
}

// Recalculate derives Totals from Items. It must be called whenever Items change.
func (d *Document) Recalculate() {
	d.Totals = ledger.ComputeTotals(d.Items)
}

func (d *Document) Account() ledger.Account {
	return ledger.NewAccount(d.Totals, d.Payments)
}

func (d *Document) Reconcile() ledger.Reconciliation {
	return d.Account().Reconcile()
}

// Editable reports whether items, customer, dates and notes may still change.
// Documents are frozen once sent.
func (d *Document) Editable() bool {
	return d.Status == StatusDraft
}
