package document

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/billbook/internal/ledger"
)

var ErrUnsupportedAction = errors.New("action has its own operation")

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=document
type Repository interface {
	CreateDocument(ctx context.Context, doc *Document) error
	GetDocument(ctx context.Context, id uuid.UUID) (*Document, error)
	ListDocuments(ctx context.Context, filter ListFilter) ([]*Document, error)
	DeleteDocument(ctx context.Context, id uuid.UUID) error

	BeginTx(ctx context.Context) (DocumentTx, error)
}

// DocumentTx is a database transaction in which locked documents can be read and written.
type DocumentTx interface {
	// LockDocument loads a document with its payments and holds a row lock until Commit or Rollback.
	LockDocument(ctx context.Context, id uuid.UUID) (*Document, error)
	CreateDocument(ctx context.Context, doc *Document) error
	UpdateDocument(ctx context.Context, doc *Document) error
	AddPayment(ctx context.Context, documentID uuid.UUID, payment *ledger.Payment) error
	Commit() error
	Rollback() error
}

// Catalog supplies line item defaults for items priced from a commodity.
type Catalog interface {
	ItemDefaults(ctx context.Context, commodityID uuid.UUID) (ItemDefaults, error)
}

type ItemDefaults struct {
	Description    string
	UnitPrice      decimal.Decimal
	TaxRatePercent decimal.Decimal
}

type Service struct {
	repo           Repository
	catalog        Catalog
	defaultTaxRate decimal.Decimal
}

func NewService(repo Repository, catalog Catalog, defaultTaxRate decimal.Decimal) *Service {
	return &Service{repo: repo, catalog: catalog, defaultTaxRate: defaultTaxRate}
}

// ItemParams describes a line item as entered. Nil fields are filled from the
// commodity when CommodityID is set, otherwise from defaults.
type ItemParams struct {
	CommodityID     *uuid.UUID
	Description     *string
	Quantity        decimal.Decimal
	UnitPrice       *decimal.Decimal
	DiscountPercent decimal.Decimal
	TaxRatePercent  *decimal.Decimal
}

type CreateParams struct {
	Kind       Kind
	CustomerID uuid.UUID
	Items      []ItemParams
	IssueDate  time.Time
	DueDate    *time.Time
	Notes      string
}

// UpdateParams carries the fields to change. A nil Items leaves the items untouched.
type UpdateParams struct {
	CustomerID *uuid.UUID
	Items      []ItemParams
	IssueDate  *time.Time
	DueDate    *time.Time
	Notes      *string
}

type ListFilter struct {
	Kind       *Kind
	Status     *Status
	CustomerID *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Document, error) {
	if !params.Kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKind, params.Kind)
	}

	items, err := s.resolveItems(ctx, params.Items)
	if err != nil {
		return nil, err
	}

	issueDate := params.IssueDate
	if issueDate.IsZero() {
		issueDate = today()
	}

	doc := &Document{
		Kind:       params.Kind,
		CustomerID: params.CustomerID,
		Status:     StatusDraft,
		Items:      items,
		IssueDate:  issueDate,
		DueDate:    params.DueDate,
		Notes:      params.Notes,
	}
	doc.Recalculate()

	if err := s.repo.CreateDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}

	return doc, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Document, error) {
	return s.repo.GetDocument(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Document, error) {
	return s.repo.ListDocuments(ctx, filter)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteDocument(ctx, id)
}

// Update changes a draft. The row stays locked from the editability check until the write commits.
func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*Document, error) {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin update: %w", err)
	}
	defer tx.Rollback()

	doc, err := tx.LockDocument(ctx, id)
	if err != nil {
		return nil, err
	}

	if !doc.Editable() {
		return nil, fmt.Errorf("%w: %s is %s", ErrNotEditable, doc.Number, doc.Status)
	}

	if params.Items != nil {
		items, err := s.resolveItems(ctx, params.Items)
		if err != nil {
			return nil, err
		}

		doc.Items = items
		doc.Recalculate()
	}

	if params.CustomerID != nil {
		doc.CustomerID = *params.CustomerID
	}

	if params.IssueDate != nil {
		doc.IssueDate = *params.IssueDate
	}

	if params.DueDate != nil {
		doc.DueDate = params.DueDate
	}

	if params.Notes != nil {
		doc.Notes = *params.Notes
	}

	if err := tx.UpdateDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("update document: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update: %w", err)
	}

	return doc, nil
}

// Apply runs a status-only action (send, accept) on a locked document and persists the new status.
func (s *Service) Apply(ctx context.Context, id uuid.UUID, action Action) (*Document, error) {
	if action != ActionSend && action != ActionAccept {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedAction, action)
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin %s: %w", action, err)
	}
	defer tx.Rollback()

	doc, err := tx.LockDocument(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := Transition(doc, action); err != nil {
		return nil, err
	}

	if err := tx.UpdateDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit %s: %w", action, err)
	}

	return doc, nil
}

type PaymentResult struct {
	Document       *Document
	Payment        ledger.Payment
	Reconciliation ledger.Reconciliation
}

// RecordPayment records a payment against an invoice. The invoice row stays locked
// from the balance check until the payment is committed.
func (s *Service) RecordPayment(ctx context.Context, id uuid.UUID, params ledger.PaymentParams) (*PaymentResult, error) {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin payment: %w", err)
	}
	defer tx.Rollback()

	doc, err := tx.LockDocument(ctx, id)
	if err != nil {
		return nil, err
	}

	if doc.Kind != KindInvoice {
		return nil, ErrNotInvoice
	}

	if err := CanApply(doc, ActionRecordPayment); err != nil {
		return nil, err
	}

	if params.Date.IsZero() {
		params.Date = today()
	}

	account := doc.Account()

	payment, err := account.RecordPayment(params)
	if err != nil {
		return nil, err
	}

	if err := tx.AddPayment(ctx, doc.ID, &payment); err != nil {
		return nil, fmt.Errorf("add payment: %w", err)
	}

	account.Payments[len(account.Payments)-1] = payment
	doc.Payments = account.Payments

	if err := Transition(doc, ActionRecordPayment); err != nil {
		return nil, err
	}

	if err := tx.UpdateDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("update document: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit payment: %w", err)
	}

	return &PaymentResult{
		Document:       doc,
		Payment:        payment,
		Reconciliation: doc.Reconcile(),
	}, nil
}

// Convert turns an accepted quotation into a new draft invoice with the same customer and items.
func (s *Service) Convert(ctx context.Context, quotationID uuid.UUID) (*Document, error) {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin conversion: %w", err)
	}
	defer tx.Rollback()

	quotation, err := tx.LockDocument(ctx, quotationID)
	if err != nil {
		return nil, err
	}

	if quotation.Kind != KindQuotation {
		return nil, ErrNotQuotation
	}

	if err := Transition(quotation, ActionConvert); err != nil {
		return nil, err
	}

	invoice := &Document{
		Kind:              KindInvoice,
		CustomerID:        quotation.CustomerID,
		Status:            StatusDraft,
		Items:             slices.Clone(quotation.Items),
		IssueDate:         today(),
		Notes:             quotation.Notes,
		SourceQuotationID: &quotation.ID,
	}
	invoice.Recalculate()

	if err := tx.CreateDocument(ctx, invoice); err != nil {
		return nil, fmt.Errorf("create invoice: %w", err)
	}

	quotation.ConvertedInvoiceID = &invoice.ID

	if err := tx.UpdateDocument(ctx, quotation); err != nil {
		return nil, fmt.Errorf("update quotation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit conversion: %w", err)
	}

	return invoice, nil
}

func (s *Service) resolveItems(ctx context.Context, params []ItemParams) ([]ledger.LineItem, error) {
	if len(params) == 0 {
		return nil, ErrNoItems
	}

	items := make([]ledger.LineItem, len(params))

	for i, p := range params {
		item := ledger.LineItem{
			Quantity:        p.Quantity,
			DiscountPercent: p.DiscountPercent,
			TaxRatePercent:  s.defaultTaxRate,
			CommodityID:     p.CommodityID,
		}

		if p.CommodityID != nil && s.catalog != nil {
			defaults, err := s.catalog.ItemDefaults(ctx, *p.CommodityID)
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}

			item.Description = defaults.Description
			item.UnitPrice = defaults.UnitPrice
			item.TaxRatePercent = defaults.TaxRatePercent
		}

		if p.Description != nil {
			item.Description = *p.Description
		}

		if p.UnitPrice != nil {
			item.UnitPrice = *p.UnitPrice
		}

		if p.TaxRatePercent != nil {
			item.TaxRatePercent = *p.TaxRatePercent
		}

		items[i] = item
	}

	if err := ledger.ValidateLineItems(items); err != nil {
		return nil, err
	}

	return items, nil
}

func today() time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour)
}
