package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/billbook/internal/document"
	"github.com/MrJamesThe3rd/billbook/internal/ledger"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// itemRecord is the JSONB shape of a line item.
type itemRecord struct {
	Description     string          `json:"description"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	TaxRatePercent  decimal.Decimal `json:"tax_rate_percent"`
	CommodityID     *uuid.UUID      `json:"commodity_id,omitempty"`
}

func encodeItems(items []ledger.LineItem) ([]byte, error) {
	records := make([]itemRecord, len(items))
	for i, item := range items {
		records[i] = itemRecord(item)
	}

	return json.Marshal(records)
}

func decodeItems(raw []byte) ([]ledger.LineItem, error) {
	var records []itemRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, err
	}

	items := make([]ledger.LineItem, len(records))
	for i, r := range records {
		items[i] = ledger.LineItem(r)
	}

	return items, nil
}

// scanDocument reads a document row. Payments are loaded separately.
// Totals are derived from the items again; the stored totals only serve reporting queries.
// Expected column order: see selectDocumentColumns.
func scanDocument(s scanner) (*document.Document, error) {
	var doc document.Document

	var kind, status string

	var items []byte

	if err := s.Scan(
		&doc.ID, &kind, &doc.Number, &doc.CustomerID, &status, &items,
		&doc.IssueDate, &doc.DueDate, &doc.Notes,
		&doc.SourceQuotationID, &doc.ConvertedInvoiceID,
		&doc.CreatedAt, &doc.UpdatedAt, &doc.DeletedAt,
	); err != nil {
		return nil, err
	}

	doc.Kind = document.Kind(kind)
	doc.Status = document.Status(status)

	decoded, err := decodeItems(items)
	if err != nil {
		return nil, fmt.Errorf("decoding items: %w", err)
	}

	doc.Items = decoded
	doc.Recalculate()

	return &doc, nil
}

const selectDocumentColumns = `
	d.id, d.kind, d.number, d.customer_id, d.status, d.items,
	d.issue_date, d.due_date, d.notes,
	d.source_quotation_id, d.converted_invoice_id,
	d.created_at, d.updated_at, d.deleted_at
`

func numberSequence(kind document.Kind) string {
	if kind == document.KindQuotation {
		return "quotation_number_seq"
	}

	return "invoice_number_seq"
}

func createDocument(ctx context.Context, q querier, doc *document.Document) error {
	items, err := encodeItems(doc.Items)
	if err != nil {
		return fmt.Errorf("encoding items: %w", err)
	}

	query := `
		INSERT INTO documents (
			kind, number, customer_id, status, items, subtotal, tax_total, grand_total,
			issue_date, due_date, notes, source_quotation_id, created_at, updated_at
		)
		VALUES (
			$1, $2 || '-' || lpad(nextval($3::text::regclass)::text, 5, '0'), $4, $5, $6, $7, $8, $9,
			$10, $11, $12, $13, NOW(), NOW()
		)
		RETURNING id, number, created_at, updated_at
	`

	err = q.QueryRowContext(ctx, query,
		doc.Kind,
		doc.Kind.NumberPrefix(),
		numberSequence(doc.Kind),
		doc.CustomerID,
		doc.Status,
		items,
		doc.Totals.Subtotal,
		doc.Totals.TaxTotal,
		doc.Totals.GrandTotal,
		doc.IssueDate,
		doc.DueDate,
		doc.Notes,
		doc.SourceQuotationID,
	).Scan(&doc.ID, &doc.Number, &doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating document: %w", err)
	}

	return nil
}

func updateDocument(ctx context.Context, q querier, doc *document.Document) error {
	items, err := encodeItems(doc.Items)
	if err != nil {
		return fmt.Errorf("encoding items: %w", err)
	}

	query := `
		UPDATE documents
		SET customer_id = $1, status = $2, items = $3, subtotal = $4, tax_total = $5, grand_total = $6,
			issue_date = $7, due_date = $8, notes = $9, converted_invoice_id = $10, updated_at = NOW()
		WHERE id = $11 AND deleted_at IS NULL
		RETURNING updated_at
	`

	err = q.QueryRowContext(ctx, query,
		doc.CustomerID,
		doc.Status,
		items,
		doc.Totals.Subtotal,
		doc.Totals.TaxTotal,
		doc.Totals.GrandTotal,
		doc.IssueDate,
		doc.DueDate,
		doc.Notes,
		doc.ConvertedInvoiceID,
		doc.ID,
	).Scan(&doc.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return document.ErrNotFound
		}

		return fmt.Errorf("updating document: %w", err)
	}

	return nil
}

func listPayments(ctx context.Context, q querier, ids []uuid.UUID) (map[uuid.UUID][]ledger.Payment, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = id.String()
	}

	query := `
		SELECT document_id, id, amount, method, reference, paid_on, created_at
		FROM document_payments
		WHERE document_id = ANY($1::uuid[])
		ORDER BY created_at ASC, id ASC`

	rows, err := q.QueryContext(ctx, query, keys)
	if err != nil {
		return nil, fmt.Errorf("listing payments: %w", err)
	}
	defer rows.Close()

	payments := make(map[uuid.UUID][]ledger.Payment, len(ids))

	for rows.Next() {
		var (
			documentID uuid.UUID
			p          ledger.Payment
			method     string
		)

		if err := rows.Scan(&documentID, &p.ID, &p.Amount, &method, &p.Reference, &p.Date, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning payment: %w", err)
		}

		p.Method = ledger.Method(method)
		payments[documentID] = append(payments[documentID], p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating payment rows: %w", err)
	}

	return payments, nil
}

func getDocument(ctx context.Context, q querier, id uuid.UUID, lock bool) (*document.Document, error) {
	query := `SELECT ` + selectDocumentColumns + `
		FROM documents d
		WHERE d.id = $1 AND d.deleted_at IS NULL`
	if lock {
		query += " FOR UPDATE"
	}

	doc, err := scanDocument(q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, document.ErrNotFound
		}

		return nil, fmt.Errorf("getting document: %w", err)
	}

	payments, err := listPayments(ctx, q, []uuid.UUID{doc.ID})
	if err != nil {
		return nil, err
	}

	doc.Payments = payments[doc.ID]

	return doc, nil
}

func (s *Store) CreateDocument(ctx context.Context, doc *document.Document) error {
	return createDocument(ctx, s.db, doc)
}

func (s *Store) GetDocument(ctx context.Context, id uuid.UUID) (*document.Document, error) {
	return getDocument(ctx, s.db, id, false)
}

func (s *Store) ListDocuments(ctx context.Context, filter document.ListFilter) ([]*document.Document, error) {
	query := `SELECT ` + selectDocumentColumns + `
		FROM documents d
		WHERE d.deleted_at IS NULL`

	var args []any

	argIdx := 1

	if filter.Kind != nil {
		query += fmt.Sprintf(" AND d.kind = $%d", argIdx)

		args = append(args, *filter.Kind)
		argIdx++
	}

	if filter.Status != nil {
		query += fmt.Sprintf(" AND d.status = $%d", argIdx)

		args = append(args, *filter.Status)
		argIdx++
	}

	if filter.CustomerID != nil {
		query += fmt.Sprintf(" AND d.customer_id = $%d", argIdx)

		args = append(args, *filter.CustomerID)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND d.issue_date >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND d.issue_date <= $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	query += " ORDER BY d.issue_date ASC, d.number ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var (
		docs []*document.Document
		ids  []uuid.UUID
	)

	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}

		docs = append(docs, doc)
		ids = append(ids, doc.ID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating document rows: %w", err)
	}

	payments, err := listPayments(ctx, s.db, ids)
	if err != nil {
		return nil, err
	}

	for _, doc := range docs {
		doc.Payments = payments[doc.ID]
	}

	return docs, nil
}

func (s *Store) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE documents
		SET deleted_at = NOW()
		WHERE id = $1
	`

	_, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}

	return nil
}

type documentTx struct {
	tx *sql.Tx
}

func (s *Store) BeginTx(ctx context.Context) (document.DocumentTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning document tx: %w", err)
	}

	return &documentTx{tx: dbTx}, nil
}

func (dtx *documentTx) Commit() error   { return dtx.tx.Commit() }
func (dtx *documentTx) Rollback() error { return dtx.tx.Rollback() }

func (dtx *documentTx) LockDocument(ctx context.Context, id uuid.UUID) (*document.Document, error) {
	return getDocument(ctx, dtx.tx, id, true)
}

func (dtx *documentTx) CreateDocument(ctx context.Context, doc *document.Document) error {
	return createDocument(ctx, dtx.tx, doc)
}

func (dtx *documentTx) UpdateDocument(ctx context.Context, doc *document.Document) error {
	return updateDocument(ctx, dtx.tx, doc)
}

func (dtx *documentTx) AddPayment(ctx context.Context, documentID uuid.UUID, p *ledger.Payment) error {
	query := `
		INSERT INTO document_payments (document_id, amount, method, reference, paid_on, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, created_at
	`

	err := dtx.tx.QueryRowContext(ctx, query,
		documentID,
		p.Amount,
		p.Method,
		p.Reference,
		p.Date.Format(time.DateOnly),
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating payment: %w", err)
	}

	return nil
}
