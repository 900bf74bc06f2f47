// Package export renders computed document figures as CSV and plain text.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/billbook/internal/customer"
	"github.com/MrJamesThe3rd/billbook/internal/document"
	"github.com/MrJamesThe3rd/billbook/internal/ledger"
)

type DocumentLister interface {
	List(ctx context.Context, filter document.ListFilter) ([]*document.Document, error)
}

type CustomerLister interface {
	List(ctx context.Context, filter customer.ListFilter) ([]*customer.Customer, error)
}

// Row is one exported document. Amounts are already rounded to cents.
type Row struct {
	Document      *document.Document
	Customer      string
	Subtotal      decimal.Decimal
	TaxTotal      decimal.Decimal
	GrandTotal    decimal.Decimal
	AmountPaid    decimal.Decimal
	BalanceDue    decimal.Decimal
	PaymentStatus ledger.PaymentStatus
}

var header = []string{
	"number", "kind", "status", "customer", "issue_date",
	"subtotal", "tax_total", "grand_total", "amount_paid", "balance_due", "payment_status",
}

type Service struct {
	documents DocumentLister
	customers CustomerLister
}

func NewService(documents DocumentLister, customers CustomerLister) *Service {
	return &Service{documents: documents, customers: customers}
}

// Rows loads the documents matching filter together with their reconciled figures.
func (s *Service) Rows(ctx context.Context, filter document.ListFilter) ([]Row, error) {
	docs, err := s.documents.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	customers, err := s.customers.List(ctx, customer.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing customers: %w", err)
	}

	names := make(map[uuid.UUID]string, len(customers))
	for _, c := range customers {
		names[c.ID] = c.Name
	}

	rows := make([]Row, 0, len(docs))

	for _, doc := range docs {
		rec := doc.Reconcile()

		rows = append(rows, Row{
			Document:      doc,
			Customer:      names[doc.CustomerID],
			Subtotal:      ledger.Round(doc.Totals.Subtotal),
			TaxTotal:      ledger.Round(doc.Totals.TaxTotal),
			GrandTotal:    rec.AmountDue,
			AmountPaid:    ledger.Round(rec.AmountPaid),
			BalanceDue:    ledger.Round(rec.BalanceDue),
			PaymentStatus: rec.Status,
		})
	}

	return rows, nil
}

func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, r := range rows {
		record := []string{
			r.Document.Number,
			string(r.Document.Kind),
			string(r.Document.Status),
			r.Customer,
			r.Document.IssueDate.Format(time.DateOnly),
			ledger.Format(r.Subtotal),
			ledger.Format(r.TaxTotal),
			ledger.Format(r.GrandTotal),
			ledger.Format(r.AmountPaid),
			ledger.Format(r.BalanceDue),
			string(r.PaymentStatus),
		}

		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing %s: %w", r.Document.Number, err)
		}
	}

	cw.Flush()

	return cw.Error()
}

// Summary renders rows as a short plain-text listing followed by totals.
func Summary(rows []Row) string {
	var (
		sb          strings.Builder
		billed      decimal.Decimal
		outstanding decimal.Decimal
	)

	for _, r := range rows {
		name := r.Customer
		if name == "" {
			name = "-"
		}

		fmt.Fprintf(&sb, "* %s | %s | %s | %s | %s",
			r.Document.Number,
			r.Document.IssueDate.Format(time.DateOnly),
			name,
			ledger.Format(r.GrandTotal),
			r.Document.Status,
		)

		if r.Document.Kind == document.KindInvoice {
			fmt.Fprintf(&sb, " | %s, balance %s", r.PaymentStatus, ledger.Format(r.BalanceDue))

			billed = billed.Add(r.GrandTotal)
			outstanding = outstanding.Add(r.BalanceDue)
		}

		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "\nInvoiced: %s\nOutstanding: %s\n", ledger.Format(billed), ledger.Format(outstanding))

	return sb.String()
}

// ExportToDir writes documents.csv and summary.txt for filter into a dated folder under dir
// and returns the folder path.
func (s *Service) ExportToDir(ctx context.Context, filter document.ListFilter, dir string) (string, error) {
	rows, err := s.Rows(ctx, filter)
	if err != nil {
		return "", err
	}

	outDir := filepath.Join(dir, "billbook_"+time.Now().Format("20060102_150405"))
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	f, err := os.Create(filepath.Join(outDir, "documents.csv"))
	if err != nil {
		return "", fmt.Errorf("creating csv: %w", err)
	}
	defer f.Close()

	if err := WriteCSV(f, rows); err != nil {
		return "", err
	}

	if err := os.WriteFile(filepath.Join(outDir, "summary.txt"), []byte(Summary(rows)), 0o644); err != nil {
		return "", fmt.Errorf("writing summary: %w", err)
	}

	return outDir, nil
}
