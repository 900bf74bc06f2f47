package document

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/billbook/internal/document"
	"github.com/MrJamesThe3rd/billbook/internal/http/payload"
	"github.com/MrJamesThe3rd/billbook/internal/ledger"
)

type itemResponse struct {
	Description     string     `json:"description"`
	Quantity        string     `json:"quantity"`
	UnitPrice       string     `json:"unit_price"`
	DiscountPercent string     `json:"discount_percent"`
	TaxRatePercent  string     `json:"tax_rate_percent"`
	CommodityID     *uuid.UUID `json:"commodity_id,omitempty"`
	TaxableAmount   string     `json:"taxable_amount"`
	TaxAmount       string     `json:"tax_amount"`
	Total           string     `json:"total"`
}

type paymentResponse struct {
	ID        uuid.UUID     `json:"id"`
	Amount    string        `json:"amount"`
	Method    ledger.Method `json:"method"`
	Reference string        `json:"reference,omitempty"`
	Date      payload.Date  `json:"date"`
	CreatedAt time.Time     `json:"created_at"`
}

type documentResponse struct {
	ID                 uuid.UUID            `json:"id"`
	Kind               document.Kind        `json:"kind"`
	Number             string               `json:"number"`
	CustomerID         uuid.UUID            `json:"customer_id"`
	Status             document.Status      `json:"status"`
	Items              []itemResponse       `json:"items"`
	Subtotal           string               `json:"subtotal"`
	TaxTotal           string               `json:"tax_total"`
	GrandTotal         string               `json:"grand_total"`
	AmountPaid         string               `json:"amount_paid"`
	BalanceDue         string               `json:"balance_due"`
	PaymentStatus      ledger.PaymentStatus `json:"payment_status"`
	IssueDate          payload.Date         `json:"issue_date"`
	DueDate            *payload.Date        `json:"due_date,omitempty"`
	Notes              string               `json:"notes,omitempty"`
	SourceQuotationID  *uuid.UUID           `json:"source_quotation_id,omitempty"`
	ConvertedInvoiceID *uuid.UUID           `json:"converted_invoice_id,omitempty"`
	CreatedAt          time.Time            `json:"created_at"`
	UpdatedAt          *time.Time           `json:"updated_at,omitempty"`
}

type paymentResultResponse struct {
	Payment       paymentResponse      `json:"payment"`
	Status        document.Status      `json:"status"`
	AmountDue     string               `json:"amount_due"`
	AmountPaid    string               `json:"amount_paid"`
	BalanceDue    string               `json:"balance_due"`
	PaymentStatus ledger.PaymentStatus `json:"payment_status"`
}

type paymentListResponse struct {
	Payments      []paymentResponse    `json:"payments"`
	AmountDue     string               `json:"amount_due"`
	AmountPaid    string               `json:"amount_paid"`
	BalanceDue    string               `json:"balance_due"`
	PaymentStatus ledger.PaymentStatus `json:"payment_status"`
}

func toItemResponse(item ledger.LineItem) itemResponse {
	return itemResponse{
		Description:     item.Description,
		Quantity:        item.Quantity.String(),
		UnitPrice:       ledger.Format(item.UnitPrice),
		DiscountPercent: item.DiscountPercent.String(),
		TaxRatePercent:  item.TaxRatePercent.String(),
		CommodityID:     item.CommodityID,
		TaxableAmount:   ledger.Format(item.TaxableAmount()),
		TaxAmount:       ledger.Format(item.TaxAmount()),
		Total:           ledger.Format(item.Total()),
	}
}

func toPaymentResponse(p ledger.Payment) paymentResponse {
	return paymentResponse{
		ID:        p.ID,
		Amount:    ledger.Format(p.Amount),
		Method:    p.Method,
		Reference: p.Reference,
		Date:      payload.Date{Time: p.Date},
		CreatedAt: p.CreatedAt,
	}
}

func toResponse(doc *document.Document) documentResponse {
	rec := doc.Reconcile()

	resp := documentResponse{
		ID:                 doc.ID,
		Kind:               doc.Kind,
		Number:             doc.Number,
		CustomerID:         doc.CustomerID,
		Status:             doc.Status,
		Items:              make([]itemResponse, len(doc.Items)),
		Subtotal:           ledger.Format(doc.Totals.Subtotal),
		TaxTotal:           ledger.Format(doc.Totals.TaxTotal),
		GrandTotal:         ledger.Format(doc.Totals.GrandTotal),
		AmountPaid:         ledger.Format(rec.AmountPaid),
		BalanceDue:         ledger.Format(rec.BalanceDue),
		PaymentStatus:      rec.Status,
		IssueDate:          payload.Date{Time: doc.IssueDate},
		Notes:              doc.Notes,
		SourceQuotationID:  doc.SourceQuotationID,
		ConvertedInvoiceID: doc.ConvertedInvoiceID,
		CreatedAt:          doc.CreatedAt,
		UpdatedAt:          doc.UpdatedAt,
	}

	for i, item := range doc.Items {
		resp.Items[i] = toItemResponse(item)
	}

	if doc.DueDate != nil {
		resp.DueDate = &payload.Date{Time: *doc.DueDate}
	}

	return resp
}

func toResponseList(docs []*document.Document) []documentResponse {
	resp := make([]documentResponse, len(docs))
	for i, doc := range docs {
		resp[i] = toResponse(doc)
	}

	return resp
}

func toPaymentList(doc *document.Document) paymentListResponse {
	rec := doc.Reconcile()

	resp := paymentListResponse{
		Payments:      make([]paymentResponse, len(doc.Payments)),
		AmountDue:     ledger.Format(rec.AmountDue),
		AmountPaid:    ledger.Format(rec.AmountPaid),
		BalanceDue:    ledger.Format(rec.BalanceDue),
		PaymentStatus: rec.Status,
	}

	for i, p := range doc.Payments {
		resp.Payments[i] = toPaymentResponse(p)
	}

	return resp
}

func toPaymentResult(res *document.PaymentResult) paymentResultResponse {
	return paymentResultResponse{
		Payment:       toPaymentResponse(res.Payment),
		Status:        res.Document.Status,
		AmountDue:     ledger.Format(res.Reconciliation.AmountDue),
		AmountPaid:    ledger.Format(res.Reconciliation.AmountPaid),
		BalanceDue:    ledger.Format(res.Reconciliation.BalanceDue),
		PaymentStatus: res.Reconciliation.Status,
	}
}
