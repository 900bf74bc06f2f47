package document

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/billbook/internal/document"
	"github.com/MrJamesThe3rd/billbook/internal/http/payload"
	"github.com/MrJamesThe3rd/billbook/internal/http/respond"
	"github.com/MrJamesThe3rd/billbook/internal/ledger"
)

// Handler serves one kind of document: quotations or invoices.
type Handler struct {
	svc  *document.Service
	kind document.Kind
}

func NewHandler(svc *document.Service, kind document.Kind) *Handler {
	return &Handler{svc: svc, kind: kind}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Post("/{id}/send", h.action(document.ActionSend))

	switch h.kind {
	case document.KindQuotation:
		r.Post("/{id}/accept", h.action(document.ActionAccept))
		r.Post("/{id}/convert", h.convert)
	case document.KindInvoice:
		r.Get("/{id}/payments", h.listPayments)
		r.Post("/{id}/payments", h.recordPayment)
	}
}

type itemRequest struct {
	CommodityID     *uuid.UUID      `json:"commodity_id,omitempty"`
	Description     *string         `json:"description,omitempty"`
	Quantity        *payload.Amount `json:"quantity,omitempty"`
	UnitPrice       *payload.Amount `json:"unit_price,omitempty"`
	DiscountPercent payload.Amount  `json:"discount_percent"`
	TaxRatePercent  *payload.Amount `json:"tax_rate_percent,omitempty"`
}

// toItemParams keeps nil and empty distinct: nil leaves items unchanged on update.
func toItemParams(items []itemRequest) []document.ItemParams {
	if items == nil {
		return nil
	}

	params := make([]document.ItemParams, len(items))

	for i, item := range items {
		quantity := decimal.NewFromInt(1)
		if item.Quantity != nil {
			quantity = item.Quantity.Decimal
		}

		params[i] = document.ItemParams{
			CommodityID:     item.CommodityID,
			Description:     item.Description,
			Quantity:        quantity,
			UnitPrice:       item.UnitPrice.Ptr(),
			DiscountPercent: item.DiscountPercent.Decimal,
			TaxRatePercent:  item.TaxRatePercent.Ptr(),
		}
	}

	return params
}

type createDocumentRequest struct {
	CustomerID uuid.UUID     `json:"customer_id"`
	Items      []itemRequest `json:"items"`
	IssueDate  payload.Date  `json:"issue_date"`
	DueDate    *payload.Date `json:"due_date,omitempty"`
	Notes      string        `json:"notes"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.CustomerID == uuid.Nil {
		respond.Error(w, http.StatusBadRequest, "customer_id is required", respond.ErrorDetail{Field: "customer_id", Message: "required"})
		return
	}

	doc, err := h.svc.Create(r.Context(), document.CreateParams{
		Kind:       h.kind,
		CustomerID: req.CustomerID,
		Items:      toItemParams(req.Items),
		IssueDate:  req.IssueDate.Time,
		DueDate:    req.DueDate.Ptr(),
		Notes:      req.Notes,
	})
	if err != nil {
		respond.Err(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(doc))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := document.ListFilter{Kind: new(h.kind)}
	query := r.URL.Query()

	if s := query.Get("status"); s != "" {
		filter.Status = new(document.Status(s))
	}

	if s := query.Get("customer_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid customer_id")
			return
		}

		filter.CustomerID = &id
	}

	var err error

	if filter.StartDate, err = payload.ParseDate(query.Get("start_date")); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	if filter.EndDate, err = payload.ParseDate(query.Get("end_date")); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	docs, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respond.Err(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(docs))
}

// find loads the document named in the URL and checks it is of the handler's kind.
// It writes the error response itself and reports whether the caller may continue.
func (h *Handler) find(w http.ResponseWriter, r *http.Request) (*document.Document, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid id")
		return nil, false
	}

	doc, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Err(w, r, err)
		return nil, false
	}

	if doc.Kind != h.kind {
		respond.Error(w, http.StatusNotFound, string(h.kind)+" not found")
		return nil, false
	}

	return doc, true
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.find(w, r)
	if !ok {
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(doc))
}

type updateDocumentRequest struct {
	CustomerID *uuid.UUID    `json:"customer_id,omitempty"`
	Items      []itemRequest `json:"items,omitempty"`
	IssueDate  *payload.Date `json:"issue_date,omitempty"`
	DueDate    *payload.Date `json:"due_date,omitempty"`
	Notes      *string       `json:"notes,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.find(w, r)
	if !ok {
		return
	}

	var req updateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.svc.Update(r.Context(), doc.ID, document.UpdateParams{
		CustomerID: req.CustomerID,
		Items:      toItemParams(req.Items),
		IssueDate:  req.IssueDate.Ptr(),
		DueDate:    req.DueDate.Ptr(),
		Notes:      req.Notes,
	})
	if err != nil {
		respond.Err(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(updated))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.find(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), doc.ID); err != nil {
		respond.Err(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) action(action document.Action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, ok := h.find(w, r)
		if !ok {
			return
		}

		updated, err := h.svc.Apply(r.Context(), doc.ID, action)
		if err != nil {
			respond.Err(w, r, err)
			return
		}

		respond.JSON(w, http.StatusOK, toResponse(updated))
	}
}

func (h *Handler) convert(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.find(w, r)
	if !ok {
		return
	}

	invoice, err := h.svc.Convert(r.Context(), doc.ID)
	if err != nil {
		respond.Err(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(invoice))
}

func (h *Handler) listPayments(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.find(w, r)
	if !ok {
		return
	}

	respond.JSON(w, http.StatusOK, toPaymentList(doc))
}

type recordPaymentRequest struct {
	Amount    payload.Amount `json:"amount"`
	Method    ledger.Method  `json:"method"`
	Reference string         `json:"reference"`
	Date      payload.Date   `json:"date"`
}

func (h *Handler) recordPayment(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.find(w, r)
	if !ok {
		return
	}

	var req recordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.svc.RecordPayment(r.Context(), doc.ID, ledger.PaymentParams{
		Amount:    req.Amount.Decimal,
		Method:    req.Method,
		Reference: req.Reference,
		Date:      req.Date.Time,
	})
	if err != nil {
		respond.Err(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toPaymentResult(res))
}
