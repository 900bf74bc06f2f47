package expense

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/billbook/internal/expense"
	"github.com/MrJamesThe3rd/billbook/internal/http/payload"
	"github.com/MrJamesThe3rd/billbook/internal/http/respond"
	"github.com/MrJamesThe3rd/billbook/internal/ledger"
)

type Handler struct {
	svc *expense.Service
}

func NewHandler(svc *expense.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/summary", h.summary)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type createExpenseRequest struct {
	Amount      payload.Amount `json:"amount"`
	Description string         `json:"description"`
	Category    string         `json:"category"`
	Vendor      string         `json:"vendor"`
	Method      ledger.Method  `json:"method"`
	Reference   string         `json:"reference"`
	Date        payload.Date   `json:"date"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	e, err := h.svc.Create(r.Context(), expense.CreateParams{
		Amount:      req.Amount.Decimal,
		Description: req.Description,
		Category:    req.Category,
		Vendor:      req.Vendor,
		Method:      req.Method,
		Reference:   req.Reference,
		Date:        req.Date.Time,
	})
	if err != nil {
		respond.Err(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(e))
}

// parseFilter reads category, start_date and end_date from the query string.
func parseFilter(r *http.Request) (expense.ListFilter, error) {
	filter := expense.ListFilter{}
	query := r.URL.Query()

	if s := query.Get("category"); s != "" {
		filter.Category = &s
	}

	var err error

	if filter.StartDate, err = payload.ParseDate(query.Get("start_date")); err != nil {
		return filter, err
	}

	if filter.EndDate, err = payload.ParseDate(query.Get("end_date")); err != nil {
		return filter, err
	}

	return filter, nil
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	expenses, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respond.Err(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(expenses))
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := h.svc.Summary(r.Context(), filter)
	if err != nil {
		respond.Err(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toSummaryResponse(summary))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	e, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Err(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(e))
}

type updateExpenseRequest struct {
	Amount      *payload.Amount `json:"amount,omitempty"`
	Description *string         `json:"description,omitempty"`
	Category    *string         `json:"category,omitempty"`
	Vendor      *string         `json:"vendor,omitempty"`
	Method      *ledger.Method  `json:"method,omitempty"`
	Reference   *string         `json:"reference,omitempty"`
	Date        *payload.Date   `json:"date,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req updateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	e, err := h.svc.Update(r.Context(), id, expense.UpdateParams{
		Amount:      req.Amount.Ptr(),
		Description: req.Description,
		Category:    req.Category,
		Vendor:      req.Vendor,
		Method:      req.Method,
		Reference:   req.Reference,
		Date:        req.Date.Ptr(),
	})
	if err != nil {
		respond.Err(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(e))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		respond.Err(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
