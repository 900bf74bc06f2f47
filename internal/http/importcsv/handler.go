package importcsv

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/billbook/internal/expense"
	"github.com/MrJamesThe3rd/billbook/internal/http/payload"
	"github.com/MrJamesThe3rd/billbook/internal/http/respond"
	"github.com/MrJamesThe3rd/billbook/internal/importer"
	"github.com/MrJamesThe3rd/billbook/internal/ledger"
	"github.com/MrJamesThe3rd/billbook/internal/matching"
)

type Handler struct {
	importSvc  *importer.Service
	expenseSvc *expense.Service
	matchSvc   *matching.Service
}

func NewHandler(importSvc *importer.Service, expenseSvc *expense.Service, matchSvc *matching.Service) *Handler {
	return &Handler{
		importSvc:  importSvc,
		expenseSvc: expenseSvc,
		matchSvc:   matchSvc,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/banks", h.banks)
	r.Post("/", h.importCSV)
	r.Post("/confirm", h.confirmImport)
}

type expenseResponse struct {
	ID             uuid.UUID     `json:"id"`
	Amount         string        `json:"amount"`
	Description    string        `json:"description"`
	RawDescription string        `json:"raw_description,omitempty"`
	Category       string        `json:"category"`
	Method         ledger.Method `json:"method"`
	Date           payload.Date  `json:"date"`
	CreatedAt      time.Time     `json:"created_at"`
}

type importSuccessResponse struct {
	Imported int               `json:"imported"`
	Expenses []expenseResponse `json:"expenses"`
}

type createParamsDTO struct {
	Amount         payload.Amount `json:"amount"`
	Description    string         `json:"description"`
	RawDescription string         `json:"raw_description"`
	Category       string         `json:"category"`
	Vendor         string         `json:"vendor,omitempty"`
	Method         ledger.Method  `json:"method"`
	Reference      string         `json:"reference,omitempty"`
	Date           payload.Date   `json:"date"`
}

type conflictDTO struct {
	Incoming createParamsDTO `json:"incoming"`
	Existing expenseResponse `json:"existing"`
}

type importConflictResponse struct {
	New       []createParamsDTO `json:"new"`
	Conflicts []conflictDTO     `json:"conflicts"`
}

type confirmRequest struct {
	Params []createParamsDTO `json:"params"`
}

func (h *Handler) banks(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, h.importSvc.Banks())
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		respond.Error(w, http.StatusBadRequest, "failed to parse form: "+err.Error())
		return
	}

	bank := importer.Bank(r.FormValue("bank"))
	if bank == "" {
		respond.Error(w, http.StatusBadRequest, "bank field is required")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	params, err := h.importSvc.Import(bank, file)
	if err != nil {
		respond.Err(w, r, err)
		return
	}

	if err := h.matchSvc.Apply(r.Context(), params); err != nil {
		respond.Err(w, r, err)
		return
	}

	result, err := h.expenseSvc.ImportBatch(r.Context(), params)
	if err != nil {
		respond.Err(w, r, err)
		return
	}

	if len(result.Conflicts) > 0 {
		resp := importConflictResponse{
			New:       make([]createParamsDTO, 0, len(result.New)),
			Conflicts: make([]conflictDTO, 0, len(result.Conflicts)),
		}
		for _, p := range result.New {
			resp.New = append(resp.New, toParamsDTO(p))
		}

		for _, c := range result.Conflicts {
			resp.Conflicts = append(resp.Conflicts, conflictDTO{
				Incoming: toParamsDTO(c.Incoming),
				Existing: toExpenseResponse(c.Existing),
			})
		}

		respond.JSON(w, http.StatusConflict, resp)

		return
	}

	respond.JSON(w, http.StatusCreated, toSuccessResponse(result.Imported))
}

func (h *Handler) confirmImport(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	params := make([]expense.CreateParams, 0, len(req.Params))
	for _, p := range req.Params {
		params = append(params, expense.CreateParams{
			Amount:         p.Amount.Decimal,
			Description:    p.Description,
			RawDescription: p.RawDescription,
			Category:       p.Category,
			Vendor:         p.Vendor,
			Method:         p.Method,
			Reference:      p.Reference,
			Date:           p.Date.Time,
		})
	}

	expenses, err := h.expenseSvc.CreateBatch(r.Context(), params)
	if err != nil {
		respond.Err(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toSuccessResponse(expenses))
}

func toSuccessResponse(expenses []*expense.Expense) importSuccessResponse {
	responses := make([]expenseResponse, 0, len(expenses))
	for _, e := range expenses {
		responses = append(responses, toExpenseResponse(e))
	}

	return importSuccessResponse{
		Imported: len(expenses),
		Expenses: responses,
	}
}

func toExpenseResponse(e *expense.Expense) expenseResponse {
	return expenseResponse{
		ID:             e.ID,
		Amount:         ledger.Format(e.Amount),
		Description:    e.Description,
		RawDescription: e.RawDescription,
		Category:       e.Category,
		Method:         e.Method,
		Date:           payload.Date{Time: e.Date},
		CreatedAt:      e.CreatedAt,
	}
}

func toParamsDTO(p expense.CreateParams) createParamsDTO {
	return createParamsDTO{
		Amount:         payload.Amount{Decimal: p.Amount},
		Description:    p.Description,
		RawDescription: p.RawDescription,
		Category:       p.Category,
		Vendor:         p.Vendor,
		Method:         p.Method,
		Reference:      p.Reference,
		Date:           payload.Date{Time: p.Date},
	}
}
