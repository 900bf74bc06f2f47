package expense

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/billbook/internal/expense"
	"github.com/MrJamesThe3rd/billbook/internal/http/payload"
	"github.com/MrJamesThe3rd/billbook/internal/ledger"
)

type expenseResponse struct {
	ID             uuid.UUID     `json:"id"`
	Amount         string        `json:"amount"`
	Description    string        `json:"description"`
	RawDescription string        `json:"raw_description,omitempty"`
	Category       string        `json:"category"`
	Vendor         string        `json:"vendor,omitempty"`
	Method         ledger.Method `json:"method"`
	Reference      string        `json:"reference,omitempty"`
	Date           payload.Date  `json:"date"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      *time.Time    `json:"updated_at,omitempty"`
}

type categoryTotalResponse struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
	Total    string `json:"total"`
}

type summaryResponse struct {
	Categories []categoryTotalResponse `json:"categories"`
	Count      int                     `json:"count"`
	Total      string                  `json:"total"`
}

func toResponse(e *expense.Expense) expenseResponse {
	return expenseResponse{
		ID:             e.ID,
		Amount:         ledger.Format(e.Amount),
		Description:    e.Description,
		RawDescription: e.RawDescription,
		Category:       e.Category,
		Vendor:         e.Vendor,
		Method:         e.Method,
		Reference:      e.Reference,
		Date:           payload.Date{Time: e.Date},
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

func toResponseList(expenses []*expense.Expense) []expenseResponse {
	resp := make([]expenseResponse, len(expenses))
	for i, e := range expenses {
		resp[i] = toResponse(e)
	}

	return resp
}

func toSummaryResponse(s *expense.Summary) summaryResponse {
	resp := summaryResponse{
		Categories: make([]categoryTotalResponse, len(s.Categories)),
		Count:      s.Count,
		Total:      ledger.Format(s.Total),
	}

	for i, ct := range s.Categories {
		resp.Categories[i] = categoryTotalResponse{
			Category: ct.Category,
			Count:    ct.Count,
			Total:    ledger.Format(ct.Total),
		}
	}

	return resp
}
