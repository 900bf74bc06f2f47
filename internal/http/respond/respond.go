// Package respond writes JSON responses and maps domain errors to HTTP statuses.
package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/MrJamesThe3rd/billbook/internal/commodity"
	"github.com/MrJamesThe3rd/billbook/internal/customer"
	"github.com/MrJamesThe3rd/billbook/internal/document"
	"github.com/MrJamesThe3rd/billbook/internal/expense"
	"github.com/MrJamesThe3rd/billbook/internal/importer"
	"github.com/MrJamesThe3rd/billbook/internal/importer/cgd"
	"github.com/MrJamesThe3rd/billbook/internal/ledger"
	"github.com/MrJamesThe3rd/billbook/internal/matching"
)

type ErrorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Status     string        `json:"status"`
	Code       string        `json:"code,omitempty"`
	Message    string        `json:"message"`
	BalanceDue string        `json:"balance_due,omitempty"`
	Details    []ErrorDetail `json:"details,omitempty"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func Error(w http.ResponseWriter, status int, message string, details ...ErrorDetail) {
	JSON(w, status, ErrorResponse{
		Status:  http.StatusText(status),
		Message: message,
		Details: details,
	})
}

var (
	notFound = []error{
		document.ErrNotFound,
		customer.ErrNotFound,
		commodity.ErrNotFound,
		expense.ErrNotFound,
	}

	conflict = []error{
		document.ErrInvalidTransition,
		document.ErrNotEditable,
	}

	badRequest = []error{
		ledger.ErrInvalidNumber,
		ledger.ErrInvalidMethod,
		document.ErrInvalidKind,
		document.ErrNoItems,
		document.ErrNotInvoice,
		document.ErrNotQuotation,
		document.ErrUnsupportedAction,
		customer.ErrNameRequired,
		commodity.ErrNameRequired,
		commodity.ErrInvalidPrice,
		expense.ErrInvalidAmount,
		importer.ErrUnknownBank,
		cgd.ErrUnknownFormat,
		matching.ErrInvalidMapping,
	}
)

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}

// Err writes err with the status its kind maps to. Unknown errors are logged and reported as 500.
func Err(w http.ResponseWriter, r *http.Request, err error) {
	var (
		paymentErr  *ledger.PaymentError
		lineItemErr *ledger.LineItemError
	)

	switch {
	case errors.As(err, &paymentErr):
		resp := ErrorResponse{
			Status:     http.StatusText(http.StatusUnprocessableEntity),
			Code:       paymentCode(paymentErr),
			Message:    err.Error(),
			BalanceDue: ledger.Format(paymentErr.Balance),
		}
		JSON(w, http.StatusUnprocessableEntity, resp)
	case errors.As(err, &lineItemErr):
		field := lineItemErr.Field
		if lineItemErr.Index >= 0 {
			field = fmt.Sprintf("items[%d].%s", lineItemErr.Index, lineItemErr.Field)
		}

		Error(w, http.StatusBadRequest, ledger.ErrInvalidLineItem.Error(), ErrorDetail{
			Field:   field,
			Message: fmt.Sprintf("out of range (value: %s)", lineItemErr.Value),
		})
	case isAny(err, notFound):
		Error(w, http.StatusNotFound, err.Error())
	case isAny(err, conflict):
		Error(w, http.StatusConflict, err.Error())
	case isAny(err, badRequest):
		Error(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		Error(w, http.StatusInternalServerError, "internal error")
	}
}

func paymentCode(err *ledger.PaymentError) string {
	if errors.Is(err, ledger.ErrExceedsBalance) {
		return "exceeds_balance"
	}

	return "invalid_amount"
}
