package export

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/billbook/internal/document"
	"github.com/MrJamesThe3rd/billbook/internal/export"
	"github.com/MrJamesThe3rd/billbook/internal/http/payload"
	"github.com/MrJamesThe3rd/billbook/internal/http/respond"
	"github.com/MrJamesThe3rd/billbook/internal/ledger"
)

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/documents.csv", h.csv)
	r.Post("/", h.metadata)
	r.Post("/download", h.download)
}

type exportRequest struct {
	Kind      *document.Kind `json:"kind,omitempty"`
	StartDate *payload.Date  `json:"start_date,omitempty"`
	EndDate   *payload.Date  `json:"end_date,omitempty"`
}

func (req exportRequest) filter() document.ListFilter {
	return document.ListFilter{
		Kind:      req.Kind,
		StartDate: req.StartDate.Ptr(),
		EndDate:   req.EndDate.Ptr(),
	}
}

type rowResponse struct {
	Number        string               `json:"number"`
	Kind          document.Kind        `json:"kind"`
	Status        document.Status      `json:"status"`
	Customer      string               `json:"customer"`
	IssueDate     payload.Date         `json:"issue_date"`
	GrandTotal    string               `json:"grand_total"`
	AmountPaid    string               `json:"amount_paid"`
	BalanceDue    string               `json:"balance_due"`
	PaymentStatus ledger.PaymentStatus `json:"payment_status"`
}

type exportMetadataResponse struct {
	Documents []rowResponse `json:"documents"`
	Summary   string        `json:"summary"`
}

func toRowResponse(row export.Row) rowResponse {
	return rowResponse{
		Number:        row.Document.Number,
		Kind:          row.Document.Kind,
		Status:        row.Document.Status,
		Customer:      row.Customer,
		IssueDate:     payload.Date{Time: row.Document.IssueDate},
		GrandTotal:    ledger.Format(row.GrandTotal),
		AmountPaid:    ledger.Format(row.AmountPaid),
		BalanceDue:    ledger.Format(row.BalanceDue),
		PaymentStatus: row.PaymentStatus,
	}
}

func (h *Handler) csv(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := document.ListFilter{}

	if s := query.Get("kind"); s != "" {
		filter.Kind = new(document.Kind(s))
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

	rows, err := h.svc.Rows(r.Context(), filter)
	if err != nil {
		respond.Err(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"documents_%s.csv\"", time.Now().Format("20060102")))

	if err := export.WriteCSV(w, rows); err != nil {
		slog.Error("failed to write csv", "error", err)
	}
}

func (h *Handler) metadata(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	rows, err := h.svc.Rows(r.Context(), req.filter())
	if err != nil {
		respond.Err(w, r, err)
		return
	}

	resp := exportMetadataResponse{
		Documents: make([]rowResponse, 0, len(rows)),
		Summary:   export.Summary(rows),
	}
	for _, row := range rows {
		resp.Documents = append(resp.Documents, toRowResponse(row))
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	tmpDir, err := os.MkdirTemp("", "billbook-export-*")
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	defer os.RemoveAll(tmpDir)

	outDir, err := h.svc.ExportToDir(r.Context(), req.filter(), tmpDir)
	if err != nil {
		respond.Err(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"export_%s.zip\"", time.Now().Format("20060102")))

	zipWriter := zip.NewWriter(w)
	defer zipWriter.Close()

	err = filepath.Walk(outDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}

		relPath, _ := filepath.Rel(outDir, path)

		zf, err := zipWriter.Create(relPath)
		if err != nil {
			return err
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		_, err = io.Copy(zf, f)

		return err
	})
	if err != nil {
		slog.Error("failed to create zip", "error", err)
	}
}
