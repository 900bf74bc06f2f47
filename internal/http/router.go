package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/billbook/internal/http/commodity"
	"github.com/MrJamesThe3rd/billbook/internal/http/customer"
	"github.com/MrJamesThe3rd/billbook/internal/http/document"
	"github.com/MrJamesThe3rd/billbook/internal/http/expense"
	"github.com/MrJamesThe3rd/billbook/internal/http/export"
	"github.com/MrJamesThe3rd/billbook/internal/http/importcsv"
	"github.com/MrJamesThe3rd/billbook/internal/http/matching"
	"github.com/MrJamesThe3rd/billbook/internal/http/respond"
)

type Handlers struct {
	Customers   *customer.Handler
	Commodities *commodity.Handler
	Quotations  *document.Handler
	Invoices    *document.Handler
	Expenses    *expense.Handler
	Import      *importcsv.Handler
	Matching    *matching.Handler
	Export      *export.Handler
}

func New(h Handlers, allowedOrigins []string) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respond.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	jsonOnly := middleware.AllowContentType("application/json")

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/customers", func(r chi.Router) {
			r.Use(jsonOnly)
			h.Customers.Routes(r)
		})

		r.Route("/commodities", func(r chi.Router) {
			r.Use(jsonOnly)
			h.Commodities.Routes(r)
		})

		r.Route("/quotations", func(r chi.Router) {
			r.Use(jsonOnly)
			h.Quotations.Routes(r)
		})

		r.Route("/invoices", func(r chi.Router) {
			r.Use(jsonOnly)
			h.Invoices.Routes(r)
		})

		r.Route("/expenses", func(r chi.Router) {
			r.Use(jsonOnly)
			h.Expenses.Routes(r)
		})

		r.Route("/import", h.Import.Routes)

		r.Route("/matching", func(r chi.Router) {
			h.Matching.Routes(r)
		})

		r.Route("/export", h.Export.Routes)
	})

	return router
}
