package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/billbook/internal/commodity"
	commodityStore "github.com/MrJamesThe3rd/billbook/internal/commodity/store"
	"github.com/MrJamesThe3rd/billbook/internal/config"
	"github.com/MrJamesThe3rd/billbook/internal/customer"
	customerStore "github.com/MrJamesThe3rd/billbook/internal/customer/store"
	"github.com/MrJamesThe3rd/billbook/internal/database"
	"github.com/MrJamesThe3rd/billbook/internal/document"
	documentStore "github.com/MrJamesThe3rd/billbook/internal/document/store"
	"github.com/MrJamesThe3rd/billbook/internal/expense"
	expenseStore "github.com/MrJamesThe3rd/billbook/internal/expense/store"
	"github.com/MrJamesThe3rd/billbook/internal/export"
	billbookHttp "github.com/MrJamesThe3rd/billbook/internal/http"
	commodityHandler "github.com/MrJamesThe3rd/billbook/internal/http/commodity"
	customerHandler "github.com/MrJamesThe3rd/billbook/internal/http/customer"
	documentHandler "github.com/MrJamesThe3rd/billbook/internal/http/document"
	expenseHandler "github.com/MrJamesThe3rd/billbook/internal/http/expense"
	exportHandler "github.com/MrJamesThe3rd/billbook/internal/http/export"
	importHandler "github.com/MrJamesThe3rd/billbook/internal/http/importcsv"
	matchingHandler "github.com/MrJamesThe3rd/billbook/internal/http/matching"
	"github.com/MrJamesThe3rd/billbook/internal/importer"
	"github.com/MrJamesThe3rd/billbook/internal/logger"
	"github.com/MrJamesThe3rd/billbook/internal/matching"
	matchingStore "github.com/MrJamesThe3rd/billbook/internal/matching/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := logger.Setup(os.Stdout, logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format}); err != nil {
		slog.Error("failed to set up logging", "error", err)
		os.Exit(1)
	}

	db, err := database.New(context.Background(), cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	var (
		customerService  = customer.NewService(customerStore.New(db))
		commodityService = commodity.NewService(commodityStore.New(db), cfg.Billing.DefaultTaxRate)
		documentService  = document.NewService(documentStore.New(db), commodityService, cfg.Billing.DefaultTaxRate)
		expenseService   = expense.NewService(expenseStore.New(db))
		matchingService  = matching.NewService(matchingStore.New(db))
		importService    = importer.NewService()
		exportService    = export.NewService(documentService, customerService)
	)

	router := billbookHttp.New(billbookHttp.Handlers{
		Customers:   customerHandler.NewHandler(customerService),
		Commodities: commodityHandler.NewHandler(commodityService),
		Quotations:  documentHandler.NewHandler(documentService, document.KindQuotation),
		Invoices:    documentHandler.NewHandler(documentService, document.KindInvoice),
		Expenses:    expenseHandler.NewHandler(expenseService),
		Import:      importHandler.NewHandler(importService, expenseService, matchingService),
		Matching:    matchingHandler.NewHandler(matchingService),
		Export:      exportHandler.NewHandler(exportService),
	}, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown failed", "error", err)
		}
	}()

	slog.Info("starting server", "app", cfg.App.Name, "addr", srv.Addr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
