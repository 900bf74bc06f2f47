package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/billbook/cmd/tui/internal/view"
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
	"github.com/MrJamesThe3rd/billbook/internal/importer"
	"github.com/MrJamesThe3rd/billbook/internal/logger"
	"github.com/MrJamesThe3rd/billbook/internal/matching"
	matchingStore "github.com/MrJamesThe3rd/billbook/internal/matching/store"
)

const logFile = "billbook-tui.log"

type model struct {
	documentService *document.Service
	expenseService  *expense.Service
	matchingService *matching.Service
	importService   *importer.Service
	exportService   *export.Service

	currentView View

	invoicesView   view.DocumentsModel
	quotationsView view.DocumentsModel
	expensesView   view.ExpensesModel
	importView     view.ImportModel
	exportView     view.ExportModel
}

type View int

const (
	ViewMenu       View = 0
	ViewInvoices   View = 1
	ViewQuotations View = 2
	ViewExpenses   View = 3
	ViewImport     View = 4
	ViewExport     View = 5
)

// setupLogging sends logs to a file at debug level and discards them otherwise,
// since the terminal belongs to the UI.
func setupLogging(cfg *config.Config) error {
	var w io.Writer = io.Discard

	if cfg.Log.Level == "debug" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}

		w = f
	}

	return logger.Setup(w, logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
}

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := setupLogging(cfg); err != nil {
		slog.Error("failed to set up logging", "error", err)
		os.Exit(1)
	}

	db, err := database.New(context.Background(), cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	customerSvc := customer.NewService(customerStore.New(db))
	commoditySvc := commodity.NewService(commodityStore.New(db), cfg.Billing.DefaultTaxRate)
	docSvc := document.NewService(documentStore.New(db), commoditySvc, cfg.Billing.DefaultTaxRate)
	expenseSvc := expense.NewService(expenseStore.New(db))
	matchSvc := matching.NewService(matchingStore.New(db))
	impSvc := importer.NewService()
	expSvc := export.NewService(docSvc, customerSvc)

	return model{
		documentService: docSvc,
		expenseService:  expenseSvc,
		matchingService: matchSvc,
		importService:   impSvc,
		exportService:   expSvc,
		currentView:     ViewMenu,
		invoicesView:    view.NewDocumentsModel(docSvc, document.KindInvoice),
		quotationsView:  view.NewDocumentsModel(docSvc, document.KindQuotation),
		expensesView:    view.NewExpensesModel(expenseSvc, matchSvc),
		importView:      view.NewImportModel(expenseSvc, impSvc, matchSvc),
		exportView:      view.NewExportModel(expSvc),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewInvoices
				m.invoicesView = view.NewDocumentsModel(m.documentService, document.KindInvoice)

				return m, m.invoicesView.Init()
			case "2":
				m.currentView = ViewQuotations
				m.quotationsView = view.NewDocumentsModel(m.documentService, document.KindQuotation)

				return m, m.quotationsView.Init()
			case "3":
				m.currentView = ViewExpenses
				m.expensesView = view.NewExpensesModel(m.expenseService, m.matchingService)

				return m, m.expensesView.Init()
			case "4":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.expenseService, m.importService, m.matchingService)

				return m, m.importView.Init()
			case "5":
				m.currentView = ViewExport
				m.exportView = view.NewExportModel(m.exportService)

				return m, m.exportView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewInvoices:
		var newModel tea.Model
		newModel, cmd = m.invoicesView.Update(msg)
		m.invoicesView = newModel.(view.DocumentsModel)
	case ViewQuotations:
		var newModel tea.Model
		newModel, cmd = m.quotationsView.Update(msg)
		m.quotationsView = newModel.(view.DocumentsModel)
	case ViewExpenses:
		var newModel tea.Model
		newModel, cmd = m.expensesView.Update(msg)
		m.expensesView = newModel.(view.ExpensesModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Billbook\n\n" +
				"1. Invoices\n" +
				"2. Quotations\n" +
				"3. Expenses\n" +
				"4. Import Bank Statement\n" +
				"5. Export Documents\n\n" +
				"q. Quit",
		)
	case ViewInvoices:
		return m.invoicesView.View()
	case ViewQuotations:
		return m.quotationsView.View()
	case ViewExpenses:
		return m.expensesView.View()
	case ViewImport:
		return m.importView.View()
	case ViewExport:
		return m.exportView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
