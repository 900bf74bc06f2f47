package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/billbook/internal/document"
	"github.com/MrJamesThe3rd/billbook/internal/ledger"
)

type documentsState int

const (
	documentsStateBrowse documentsState = iota
	documentsStatePayment
)

// paymentForm holds the payment form bindings. It lives behind a pointer so
// the huh fields keep writing to it across model copies.
type paymentForm struct {
	amount    string
	method    ledger.Method
	reference string
}

// DocumentsModel lists quotations or invoices and runs their lifecycle actions.
type DocumentsModel struct {
	CommonModel
	docService *document.Service
	kind       document.Kind

	state   documentsState
	table   table.Model
	docs    []*document.Document
	form    *huh.Form
	payment *paymentForm

	statusFilterIdx int
	filter          document.ListFilter

	loading bool
	err     error
	status  string
}

func NewDocumentsModel(svc *document.Service, kind document.Kind) DocumentsModel {
	columns := []table.Column{
		{Title: "Number", Width: 11},
		{Title: "Date", Width: 12},
		{Title: "Status", Width: 16},
		{Title: "Total", Width: 12},
		{Title: "Paid", Width: 12},
		{Title: "Balance", Width: 12},
		{Title: "Payment", Width: 15},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return DocumentsModel{
		docService: svc,
		kind:       kind,
		table:      t,
		filter:     document.ListFilter{Kind: new(kind)},
		loading:    true,
	}
}

func (m DocumentsModel) Title() string {
	if m.kind == document.KindQuotation {
		return "Quotations"
	}

	return "Invoices"
}

func (m DocumentsModel) ShortHelp() string {
	if m.state == documentsStatePayment {
		return "Navigate form | Esc: cancel"
	}

	if m.kind == document.KindQuotation {
		return "Esc: back | s: send | a: accept | c: convert | f: status filter | r: refresh"
	}

	return "Esc: back | s: send | p: record payment | f: status filter | r: refresh"
}

// statusFilters lists the statuses a document of this kind can be in. The empty status means all.
func (m DocumentsModel) statusFilters() []document.Status {
	if m.kind == document.KindQuotation {
		return []document.Status{"", document.StatusDraft, document.StatusSent, document.StatusAccepted, document.StatusConverted}
	}

	return []document.Status{"", document.StatusDraft, document.StatusSent, document.StatusPartialPayment, document.StatusPaid}
}

func (m DocumentsModel) Init() tea.Cmd {
	return m.loadDocumentsCmd()
}

func (m DocumentsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadDocumentsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.docs = msg.docs
		m.refreshTable()

		return m, nil

	case documentActionMsg:
		m.state = documentsStateBrowse
		m.form = nil
		m.payment = nil
		m.table.Focus()

		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.status = msg.status

		return m, m.loadDocumentsCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 14)
		return m, nil
	}

	switch m.state {
	case documentsStateBrowse:
		return m.updateBrowse(msg)
	case documentsStatePayment:
		return m.updatePayment(msg)
	}

	return m, nil
}

func (m DocumentsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadDocumentsCmd()
		case "f":
			filters := m.statusFilters()
			m.statusFilterIdx = (m.statusFilterIdx + 1) % len(filters)

			m.filter.Status = nil
			if s := filters[m.statusFilterIdx]; s != "" {
				m.filter.Status = new(s)
			}

			return m, m.loadDocumentsCmd()
		case "s":
			return m, m.applyCmd(document.ActionSend)
		case "a":
			if m.kind == document.KindQuotation {
				return m, m.applyCmd(document.ActionAccept)
			}
		case "c":
			if m.kind == document.KindQuotation {
				return m, m.convertCmd()
			}
		case "p":
			if m.kind == document.KindInvoice {
				return m.enterPaymentMode()
			}
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m DocumentsModel) selected() *document.Document {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.docs) {
		return nil
	}

	return m.docs[idx]
}

func (m DocumentsModel) enterPaymentMode() (tea.Model, tea.Cmd) {
	doc := m.selected()
	if doc == nil {
		return m, nil
	}

	if err := document.CanApply(doc, document.ActionRecordPayment); err != nil {
		m.status = fmt.Sprintf("Error: %v", err)
		return m, nil
	}

	m.payment = &paymentForm{
		amount: FormatAmount(doc.Reconcile().BalanceDue),
		method: ledger.MethodBankTransfer,
	}

	methods := make([]huh.Option[ledger.Method], 0, len(ledger.Methods()))
	for _, method := range ledger.Methods() {
		methods = append(methods, huh.NewOption(string(method), method))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("amount").
				Title("Amount").
				Value(&m.payment.amount).
				Validate(func(s string) error {
					_, err := ledger.ParseAmount(s)
					return err
				}),

			huh.NewSelect[ledger.Method]().
				Key("method").
				Title("Method").
				Options(methods...).
				Value(&m.payment.method),

			huh.NewInput().
				Key("reference").
				Title("Reference").
				Placeholder("optional").
				Value(&m.payment.reference),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = documentsStatePayment
	m.table.Blur()

	return m, m.form.Init()
}

func (m DocumentsModel) updatePayment(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = documentsStateBrowse
			m.form = nil
			m.payment = nil
			m.table.Focus()

			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.recordPaymentCmd()
}

func (m DocumentsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Loading %s...", strings.ToLower(m.Title())))
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	statusLabel := string(m.statusFilters()[m.statusFilterIdx])
	if statusLabel == "" {
		statusLabel = "all"
	}

	header := fmt.Sprintf("%s | Filter: [f] Status: %s", m.Title(), activeStyle(statusLabel))

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if doc := m.selected(); doc != nil {
		panel := itemsView(doc)

		if m.state == documentsStatePayment && m.form != nil {
			panel = fmt.Sprintf("Record Payment on %s\nBalance due: %s\n\n%s",
				doc.Number, FormatAmount(doc.Reconcile().BalanceDue), m.form.View())
		}

		content = lipgloss.JoinHorizontal(lipgloss.Top, content,
			lipgloss.NewStyle().
				Padding(1, 2).
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("63")).
				Width(52).
				Render(panel),
		)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

// itemsView renders the line items of doc with their derived amounts and the document totals.
func itemsView(doc *document.Document) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n\n", doc.Number)

	for _, item := range doc.Items {
		fmt.Fprintf(&b, "%s\n  %s x %s", item.Description, item.Quantity.String(), FormatAmount(item.UnitPrice))

		if item.DiscountPercent.IsPositive() {
			fmt.Fprintf(&b, "  -%s%%", item.DiscountPercent.String())
		}

		fmt.Fprintf(&b, "  +%s%% tax  = %s\n", item.TaxRatePercent.String(), FormatAmount(item.Total()))
	}

	rec := doc.Reconcile()

	fmt.Fprintf(&b, "\nSubtotal:  %12s\nTax:       %12s\nTotal:     %12s\n",
		FormatAmount(doc.Totals.Subtotal),
		FormatAmount(doc.Totals.TaxTotal),
		FormatAmount(doc.Totals.GrandTotal),
	)

	if doc.Kind == document.KindInvoice {
		fmt.Fprintf(&b, "Paid:      %12s\nBalance:   %12s\n", FormatAmount(rec.AmountPaid), FormatAmount(rec.BalanceDue))
	}

	return b.String()
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func (m *DocumentsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.docs))
	for _, doc := range m.docs {
		rec := doc.Reconcile()

		rows = append(rows, table.Row{
			doc.Number,
			FormatDate(doc.IssueDate),
			string(doc.Status),
			FormatAmount(doc.Totals.GrandTotal),
			FormatAmount(rec.AmountPaid),
			FormatAmount(rec.BalanceDue),
			string(rec.Status),
		})
	}

	m.table.SetRows(rows)
}

// Messages

type loadDocumentsMsg struct {
	docs []*document.Document
	err  error
}

func (m DocumentsModel) loadDocumentsCmd() tea.Cmd {
	svc := m.docService
	filter := m.filter

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		docs, err := svc.List(ctx, filter)

		return loadDocumentsMsg{docs: docs, err: err}
	}
}

type documentActionMsg struct {
	status string
	err    error
}

func (m DocumentsModel) applyCmd(action document.Action) tea.Cmd {
	doc := m.selected()
	if doc == nil {
		return nil
	}

	svc := m.docService

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		updated, err := svc.Apply(ctx, doc.ID, action)
		if err != nil {
			return documentActionMsg{err: err}
		}

		return documentActionMsg{status: fmt.Sprintf("%s is now %s.", updated.Number, updated.Status)}
	}
}

func (m DocumentsModel) convertCmd() tea.Cmd {
	doc := m.selected()
	if doc == nil {
		return nil
	}

	svc := m.docService

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		invoice, err := svc.Convert(ctx, doc.ID)
		if err != nil {
			return documentActionMsg{err: err}
		}

		return documentActionMsg{status: fmt.Sprintf("%s converted into invoice %s.", doc.Number, invoice.Number)}
	}
}

func (m DocumentsModel) recordPaymentCmd() tea.Cmd {
	doc := m.selected()
	if doc == nil || m.payment == nil {
		return nil
	}

	svc := m.docService
	form := *m.payment

	return func() tea.Msg {
		amount, err := ledger.ParseAmount(form.amount)
		if err != nil {
			return documentActionMsg{err: err}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		res, err := svc.RecordPayment(ctx, doc.ID, ledger.PaymentParams{
			Amount:    amount,
			Method:    form.method,
			Reference: form.reference,
		})
		if err != nil {
			return documentActionMsg{err: err}
		}

		return documentActionMsg{status: fmt.Sprintf("Recorded %s on %s. Balance due %s (%s).",
			FormatAmount(res.Payment.Amount), doc.Number,
			FormatAmount(res.Reconciliation.BalanceDue), res.Reconciliation.Status)}
	}
}
