package view

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/billbook/internal/expense"
	"github.com/MrJamesThe3rd/billbook/internal/matching"
)

type expensesState int

const (
	expensesStatePeriod expensesState = iota
	expensesStateList
	expensesStateEditing
)

// expenseItem wraps an expense to implement list.Item.
type expenseItem struct {
	e *expense.Expense
}

func (i expenseItem) Title() string {
	category := lipgloss.NewStyle().Faint(true).Render(fmt.Sprintf("[%s]", categoryOf(i.e)))

	return fmt.Sprintf("%s  %10s  %s  %s", FormatDate(i.e.Date), FormatAmount(i.e.Amount), category, descriptionOf(i.e))
}

func (i expenseItem) Description() string {
	if i.e.RawDescription != "" && i.e.RawDescription != i.e.Description {
		return fmt.Sprintf("Bank: %s", i.e.RawDescription)
	}

	return ""
}

func (i expenseItem) FilterValue() string {
	return descriptionOf(i.e) + " " + i.e.Category
}

func descriptionOf(e *expense.Expense) string {
	if e.Description == "" {
		return e.RawDescription
	}

	return e.Description
}

func categoryOf(e *expense.Expense) string {
	if e.Category == "" {
		return expense.Uncategorized
	}

	return e.Category
}

// expenseForm holds the edit form bindings behind a pointer so huh keeps writing to them.
type expenseForm struct {
	description string
	category    string
	learn       bool
}

type ExpensesModel struct {
	CommonModel
	expenseService  *expense.Service
	matchingService *matching.Service

	state    expensesState
	period   PeriodPicker
	list     list.Model
	form     *huh.Form
	edit     *expenseForm
	selected *expense.Expense

	filter  expense.ListFilter
	summary *expense.Summary
	loading bool
	status  string
}

func NewExpensesModel(expenseSvc *expense.Service, matchSvc *matching.Service) ExpensesModel {
	l := list.New([]list.Item{}, expenseItemDelegate{}, 0, 0)
	l.Title = "Expenses"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(true)

	return ExpensesModel{
		expenseService:  expenseSvc,
		matchingService: matchSvc,
		period:          NewPeriodPicker(),
		list:            l,
	}
}

func (m ExpensesModel) Title() string { return "Expenses" }

func (m ExpensesModel) ShortHelp() string {
	switch m.state {
	case expensesStatePeriod:
		return "Esc: back | Enter: select"
	case expensesStateList:
		return "Esc: back | Enter: edit | /: filter"
	case expensesStateEditing:
		return "Esc: cancel | Enter/Tab: navigate form"
	}

	return ""
}

func (m ExpensesModel) Init() tea.Cmd {
	return nil
}

func (m ExpensesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case PeriodSelectedMsg:
		m.filter.StartDate, m.filter.EndDate = msg.Bounds()
		m.loading = true
		m.state = expensesStateList

		return m, m.loadExpensesCmd()

	case loadExpensesMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.summary = msg.summary
		m.refreshListItems(msg.expenses)

		if len(msg.expenses) == 0 {
			m.status = "No expenses found."
		}

		return m, nil

	case saveExpenseResultMsg:
		m.state = expensesStateList
		m.form = nil
		m.edit = nil

		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
			return m, nil
		}

		m.status = "Saved."

		return m, m.loadExpensesCmd()

	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-10)
		return m, nil
	}

	switch m.state {
	case expensesStatePeriod:
		return m.updatePeriod(msg)
	case expensesStateList:
		return m.updateList(msg)
	case expensesStateEditing:
		return m.updateEditing(msg)
	}

	return m, nil
}

func (m ExpensesModel) updatePeriod(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc && m.period.IsSelecting() {
			return m, Back
		}
	}

	var cmd tea.Cmd
	m.period, cmd = m.period.Update(msg)

	return m, cmd
}

func (m ExpensesModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEsc:
			if m.list.FilterState() == list.Filtering {
				break
			}

			return m, Back
		case tea.KeyEnter:
			if m.list.FilterState() == list.Filtering {
				break
			}

			return m.startEditing()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m ExpensesModel) startEditing() (tea.Model, tea.Cmd) {
	item, ok := m.list.SelectedItem().(expenseItem)
	if !ok {
		return m, nil
	}

	m.selected = item.e
	m.edit = &expenseForm{
		description: descriptionOf(item.e),
		category:    item.e.Category,
		learn:       item.e.RawDescription != "",
	}

	fields := []huh.Field{
		huh.NewInput().
			Key("description").
			Title("Description").
			Value(&m.edit.description).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return fmt.Errorf("description cannot be empty")
				}
				return nil
			}),

		huh.NewInput().
			Key("category").
			Title("Category").
			Placeholder(expense.Uncategorized).
			Value(&m.edit.category),
	}

	if item.e.RawDescription != "" {
		fields = append(fields, huh.NewConfirm().
			Key("learn").
			Title("Remember for future imports?").
			Affirmative("Yes").
			Negative("No").
			Value(&m.edit.learn))
	}

	m.form = huh.NewForm(huh.NewGroup(fields...)).WithWidth(50).WithShowHelp(false)
	m.state = expensesStateEditing

	return m, m.form.Init()
}

func (m ExpensesModel) updateEditing(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = expensesStateList
			m.form = nil
			m.edit = nil

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

	return m, m.saveExpenseCmd()
}

func (m ExpensesModel) View() string {
	switch m.state {
	case expensesStatePeriod:
		return lipgloss.NewStyle().Padding(1).Render(m.period.View())

	case expensesStateList:
		if m.loading {
			return lipgloss.NewStyle().Padding(2).Render("Loading expenses...")
		}

		statusLine := ""
		if m.status != "" {
			statusLine = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n"
		}

		return lipgloss.NewStyle().Padding(1).Render(statusLine + m.summaryView() + "\n" + m.list.View())

	case expensesStateEditing:
		if m.form == nil {
			return ""
		}

		return lipgloss.NewStyle().Padding(1).Render(m.expenseInfoView() + "\n" + m.form.View())
	}

	return ""
}

// summaryView renders the period total and its three largest categories.
func (m ExpensesModel) summaryView() string {
	if m.summary == nil || m.summary.Count == 0 {
		return ""
	}

	parts := make([]string, 0, 3)
	for i, ct := range m.summary.Categories {
		if i == 3 {
			break
		}

		parts = append(parts, fmt.Sprintf("%s %s", ct.Category, FormatAmount(ct.Total)))
	}

	return fmt.Sprintf("Total %s over %d expenses | %s",
		activeStyle(FormatAmount(m.summary.Total)), m.summary.Count, strings.Join(parts, ", "))
}

func (m ExpensesModel) expenseInfoView() string {
	if m.selected == nil {
		return ""
	}

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1).
		Render(fmt.Sprintf(
			"Date: %s  |  Method: %s  |  Amount: %s\nRaw: %s",
			FormatDate(m.selected.Date),
			m.selected.Method,
			FormatAmount(m.selected.Amount),
			m.selected.RawDescription,
		))
}

func (m *ExpensesModel) refreshListItems(expenses []*expense.Expense) {
	items := make([]list.Item, len(expenses))
	for i, e := range expenses {
		items[i] = expenseItem{e: e}
	}

	m.list.SetItems(items)
}

// Messages

type loadExpensesMsg struct {
	expenses []*expense.Expense
	summary  *expense.Summary
	err      error
}

func (m ExpensesModel) loadExpensesCmd() tea.Cmd {
	svc := m.expenseService
	filter := m.filter

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		expenses, err := svc.List(ctx, filter)
		if err != nil {
			return loadExpensesMsg{err: err}
		}

		summary, err := svc.Summary(ctx, filter)

		return loadExpensesMsg{expenses: expenses, summary: summary, err: err}
	}
}

type saveExpenseResultMsg struct {
	err error
}

func (m ExpensesModel) saveExpenseCmd() tea.Cmd {
	e := m.selected
	form := *m.edit
	expenseSvc := m.expenseService
	matchSvc := m.matchingService

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if form.learn && e.RawDescription != "" {
			err := matchSvc.Learn(ctx, e.RawDescription, matching.Suggestion{
				Description: form.description,
				Category:    form.category,
			})
			if err != nil {
				return saveExpenseResultMsg{err: err}
			}
		}

		_, err := expenseSvc.Update(ctx, e.ID, expense.UpdateParams{
			Description: &form.description,
			Category:    &form.category,
		})

		return saveExpenseResultMsg{err: err}
	}
}

// expenseItemDelegate renders items in the list.
type expenseItemDelegate struct{}

func (d expenseItemDelegate) Height() int                             { return 2 }
func (d expenseItemDelegate) Spacing() int                            { return 0 }
func (d expenseItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d expenseItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(expenseItem)
	if !ok {
		return
	}

	title := i.Title()
	desc := i.Description()

	if index == m.Index() {
		title = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).Render("> " + title)
	}

	fmt.Fprintf(w, "  %s\n", title)

	if desc == "" {
		fmt.Fprintln(w)
		return
	}

	fmt.Fprintf(w, "    %s\n", lipgloss.NewStyle().Faint(true).Render(desc))
}
