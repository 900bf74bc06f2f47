package view

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/billbook/internal/expense"
	"github.com/MrJamesThe3rd/billbook/internal/importer"
	"github.com/MrJamesThe3rd/billbook/internal/matching"
)

const importTimeout = 2 * time.Minute

type importStep int

const (
	importStepBank importStep = iota
	importStepFile
	importStepWorking
	importStepReview
	importStepDone
)

// importOptions holds the form bindings behind a pointer so huh keeps writing to them.
type importOptions struct {
	bank importer.Bank
}

// importReview is a batch that hit duplicates and waits for the user to pick which to keep.
type importReview struct {
	fresh     []expense.CreateParams
	conflicts []expense.Conflict
	keep      []bool
}

func (r importReview) params() []expense.CreateParams {
	out := append([]expense.CreateParams(nil), r.fresh...)

	for i, c := range r.conflicts {
		if r.keep[i] {
			out = append(out, c.Incoming)
		}
	}

	return out
}

type ImportModel struct {
	CommonModel
	expenseService  *expense.Service
	importService   *importer.Service
	matchingService *matching.Service

	step    importStep
	options *importOptions
	form    *huh.Form
	picker  filepicker.Model
	spinner spinner.Model

	review      importReview
	reviewTable table.Model

	status string
	err    error
}

func NewImportModel(expenseSvc *expense.Service, impSvc *importer.Service, matchSvc *matching.Service) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv"}
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	s := spinner.New()
	s.Spinner = spinner.Dot

	m := ImportModel{
		expenseService:  expenseSvc,
		importService:   impSvc,
		matchingService: matchSvc,
		options:         &importOptions{},
		picker:          fp,
		spinner:         s,
		reviewTable: table.New(
			table.WithColumns([]table.Column{
				{Title: "Keep", Width: 5},
				{Title: "Date", Width: 10},
				{Title: "Amount", Width: 10},
				{Title: "Incoming", Width: 28},
				{Title: "Already recorded as", Width: 28},
			}),
			table.WithFocused(true),
			table.WithHeight(12),
		),
	}
	m.form = buildBankForm(m.options, impSvc.Banks())

	return m
}

func buildBankForm(opts *importOptions, banks []importer.Bank) *huh.Form {
	options := make([]huh.Option[importer.Bank], len(banks))
	for i, b := range banks {
		options[i] = huh.NewOption(string(b), b)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[importer.Bank]().
				Title("Bank statement format").
				Options(options...).
				Value(&opts.bank),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m ImportModel) Title() string { return "Import Expenses" }

func (m ImportModel) ShortHelp() string {
	if m.step == importStepReview {
		return "Space: keep/skip | a: keep all | n: skip all | Enter: import | Esc: cancel"
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.back()
		}

	case importedMsg:
		return m.handleImported(msg)

	case importConfirmedMsg:
		m.step = importStepDone
		m.err = msg.err

		if msg.err == nil {
			m.status = fmt.Sprintf("Imported %d expenses.", msg.count)
		}

		return m, nil

	case spinner.TickMsg:
		if m.step != importStepWorking {
			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	switch m.step {
	case importStepBank:
		return m.updateBank(msg)
	case importStepFile:
		return m.updateFile(msg)
	case importStepReview:
		if key, ok := msg.(tea.KeyMsg); ok {
			return m.updateReview(key)
		}
	}

	return m, nil
}

func (m ImportModel) back() (tea.Model, tea.Cmd) {
	switch m.step {
	case importStepBank, importStepWorking:
		return m, Back
	}

	m.step = importStepBank
	m.review = importReview{}
	m.status, m.err = "", nil
	m.form = buildBankForm(m.options, m.importService.Banks())

	return m, m.form.Init()
}

func (m ImportModel) updateBank(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.step = importStepFile

	return m, m.picker.Init()
}

func (m ImportModel) updateFile(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.step = importStepWorking
		m.status = "Importing " + path

		return m, tea.Batch(m.spinner.Tick, m.importCmd(path))
	}

	return m, cmd
}

func (m ImportModel) handleImported(msg importedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.step, m.err = importStepDone, msg.err
		return m, nil
	}

	if len(msg.result.Conflicts) == 0 {
		m.step = importStepDone
		m.status = fmt.Sprintf("Imported %d expenses, %d categorized from learned mappings.",
			len(msg.result.Imported), msg.categorized)

		return m, nil
	}

	m.review = importReview{
		fresh:     msg.result.New,
		conflicts: msg.result.Conflicts,
		keep:      make([]bool, len(msg.result.Conflicts)),
	}
	m.reviewTable.SetRows(m.review.rows())
	m.reviewTable.SetCursor(0)
	m.step = importStepReview

	return m, nil
}

func (m ImportModel) updateReview(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case " ":
		i := m.reviewTable.Cursor()
		if i >= 0 && i < len(m.review.keep) {
			m.review.keep[i] = !m.review.keep[i]
		}
	case "a", "n":
		for i := range m.review.keep {
			m.review.keep[i] = key.String() == "a"
		}
	case "enter":
		m.step = importStepWorking
		m.status = "Saving"

		return m, tea.Batch(m.spinner.Tick, m.confirmCmd(m.review.params()))
	default:
		var cmd tea.Cmd
		m.reviewTable, cmd = m.reviewTable.Update(key)

		return m, cmd
	}

	m.reviewTable.SetRows(m.review.rows())

	return m, nil
}

func (r importReview) rows() []table.Row {
	rows := make([]table.Row, len(r.conflicts))
	for i, c := range r.conflicts {
		mark := "[ ]"
		if r.keep[i] {
			mark = "[x]"
		}

		rows[i] = table.Row{
			mark,
			FormatDate(c.Incoming.Date),
			FormatAmount(c.Incoming.Amount),
			c.Incoming.Description,
			fmt.Sprintf("%s [%s]", descriptionOf(c.Existing), categoryOf(c.Existing)),
		}
	}

	return rows
}

func (m ImportModel) View() string {
	pad := lipgloss.NewStyle().Padding(1)

	switch m.step {
	case importStepBank:
		return pad.Render(m.form.View())
	case importStepFile:
		return pad.Render(fmt.Sprintf("Select a %s statement:\n\n%s", m.options.bank, m.picker.View()))
	case importStepWorking:
		return pad.Render(fmt.Sprintf("%s %s...", m.spinner.View(), m.status))
	case importStepReview:
		return pad.Render(lipgloss.JoinVertical(lipgloss.Left,
			fmt.Sprintf("%d new expenses, %d look like duplicates:", len(m.review.fresh), len(m.review.conflicts)),
			"",
			m.reviewTable.View(),
		))
	case importStepDone:
		color, text := lipgloss.Color("46"), m.status
		if m.err != nil {
			color, text = lipgloss.Color("196"), fmt.Sprintf("Error: %v", m.err)
		}

		return pad.Render(lipgloss.NewStyle().Foreground(color).Render(text) + "\n\n(Esc to import another file)")
	}

	return ""
}

type importedMsg struct {
	result      *expense.ImportResult
	categorized int
	err         error
}

type importConfirmedMsg struct {
	count int
	err   error
}

func (m ImportModel) importCmd(path string) tea.Cmd {
	bank := m.options.bank
	impSvc, matchSvc, expenseSvc := m.importService, m.matchingService, m.expenseService

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importedMsg{err: err}
		}
		defer f.Close()

		params, err := impSvc.Import(bank, f)
		if err != nil {
			return importedMsg{err: err}
		}

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		if err := matchSvc.Apply(ctx, params); err != nil {
			return importedMsg{err: err}
		}

		categorized := 0
		for _, p := range params {
			if p.Category != "" {
				categorized++
			}
		}

		result, err := expenseSvc.ImportBatch(ctx, params)
		if err != nil {
			return importedMsg{err: err}
		}

		return importedMsg{result: result, categorized: categorized}
	}
}

func (m ImportModel) confirmCmd(params []expense.CreateParams) tea.Cmd {
	svc := m.expenseService

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		created, err := svc.CreateBatch(ctx, params)
		if err != nil {
			return importConfirmedMsg{err: err}
		}

		return importConfirmedMsg{count: len(created)}
	}
}
