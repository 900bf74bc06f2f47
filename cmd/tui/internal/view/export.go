package view

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/billbook/internal/document"
	"github.com/MrJamesThe3rd/billbook/internal/export"
)

const exportTimeout = 2 * time.Minute

var exportPeriods = []Period{
	PeriodThisMonth, PeriodLastMonth, PeriodThisQuarter, PeriodLastQuarter,
	PeriodThisYear, PeriodLastYear, PeriodCustom,
}

type exportStep int

const (
	exportStepPeriod exportStep = iota
	exportStepOptions
	exportStepLoading
	exportStepPreview
	exportStepWriting
	exportStepDone
)

// exportOptions holds the form bindings behind a pointer so huh keeps writing to them.
type exportOptions struct {
	path string
	kind document.Kind
}

func (o exportOptions) filter(start, end *time.Time) document.ListFilter {
	filter := document.ListFilter{StartDate: start, EndDate: end}
	if o.kind != "" {
		filter.Kind = new(o.kind)
	}

	return filter
}

type ExportModel struct {
	CommonModel
	exportService *export.Service

	step   exportStep
	period PeriodPicker
	start  *time.Time
	end    *time.Time

	options *exportOptions
	form    *huh.Form
	spinner spinner.Model
	preview table.Model

	rows   []export.Row
	outDir string
	err    error
}

func NewExportModel(svc *export.Service) ExportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	preview := table.New(
		table.WithColumns([]table.Column{
			{Title: "Number", Width: 12},
			{Title: "Customer", Width: 20},
			{Title: "Status", Width: 10},
			{Title: "Total", Width: 12},
			{Title: "Paid", Width: 12},
			{Title: "Balance", Width: 12},
		}),
		table.WithHeight(12),
	)

	return ExportModel{
		exportService: svc,
		period:        NewPeriodPicker(exportPeriods...),
		spinner:       s,
		preview:       preview,
	}
}

func (m ExportModel) Title() string { return "Export Documents" }

func (m ExportModel) ShortHelp() string {
	switch m.step {
	case exportStepPreview:
		return "Enter: write files | Esc: change options"
	case exportStepLoading, exportStepWriting:
		return "Working..."
	case exportStepDone:
		return "Esc: back to menu"
	}

	return "Esc: back | Enter: confirm"
}

func (m ExportModel) Init() tea.Cmd {
	return nil
}

func (m ExportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case PeriodSelectedMsg:
		m.start, m.end = msg.Bounds()
		return m.showOptions()

	case exportRowsMsg:
		if msg.err != nil {
			m.step, m.err = exportStepDone, msg.err
			return m, nil
		}

		m.rows = msg.rows
		m.preview.SetRows(previewRows(msg.rows))
		m.step = exportStepPreview

		return m, nil

	case exportWrittenMsg:
		m.step = exportStepDone
		m.outDir, m.err = msg.outDir, msg.err

		return m, nil

	case spinner.TickMsg:
		if m.step != exportStepLoading && m.step != exportStepWriting {
			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	switch m.step {
	case exportStepPeriod:
		return m.updatePeriod(msg)
	case exportStepOptions:
		return m.updateOptions(msg)
	case exportStepPreview:
		return m.updatePreview(msg)
	case exportStepDone:
		if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEsc {
			return m, Back
		}
	}

	return m, nil
}

func (m ExportModel) showOptions() (tea.Model, tea.Cmd) {
	if m.options == nil {
		m.options = &exportOptions{path: "./exports"}
	}

	m.form = buildOptionsForm(m.options)
	m.step = exportStepOptions

	return m, m.form.Init()
}

func (m ExportModel) updatePeriod(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEsc && m.period.IsSelecting() {
		return m, Back
	}

	var cmd tea.Cmd
	m.period, cmd = m.period.Update(msg)

	return m, cmd
}

func (m ExportModel) updateOptions(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEsc {
		m.step = exportStepPeriod
		m.period.Reset()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.step = exportStepLoading
	m.err = nil

	return m, tea.Batch(m.spinner.Tick, m.loadRowsCmd())
}

func (m ExportModel) updatePreview(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEsc:
			m.preview.Blur()
			return m.showOptions()
		case tea.KeyEnter:
			if len(m.rows) == 0 {
				return m, nil
			}

			m.preview.Blur()
			m.step = exportStepWriting

			return m, tea.Batch(m.spinner.Tick, m.writeCmd())
		}
	}

	m.preview.Focus()

	var cmd tea.Cmd
	m.preview, cmd = m.preview.Update(msg)

	return m, cmd
}

func buildOptionsForm(opts *exportOptions) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[document.Kind]().
				Key("kind").
				Title("Documents").
				Options(
					huh.NewOption[document.Kind]("Quotations and invoices", ""),
					huh.NewOption("Invoices", document.KindInvoice),
					huh.NewOption("Quotations", document.KindQuotation),
				).
				Value(&opts.kind),

			huh.NewInput().
				Key("path").
				Title("Output Path").
				Description("A dated folder is created inside it").
				Placeholder("./exports").
				Value(&opts.path),
		),
	).WithWidth(50).WithShowHelp(false)
}

func previewRows(rows []export.Row) []table.Row {
	out := make([]table.Row, len(rows))
	for i, r := range rows {
		out[i] = table.Row{
			r.Document.Number,
			r.Customer,
			string(r.Document.Status),
			FormatAmount(r.GrandTotal),
			FormatAmount(r.AmountPaid),
			FormatAmount(r.BalanceDue),
		}
	}

	return out
}

func (m ExportModel) View() string {
	pad := lipgloss.NewStyle().Padding(1)

	switch m.step {
	case exportStepPeriod:
		return pad.Render(m.period.View())
	case exportStepOptions:
		return pad.Render(m.form.View())
	case exportStepLoading:
		return pad.Render(m.spinner.View() + " Loading documents...")
	case exportStepWriting:
		return pad.Render(m.spinner.View() + " Writing files...")
	case exportStepPreview:
		if len(m.rows) == 0 {
			return pad.Render("No documents in this period.\n\n(Esc to change options)")
		}

		return pad.Render(lipgloss.JoinVertical(lipgloss.Left,
			fmt.Sprintf("%d documents", len(m.rows)),
			"",
			m.preview.View(),
			"",
			export.Summary(m.rows),
		))
	case exportStepDone:
		return m.viewDone()
	}

	return ""
}

func (m ExportModel) viewDone() string {
	pad := lipgloss.NewStyle().Padding(1)

	if m.err != nil {
		return pad.Render(
			lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(fmt.Sprintf("Error: %v", m.err)),
		)
	}

	header := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("46")).Render("Export Complete!")

	return pad.Render(lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		"Written to "+m.outDir,
		"  documents.csv",
		"  summary.txt",
	))
}

type exportRowsMsg struct {
	rows []export.Row
	err  error
}

type exportWrittenMsg struct {
	outDir string
	err    error
}

func (m ExportModel) loadRowsCmd() tea.Cmd {
	svc := m.exportService
	filter := m.options.filter(m.start, m.end)

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		rows, err := svc.Rows(ctx, filter)

		return exportRowsMsg{rows: rows, err: err}
	}
}

func (m ExportModel) writeCmd() tea.Cmd {
	svc := m.exportService
	filter := m.options.filter(m.start, m.end)
	dir := m.options.path

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()

		outDir, err := svc.ExportToDir(ctx, filter, dir)

		return exportWrittenMsg{outDir: outDir, err: err}
	}
}
