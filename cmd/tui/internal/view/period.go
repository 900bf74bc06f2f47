package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Period is a reporting window offered by PeriodPicker.
type Period int

const (
	PeriodThisMonth Period = iota
	PeriodLastMonth
	PeriodThisQuarter
	PeriodLastQuarter
	PeriodThisYear
	PeriodLastYear
	PeriodAllTime
	PeriodCustom
)

var periodNames = map[Period]string{
	PeriodThisMonth:   "This Month",
	PeriodLastMonth:   "Last Month",
	PeriodThisQuarter: "This Quarter",
	PeriodLastQuarter: "Last Quarter",
	PeriodThisYear:    "This Year",
	PeriodLastYear:    "Last Year",
	PeriodAllTime:     "All Time",
	PeriodCustom:      "Custom Range",
}

func (p Period) String() string {
	if name, ok := periodNames[p]; ok {
		return name
	}

	return "Unknown"
}

var errReversedRange = errors.New("end date is before start date")

// periodRange resolves a preset relative to now as whole UTC days.
// Current periods end today; past periods end on their last day.
func periodRange(p Period, now time.Time) (time.Time, time.Time) {
	y, m, _ := now.Date()
	month := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	quarter := time.Date(y, m-(m-1)%3, 1, 0, 0, 0, 0, time.UTC)
	year := time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)

	switch p {
	case PeriodThisMonth:
		return wholeDays(month, now)
	case PeriodLastMonth:
		return wholeDays(month.AddDate(0, -1, 0), month.AddDate(0, 0, -1))
	case PeriodThisQuarter:
		return wholeDays(quarter, now)
	case PeriodLastQuarter:
		return wholeDays(quarter.AddDate(0, -3, 0), quarter.AddDate(0, 0, -1))
	case PeriodThisYear:
		return wholeDays(year, now)
	case PeriodLastYear:
		return wholeDays(year.AddDate(-1, 0, 0), year.AddDate(0, 0, -1))
	}

	return time.Time{}, time.Time{}
}

// wholeDays widens [start, end] to cover both days entirely.
func wholeDays(start, end time.Time) (time.Time, time.Time) {
	return time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC),
		time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 0, time.UTC)
}

func parseRange(startStr, endStr string) (time.Time, time.Time, error) {
	start, err := time.Parse(time.DateOnly, strings.TrimSpace(startStr))
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("invalid start date (YYYY-MM-DD)")
	}

	end, err := time.Parse(time.DateOnly, strings.TrimSpace(endStr))
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("invalid end date (YYYY-MM-DD)")
	}

	if end.Before(start) {
		return time.Time{}, time.Time{}, errReversedRange
	}

	start, end = wholeDays(start, end)

	return start, end, nil
}

// PeriodSelectedMsg carries the chosen window. Start and End are zero when All is set.
type PeriodSelectedMsg struct {
	Period Period
	Start  time.Time
	End    time.Time
	All    bool
}

// Bounds returns the window as list filter bounds, nil for all time.
func (msg PeriodSelectedMsg) Bounds() (*time.Time, *time.Time) {
	if msg.All {
		return nil, nil
	}

	return new(msg.Start), new(msg.End)
}

// PeriodPicker lists presets and falls back to a typed range for PeriodCustom.
type PeriodPicker struct {
	presets []Period
	cursor  int

	custom bool
	inputs [2]textinput.Model
	focus  int

	err error
}

func NewPeriodPicker(presets ...Period) PeriodPicker {
	if len(presets) == 0 {
		presets = []Period{PeriodThisMonth, PeriodLastMonth, PeriodThisQuarter, PeriodLastQuarter,
			PeriodThisYear, PeriodLastYear, PeriodAllTime, PeriodCustom}
	}

	var inputs [2]textinput.Model
	for i, prompt := range []string{"From: ", "To:   "} {
		in := textinput.New()
		in.Placeholder = "YYYY-MM-DD"
		in.CharLimit = 10
		in.Width = 12
		in.Prompt = prompt
		inputs[i] = in
	}

	return PeriodPicker{presets: presets, inputs: inputs}
}

func (p PeriodPicker) Update(msg tea.Msg) (PeriodPicker, tea.Cmd) {
	key, isKey := msg.(tea.KeyMsg)

	if !p.custom {
		if isKey {
			return p.updatePresets(key)
		}

		return p, nil
	}

	if isKey {
		switch key.String() {
		case "tab", "shift+tab":
			return p.toggleFocus()
		case "enter":
			return p.submitCustom()
		case "esc":
			p.custom = false
			p.err = nil

			return p, nil
		}
	}

	var cmd tea.Cmd
	p.inputs[p.focus], cmd = p.inputs[p.focus].Update(msg)

	return p, cmd
}

func (p PeriodPicker) updatePresets(key tea.KeyMsg) (PeriodPicker, tea.Cmd) {
	switch key.Type {
	case tea.KeyUp:
		p.cursor = max(p.cursor-1, 0)
	case tea.KeyDown:
		p.cursor = min(p.cursor+1, len(p.presets)-1)
	case tea.KeyEnter:
		period := p.presets[p.cursor]

		switch period {
		case PeriodCustom:
			p.custom = true
			p.focus = 0
			p.inputs[0].Focus()
			p.inputs[1].Blur()

			return p, textinput.Blink
		case PeriodAllTime:
			return p, selectPeriod(PeriodSelectedMsg{Period: period, All: true})
		}

		start, end := periodRange(period, time.Now())

		return p, selectPeriod(PeriodSelectedMsg{Period: period, Start: start, End: end})
	}

	return p, nil
}

func (p PeriodPicker) toggleFocus() (PeriodPicker, tea.Cmd) {
	p.inputs[p.focus].Blur()
	p.focus = 1 - p.focus
	p.inputs[p.focus].Focus()

	return p, textinput.Blink
}

func (p PeriodPicker) submitCustom() (PeriodPicker, tea.Cmd) {
	start, end, err := parseRange(p.inputs[0].Value(), p.inputs[1].Value())
	if err != nil {
		p.err = err
		return p, nil
	}

	p.err = nil

	return p, selectPeriod(PeriodSelectedMsg{Period: PeriodCustom, Start: start, End: end})
}

func selectPeriod(msg PeriodSelectedMsg) tea.Cmd {
	return func() tea.Msg { return msg }
}

func (p PeriodPicker) View() string {
	var b strings.Builder

	if p.custom {
		fmt.Fprintf(&b, "Custom range:\n\n%s\n%s\n\n(Enter to confirm, Tab to switch, Esc to go back)",
			p.inputs[0].View(), p.inputs[1].View())
	} else {
		b.WriteString("Period:\n\n")

		for i, period := range p.presets {
			cursor := " "
			if i == p.cursor {
				cursor = ">"
			}

			fmt.Fprintf(&b, "%s %s\n", cursor, period)
		}

		b.WriteString("\n(Enter to select, Esc to go back)")
	}

	if p.err != nil {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render("\n\nError: " + p.err.Error()))
	}

	return b.String()
}

// IsSelecting reports whether the preset list is showing.
func (p PeriodPicker) IsSelecting() bool {
	return !p.custom
}

func (p *PeriodPicker) Reset() {
	p.cursor = 0
	p.custom = false
	p.err = nil

	for i := range p.inputs {
		p.inputs[i].SetValue("")
		p.inputs[i].Blur()
	}
}
