// Package cgd reads Caixa Geral de Depósitos CSV exports.
package cgd

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	enc "github.com/MrJamesThe3rd/billbook/internal/encoding"
	"github.com/MrJamesThe3rd/billbook/internal/expense"
)

var ErrUnknownFormat = errors.New("no matching CGD format found: expected columns for conta, extrato or cartão")

const dateLayout = "02-01-2006"

// Parser turns the debit rows of a CGD statement into expenses. Credits are
// skipped: money coming in is tracked as invoice payments instead.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]expense.CreateParams, error) {
	utf8r, charset, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	profile, cols, headerIdx := detectProfile(rows)
	if profile == nil {
		return nil, ErrUnknownFormat
	}

	expenses, credits, err := parseRows(profile, cols, rows[headerIdx+1:], headerIdx+1)
	if err != nil {
		return nil, err
	}

	slog.Debug("parsed statement",
		"profile", profile.Name,
		"charset", charset,
		"expenses", len(expenses),
		"credits_skipped", credits,
	)

	return expenses, nil
}

type colIndex map[string]int

// detectProfile finds the first row that carries every column of a known profile.
func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex, len(row))

		for i, cell := range row {
			if name := strings.TrimSpace(cell); name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if cols.hasAll(profiles[i].requiredCols()) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func (c colIndex) hasAll(names []string) bool {
	for _, name := range names {
		if _, ok := c[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows returns the debit rows as expenses and the number of credit rows skipped.
// headerLine is the 1-based line of the header, used for error messages.
func parseRows(p *Profile, cols colIndex, rows [][]string, headerLine int) ([]expense.CreateParams, int, error) {
	var (
		expenses []expense.CreateParams
		credits  int
	)

	for i, row := range rows {
		rowNum := headerLine + i + 1

		date, err := time.Parse(dateLayout, cellValue(row, cols[p.DateCol]))
		if err != nil {
			continue
		}

		desc := cellValue(row, cols[p.DescCol])
		if desc == "" {
			return nil, 0, fmt.Errorf("row %d: missing description", rowNum)
		}

		debit, ok := movement(p, cols, row)
		if !ok {
			continue
		}

		if !debit.IsPositive() {
			credits++
			continue
		}

		params := expense.CreateParams{
			Amount:         debit,
			Description:    desc,
			RawDescription: desc,
			Method:         p.Method,
			Date:           date,
		}

		if idx, ok := cols[p.RefCol]; ok && p.RefCol != "" {
			params.Reference = excelText(cellValue(row, idx))
		}

		expenses = append(expenses, params)
	}

	return expenses, credits, nil
}

// movement returns the row's amount signed as a debit: positive money out, negative money in.
func movement(p *Profile, cols colIndex, row []string) (decimal.Decimal, bool) {
	if p.AmountMode == amountSingle {
		amount, ok := amountAt(row, cols[p.AmountCol])
		return amount.Neg(), ok
	}

	if amount, ok := amountAt(row, cols[p.DebitCol]); ok {
		return amount.Abs(), true
	}

	if amount, ok := amountAt(row, cols[p.CreditCol]); ok {
		return amount.Abs().Neg(), true
	}

	return decimal.Zero, false
}

func amountAt(row []string, idx int) (decimal.Decimal, bool) {
	s := cellValue(row, idx)
	if s == "" {
		return decimal.Zero, false
	}

	amount, err := parseEuropeanAmount(s)
	if err != nil || amount.IsZero() {
		return decimal.Zero, false
	}

	return amount, true
}

// excelText unwraps cells exported as Excel formulas, such as ="0003", to their text.
func excelText(s string) string {
	if rest, ok := strings.CutPrefix(s, "="); ok {
		return strings.Trim(rest, `"`)
	}

	return s
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
