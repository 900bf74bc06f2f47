package expense

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/billbook/internal/ledger"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=expense
type Repository interface {
	CreateExpense(ctx context.Context, e *Expense) error
	GetExpense(ctx context.Context, id uuid.UUID) (*Expense, error)
	UpdateExpense(ctx context.Context, e *Expense) error
	ListExpenses(ctx context.Context, filter ListFilter) ([]*Expense, error)
	DeleteExpense(ctx context.Context, id uuid.UUID) error

	BeginImport(ctx context.Context, minDate, maxDate time.Time) (ImportTx, error)
}

// ImportTx holds an import lock on a date range until Commit or Rollback.
type ImportTx interface {
	FindDuplicates(ctx context.Context, params []CreateParams) ([]*Expense, error)
	CreateExpenses(ctx context.Context, expenses []*Expense) error
	Commit() error
	Rollback() error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Amount         decimal.Decimal
	Description    string
	RawDescription string
	Category       string
	Vendor         string
	Method         ledger.Method
	Reference      string
	Date           time.Time
}

type UpdateParams struct {
	Amount      *decimal.Decimal
	Description *string
	Category    *string
	Vendor      *string
	Method      *ledger.Method
	Reference   *string
	Date        *time.Time
}

type ListFilter struct {
	Category  *string
	StartDate *time.Time
	EndDate   *time.Time
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Expense, error) {
	if err := validate(params.Amount, params.Method); err != nil {
		return nil, err
	}

	e := newExpense(params)
	if err := s.repo.CreateExpense(ctx, e); err != nil {
		return nil, fmt.Errorf("create expense: %w", err)
	}

	return e, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Expense, error) {
	return s.repo.GetExpense(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Expense, error) {
	return s.repo.ListExpenses(ctx, filter)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteExpense(ctx, id)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*Expense, error) {
	e, err := s.repo.GetExpense(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Amount != nil {
		e.Amount = *params.Amount
	}

	if params.Description != nil {
		e.Description = *params.Description
	}

	if params.Category != nil {
		e.Category = normalizeCategory(*params.Category)
	}

	if params.Vendor != nil {
		e.Vendor = *params.Vendor
	}

	if params.Method != nil {
		e.Method = *params.Method
	}

	if params.Reference != nil {
		e.Reference = *params.Reference
	}

	if params.Date != nil {
		e.Date = *params.Date
	}

	if err := validate(e.Amount, e.Method); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateExpense(ctx, e); err != nil {
		return nil, fmt.Errorf("update expense: %w", err)
	}

	return e, nil
}

type CategoryTotal struct {
	Category string
	Count    int
	Total    decimal.Decimal
}

// Summary groups expenses by category. Categories are sorted by descending total.
type Summary struct {
	Categories []CategoryTotal
	Count      int
	Total      decimal.Decimal
}

func (s *Service) Summary(ctx context.Context, filter ListFilter) (*Summary, error) {
	expenses, err := s.repo.ListExpenses(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}

	byCategory := make(map[string]*CategoryTotal)
	summary := &Summary{}

	for _, e := range expenses {
		category := cmp.Or(e.Category, Uncategorized)

		ct, ok := byCategory[category]
		if !ok {
			ct = &CategoryTotal{Category: category}
			byCategory[category] = ct
		}

		ct.Count++
		ct.Total = ct.Total.Add(e.Amount)

		summary.Count++
		summary.Total = summary.Total.Add(e.Amount)
	}

	for _, ct := range byCategory {
		summary.Categories = append(summary.Categories, *ct)
	}

	slices.SortFunc(summary.Categories, func(a, b CategoryTotal) int {
		if c := b.Total.Cmp(a.Total); c != 0 {
			return c
		}

		return strings.Compare(a.Category, b.Category)
	})

	return summary, nil
}

type ImportResult struct {
	Imported  []*Expense
	New       []CreateParams
	Conflicts []Conflict
}

type Conflict struct {
	Incoming CreateParams
	Existing *Expense
}

// dupKey identifies a bank movement. Amounts compare at cent precision.
type dupKey struct {
	Date           string
	Amount         string
	RawDescription string
}

func keyOf(date time.Time, amount decimal.Decimal, raw string) dupKey {
	return dupKey{
		Date:           date.Format(time.DateOnly),
		Amount:         ledger.Format(amount),
		RawDescription: raw,
	}
}

// ImportBatch inserts params unless some of them already exist. When duplicates are
// found nothing is written and the caller gets the conflicts to resolve.
func (s *Service) ImportBatch(ctx context.Context, params []CreateParams) (*ImportResult, error) {
	if len(params) == 0 {
		return &ImportResult{}, nil
	}

	minDate, maxDate := dateRange(params)

	itx, err := s.repo.BeginImport(ctx, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer itx.Rollback()

	duplicates, err := itx.FindDuplicates(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("find duplicates: %w", err)
	}

	lookup := make(map[dupKey]*Expense, len(duplicates))
	for _, d := range duplicates {
		lookup[keyOf(d.Date, d.Amount, d.RawDescription)] = d
	}

	var (
		newParams []CreateParams
		conflicts []Conflict
	)

	for _, p := range params {
		if existing, found := lookup[keyOf(p.Date, p.Amount, p.RawDescription)]; found {
			conflicts = append(conflicts, Conflict{Incoming: p, Existing: existing})
			continue
		}

		newParams = append(newParams, p)
	}

	if len(conflicts) > 0 {
		return &ImportResult{New: newParams, Conflicts: conflicts}, nil
	}

	expenses := paramsToExpenses(newParams)
	if err := itx.CreateExpenses(ctx, expenses); err != nil {
		return nil, fmt.Errorf("create expenses: %w", err)
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	return &ImportResult{Imported: expenses}, nil
}

// CreateBatch inserts params unconditionally, typically after conflicts were reviewed.
func (s *Service) CreateBatch(ctx context.Context, params []CreateParams) ([]*Expense, error) {
	if len(params) == 0 {
		return nil, nil
	}

	for i, p := range params {
		if err := validate(p.Amount, p.Method); err != nil {
			return nil, fmt.Errorf("expense %d: %w", i, err)
		}
	}

	minDate, maxDate := dateRange(params)

	itx, err := s.repo.BeginImport(ctx, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer itx.Rollback()

	expenses := paramsToExpenses(params)
	if err := itx.CreateExpenses(ctx, expenses); err != nil {
		return nil, fmt.Errorf("create expenses: %w", err)
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	return expenses, nil
}

func validate(amount decimal.Decimal, method ledger.Method) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, amount)
	}

	if method != "" && !method.Valid() {
		return fmt.Errorf("%w: %q", ledger.ErrInvalidMethod, method)
	}

	return nil
}

func normalizeCategory(c string) string {
	return strings.ToLower(strings.TrimSpace(c))
}

func newExpense(p CreateParams) *Expense {
	return &Expense{
		Amount:         p.Amount,
		Description:    p.Description,
		RawDescription: p.RawDescription,
		Category:       normalizeCategory(p.Category),
		Vendor:         p.Vendor,
		Method:         p.Method,
		Reference:      p.Reference,
		Date:           p.Date,
	}
}

func dateRange(params []CreateParams) (time.Time, time.Time) {
	minDate := params[0].Date
	maxDate := params[0].Date

	for _, p := range params[1:] {
		if p.Date.Before(minDate) {
			minDate = p.Date
		}

		if p.Date.After(maxDate) {
			maxDate = p.Date
		}
	}

	return minDate, maxDate
}

func paramsToExpenses(params []CreateParams) []*Expense {
	expenses := make([]*Expense, len(params))
	for i, p := range params {
		expenses[i] = newExpense(p)
	}

	return expenses
}
