package expense_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/billbook/internal/expense"
	"github.com/MrJamesThe3rd/billbook/internal/ledger"
)

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestService_Create(t *testing.T) {
	type args struct {
		params expense.CreateParams
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m *expense.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Success",
			args: args{
				params: expense.CreateParams{
					Amount:      amount("12.50"),
					Description: "Printer paper",
					Category:    " Office ",
					Method:      ledger.MethodCard,
					Date:        time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC),
				},
			},
			setupMock: func(m *expense.MockRepository) {
				m.EXPECT().
					CreateExpense(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, e *expense.Expense) error {
						e.ID = uuid.New()
						return nil
					})
			},
		},
		{
			name:    "ZeroAmount",
			args:    args{params: expense.CreateParams{Amount: decimal.Zero}},
			wantErr: expense.ErrInvalidAmount,
		},
		{
			name:    "UnknownMethod",
			args:    args{params: expense.CreateParams{Amount: amount("1"), Method: "crypto"}},
			wantErr: ledger.ErrInvalidMethod,
		},
		{
			name: "RepoError",
			args: args{params: expense.CreateParams{Amount: amount("5")}},
			setupMock: func(m *expense.MockRepository) {
				m.EXPECT().CreateExpense(gomock.Any(), gomock.Any()).Return(errors.New("db error"))
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := expense.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := expense.NewService(repo)
			got, err := svc.Create(context.Background(), tt.args.params)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorContains(t, err, tt.wantErr.Error())
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, got.ID)
			assert.Equal(t, "office", got.Category)
		})
	}
}

func TestService_List(t *testing.T) {
	type args struct {
		filter expense.ListFilter
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m *expense.MockRepository)
		wantLen   int
		wantErr   bool
	}

	category := "travel"

	tests := []testCase{
		{
			name: "Success",
			args: args{filter: expense.ListFilter{Category: &category}},
			setupMock: func(m *expense.MockRepository) {
				m.EXPECT().
					ListExpenses(gomock.Any(), expense.ListFilter{Category: &category}).
					Return([]*expense.Expense{{ID: uuid.New()}, {ID: uuid.New()}}, nil)
			},
			wantLen: 2,
		},
		{
			name: "Error",
			args: args{filter: expense.ListFilter{}},
			setupMock: func(m *expense.MockRepository) {
				m.EXPECT().
					ListExpenses(gomock.Any(), expense.ListFilter{}).
					Return(nil, errors.New("list error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := expense.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := expense.NewService(repo)
			got, err := svc.List(context.Background(), tt.args.filter)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Len(t, got, tt.wantLen)
		})
	}
}

func TestService_Summary(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := expense.NewMockRepository(ctrl)
	repo.EXPECT().ListExpenses(gomock.Any(), expense.ListFilter{}).Return([]*expense.Expense{
		{Amount: amount("10.10"), Category: "office"},
		{Amount: amount("100"), Category: "travel"},
		{Amount: amount("0.90"), Category: "office"},
		{Amount: amount("3.333")},
	}, nil)

	svc := expense.NewService(repo)
	got, err := svc.Summary(context.Background(), expense.ListFilter{})
	require.NoError(t, err)

	require.Len(t, got.Categories, 3)
	assert.Equal(t, "travel", got.Categories[0].Category)
	assert.Equal(t, "office", got.Categories[1].Category)
	assert.Equal(t, 2, got.Categories[1].Count)
	assert.Equal(t, "11.00", ledger.Format(got.Categories[1].Total))
	assert.Equal(t, expense.Uncategorized, got.Categories[2].Category)
	assert.Equal(t, 4, got.Count)
	assert.Equal(t, "114.33", ledger.Format(got.Total))
}

func TestService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	id := uuid.New()
	existing := &expense.Expense{ID: id, Amount: amount("20"), Category: "office"}

	repo := expense.NewMockRepository(ctrl)
	repo.EXPECT().GetExpense(gomock.Any(), id).Return(existing, nil)
	repo.EXPECT().UpdateExpense(gomock.Any(), existing).Return(nil)

	svc := expense.NewService(repo)
	got, err := svc.Update(context.Background(), id, expense.UpdateParams{Category: new("Travel"), Vendor: new("Rail Co")})

	require.NoError(t, err)
	assert.Equal(t, "travel", got.Category)
	assert.Equal(t, "Rail Co", got.Vendor)
}

func coffeeParams(date time.Time) []expense.CreateParams {
	return []expense.CreateParams{
		{
			Amount:         amount("10.00"),
			Description:    "Coffee",
			RawDescription: "COFFEE SHOP",
			Date:           date,
		},
		{
			Amount:         amount("20.00"),
			Description:    "Lunch",
			RawDescription: "LUNCH PLACE",
			Date:           date,
		},
	}
}

func TestService_ImportBatch_NoConflicts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := expense.NewMockRepository(ctrl)
	itx := expense.NewMockImportTx(ctrl)
	svc := expense.NewService(repo)

	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	params := coffeeParams(date)[:1]

	repo.EXPECT().BeginImport(gomock.Any(), date, date).Return(itx, nil)
	itx.EXPECT().FindDuplicates(gomock.Any(), params).Return(nil, nil)
	itx.EXPECT().CreateExpenses(gomock.Any(), gomock.Any()).Return(nil)
	itx.EXPECT().Commit().Return(nil)
	itx.EXPECT().Rollback().Return(nil)

	result, err := svc.ImportBatch(context.Background(), params)
	require.NoError(t, err)
	assert.Len(t, result.Imported, 1)
	assert.Empty(t, result.Conflicts)
	assert.Empty(t, result.New)
}

func TestService_ImportBatch_WithConflicts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := expense.NewMockRepository(ctrl)
	itx := expense.NewMockImportTx(ctrl)
	svc := expense.NewService(repo)

	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	params := coffeeParams(date)

	existing := &expense.Expense{
		ID:             uuid.New(),
		Amount:         amount("10"),
		RawDescription: "COFFEE SHOP",
		Date:           date,
	}

	repo.EXPECT().BeginImport(gomock.Any(), date, date).Return(itx, nil)
	itx.EXPECT().FindDuplicates(gomock.Any(), params).Return([]*expense.Expense{existing}, nil)
	itx.EXPECT().Rollback().Return(nil)

	result, err := svc.ImportBatch(context.Background(), params)
	require.NoError(t, err)
	assert.Empty(t, result.Imported)
	assert.Len(t, result.New, 1)
	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, params[0], result.Conflicts[0].Incoming)
	assert.Equal(t, existing, result.Conflicts[0].Existing)
}

func TestService_ImportBatch_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := expense.NewService(expense.NewMockRepository(ctrl))

	result, err := svc.ImportBatch(context.Background(), []expense.CreateParams{})
	require.NoError(t, err)
	assert.Empty(t, result.Imported)
	assert.Empty(t, result.Conflicts)
	assert.Empty(t, result.New)
}

func TestService_CreateBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := expense.NewMockRepository(ctrl)
	itx := expense.NewMockImportTx(ctrl)
	svc := expense.NewService(repo)

	first := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	last := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)
	params := coffeeParams(first)
	params[1].Date = last

	repo.EXPECT().BeginImport(gomock.Any(), first, last).Return(itx, nil)
	itx.EXPECT().CreateExpenses(gomock.Any(), gomock.Len(2)).Return(nil)
	itx.EXPECT().Commit().Return(nil)
	itx.EXPECT().Rollback().Return(nil)

	got, err := svc.CreateBatch(context.Background(), params)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[0].Amount.Equal(amount("10")))
	assert.Equal(t, "LUNCH PLACE", got[1].RawDescription)
}

func TestService_CreateBatch_RejectsInvalidAmount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := expense.NewService(expense.NewMockRepository(ctrl))

	_, err := svc.CreateBatch(context.Background(), []expense.CreateParams{{Amount: amount("-3")}})
	assert.ErrorIs(t, err, expense.ErrInvalidAmount)
}
