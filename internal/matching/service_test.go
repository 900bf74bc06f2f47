package matching_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/billbook/internal/expense"
	"github.com/MrJamesThe3rd/billbook/internal/matching"
)

func TestService_Learn(t *testing.T) {
	type args struct {
		pattern    string
		suggestion matching.Suggestion
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m *matching.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "NormalizesInput",
			args: args{pattern: " UBER ", suggestion: matching.Suggestion{Description: "Uber ride", Category: " Travel"}},
			setupMock: func(m *matching.MockRepository) {
				m.EXPECT().CreateMapping(gomock.Any(), "UBER", matching.Suggestion{Description: "Uber ride", Category: "travel"}).Return(nil)
			},
		},
		{
			name:    "MissingPattern",
			args:    args{pattern: "  ", suggestion: matching.Suggestion{Description: "x"}},
			wantErr: matching.ErrInvalidMapping,
		},
		{
			name:    "MissingDescription",
			args:    args{pattern: "UBER"},
			wantErr: matching.ErrInvalidMapping,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := matching.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			err := matching.NewService(repo).Learn(context.Background(), tt.args.pattern, tt.args.suggestion)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestService_Apply(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := matching.NewMockRepository(ctrl)
	repo.EXPECT().FindMatch(gomock.Any(), "UBER *TRIP").Return(&matching.Suggestion{Description: "Uber", Category: "travel"}, nil)
	repo.EXPECT().FindMatch(gomock.Any(), "PAPELARIA").Return(&matching.Suggestion{Description: "Stationery", Category: "office"}, nil)
	repo.EXPECT().FindMatch(gomock.Any(), "UNKNOWN").Return(nil, nil)

	params := []expense.CreateParams{
		{RawDescription: "UBER *TRIP", Description: "UBER *TRIP"},
		{RawDescription: "PAPELARIA", Description: "PAPELARIA", Category: "supplies"},
		{RawDescription: "UNKNOWN", Description: "UNKNOWN"},
	}

	require.NoError(t, matching.NewService(repo).Apply(context.Background(), params))

	assert.Equal(t, "Uber", params[0].Description)
	assert.Equal(t, "travel", params[0].Category)
	assert.Equal(t, "Stationery", params[1].Description)
	assert.Equal(t, "supplies", params[1].Category)
	assert.Equal(t, "UNKNOWN", params[2].Description)
	assert.Empty(t, params[2].Category)
}

func TestService_Apply_RepoError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := matching.NewMockRepository(ctrl)
	repo.EXPECT().FindMatch(gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))

	err := matching.NewService(repo).Apply(context.Background(), []expense.CreateParams{{RawDescription: "X"}})

	assert.ErrorContains(t, err, "db down")
}
