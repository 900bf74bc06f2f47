// Package matching learns how raw bank descriptions should be presented and categorized.
package matching

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MrJamesThe3rd/billbook/internal/expense"
)

var ErrInvalidMapping = errors.New("pattern and description are required")

// Suggestion is what a learned mapping proposes for a raw description.
type Suggestion struct {
	Description string
	Category    string
}

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=matching
type Repository interface {
	// FindMatch returns the longest learned pattern contained in rawDescription, or nil.
	FindMatch(ctx context.Context, rawDescription string) (*Suggestion, error)
	CreateMapping(ctx context.Context, rawPattern string, s Suggestion) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Suggest returns nil when nothing was learned for rawDescription.
func (s *Service) Suggest(ctx context.Context, rawDescription string) (*Suggestion, error) {
	return s.repo.FindMatch(ctx, rawDescription)
}

// Learn remembers how descriptions containing rawPattern should be shown and categorized.
func (s *Service) Learn(ctx context.Context, rawPattern string, suggestion Suggestion) error {
	rawPattern = strings.TrimSpace(rawPattern)
	suggestion.Description = strings.TrimSpace(suggestion.Description)
	suggestion.Category = strings.ToLower(strings.TrimSpace(suggestion.Category))

	if rawPattern == "" || suggestion.Description == "" {
		return ErrInvalidMapping
	}

	return s.repo.CreateMapping(ctx, rawPattern, suggestion)
}

// Apply rewrites the description and, when empty, the category of each param from learned mappings.
func (s *Service) Apply(ctx context.Context, params []expense.CreateParams) error {
	for i := range params {
		suggestion, err := s.repo.FindMatch(ctx, params[i].RawDescription)
		if err != nil {
			return fmt.Errorf("match %q: %w", params[i].RawDescription, err)
		}

		if suggestion == nil {
			continue
		}

		params[i].Description = suggestion.Description

		if params[i].Category == "" {
			params[i].Category = suggestion.Category
		}
	}

	return nil
}
