package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/billbook/internal/matching"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) FindMatch(ctx context.Context, rawDescription string) (*matching.Suggestion, error) {
	query := `
		SELECT preferred_description, category
		FROM description_mappings
		WHERE $1 ILIKE '%' || raw_pattern || '%'
		ORDER BY LENGTH(raw_pattern) DESC, created_at DESC
		LIMIT 1
	`

	var suggestion matching.Suggestion

	err := s.db.QueryRowContext(ctx, query, rawDescription).Scan(&suggestion.Description, &suggestion.Category)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("finding match: %w", err)
	}

	return &suggestion, nil
}

func (s *Store) CreateMapping(ctx context.Context, rawPattern string, suggestion matching.Suggestion) error {
	query := `
		INSERT INTO description_mappings (raw_pattern, preferred_description, category, created_at)
		VALUES ($1, $2, $3, NOW())
	`

	_, err := s.db.ExecContext(ctx, query, rawPattern, suggestion.Description, suggestion.Category)
	if err != nil {
		return fmt.Errorf("creating mapping: %w", err)
	}

	return nil
}
