package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/billbook/internal/commodity"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCommodity(s scanner) (*commodity.Commodity, error) {
	var c commodity.Commodity

	if err := s.Scan(
		&c.ID, &c.Name, &c.SKU, &c.Unit, &c.UnitPrice, &c.TaxRatePercent, &c.StockQuantity,
		&c.CreatedAt, &c.UpdatedAt, &c.DeletedAt,
	); err != nil {
		return nil, err
	}

	return &c, nil
}

const selectCommodityColumns = `
	id, name, sku, unit, unit_price, tax_rate_percent, stock_quantity,
	created_at, updated_at, deleted_at
`

func (s *Store) CreateCommodity(ctx context.Context, c *commodity.Commodity) error {
	query := `
		INSERT INTO commodities (name, sku, unit, unit_price, tax_rate_percent, stock_quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		c.Name,
		c.SKU,
		c.Unit,
		c.UnitPrice,
		c.TaxRatePercent,
		c.StockQuantity,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating commodity: %w", err)
	}

	return nil
}

func (s *Store) GetCommodity(ctx context.Context, id uuid.UUID) (*commodity.Commodity, error) {
	query := `SELECT ` + selectCommodityColumns + ` FROM commodities WHERE id = $1 AND deleted_at IS NULL`

	c, err := scanCommodity(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, commodity.ErrNotFound
		}

		return nil, fmt.Errorf("getting commodity: %w", err)
	}

	return c, nil
}

func (s *Store) ListCommodities(ctx context.Context, filter commodity.ListFilter) ([]*commodity.Commodity, error) {
	query := `SELECT ` + selectCommodityColumns + ` FROM commodities WHERE deleted_at IS NULL`

	var args []any

	if filter.Search != nil {
		query += " AND (name ILIKE $1 OR sku ILIKE $1)"

		args = append(args, "%"+*filter.Search+"%")
	}

	query += " ORDER BY name ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing commodities: %w", err)
	}
	defer rows.Close()

	var commodities []*commodity.Commodity

	for rows.Next() {
		c, err := scanCommodity(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning commodity: %w", err)
		}

		commodities = append(commodities, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating commodity rows: %w", err)
	}

	return commodities, nil
}

func (s *Store) UpdateCommodity(ctx context.Context, c *commodity.Commodity) error {
	query := `
		UPDATE commodities
		SET name = $1, sku = $2, unit = $3, unit_price = $4, tax_rate_percent = $5, stock_quantity = $6, updated_at = NOW()
		WHERE id = $7 AND deleted_at IS NULL
		RETURNING updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		c.Name,
		c.SKU,
		c.Unit,
		c.UnitPrice,
		c.TaxRatePercent,
		c.StockQuantity,
		c.ID,
	).Scan(&c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return commodity.ErrNotFound
		}

		return fmt.Errorf("updating commodity: %w", err)
	}

	return nil
}

func (s *Store) DeleteCommodity(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE commodities
		SET deleted_at = NOW()
		WHERE id = $1
	`

	_, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting commodity: %w", err)
	}

	return nil
}
