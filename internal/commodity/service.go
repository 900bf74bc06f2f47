package commodity

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/billbook/internal/document"
	"github.com/MrJamesThe3rd/billbook/internal/ledger"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=commodity
type Repository interface {
	CreateCommodity(ctx context.Context, c *Commodity) error
	GetCommodity(ctx context.Context, id uuid.UUID) (*Commodity, error)
	ListCommodities(ctx context.Context, filter ListFilter) ([]*Commodity, error)
	UpdateCommodity(ctx context.Context, c *Commodity) error
	DeleteCommodity(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo           Repository
	defaultTaxRate decimal.Decimal
}

func NewService(repo Repository, defaultTaxRate decimal.Decimal) *Service {
	return &Service{repo: repo, defaultTaxRate: defaultTaxRate}
}

type CreateParams struct {
	Name           string
	SKU            string
	Unit           string
	UnitPrice      decimal.Decimal
	TaxRatePercent *decimal.Decimal
	StockQuantity  decimal.Decimal
}

type UpdateParams struct {
	Name           *string
	SKU            *string
	Unit           *string
	UnitPrice      *decimal.Decimal
	TaxRatePercent *decimal.Decimal
	StockQuantity  *decimal.Decimal
}

type ListFilter struct {
	Search *string
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Commodity, error) {
	c := &Commodity{
		Name:           strings.TrimSpace(params.Name),
		SKU:            params.SKU,
		Unit:           params.Unit,
		UnitPrice:      params.UnitPrice,
		TaxRatePercent: s.defaultTaxRate,
		StockQuantity:  params.StockQuantity,
	}

	if params.TaxRatePercent != nil {
		c.TaxRatePercent = *params.TaxRatePercent
	}

	if err := validate(c); err != nil {
		return nil, err
	}

	if err := s.repo.CreateCommodity(ctx, c); err != nil {
		return nil, fmt.Errorf("create commodity: %w", err)
	}

	return c, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Commodity, error) {
	return s.repo.GetCommodity(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Commodity, error) {
	return s.repo.ListCommodities(ctx, filter)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*Commodity, error) {
	c, err := s.repo.GetCommodity(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		c.Name = strings.TrimSpace(*params.Name)
	}

	if params.SKU != nil {
		c.SKU = *params.SKU
	}

	if params.Unit != nil {
		c.Unit = *params.Unit
	}

	if params.UnitPrice != nil {
		c.UnitPrice = *params.UnitPrice
	}

	if params.TaxRatePercent != nil {
		c.TaxRatePercent = *params.TaxRatePercent
	}

	if params.StockQuantity != nil {
		c.StockQuantity = *params.StockQuantity
	}

	if err := validate(c); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateCommodity(ctx, c); err != nil {
		return nil, fmt.Errorf("update commodity: %w", err)
	}

	return c, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteCommodity(ctx, id)
}

// ItemDefaults implements document.Catalog.
func (s *Service) ItemDefaults(ctx context.Context, id uuid.UUID) (document.ItemDefaults, error) {
	c, err := s.repo.GetCommodity(ctx, id)
	if err != nil {
		return document.ItemDefaults{}, err
	}

	return document.ItemDefaults{
		Description:    c.Name,
		UnitPrice:      c.UnitPrice,
		TaxRatePercent: c.TaxRatePercent,
	}, nil
}

func validate(c *Commodity) error {
	if c.Name == "" {
		return ErrNameRequired
	}

	if c.UnitPrice.IsNegative() {
		return ErrInvalidPrice
	}

	item := ledger.LineItem{
		Quantity:       decimal.NewFromInt(1),
		UnitPrice:      c.UnitPrice,
		TaxRatePercent: c.TaxRatePercent,
	}

	return ledger.ValidateLineItem(item)
}
