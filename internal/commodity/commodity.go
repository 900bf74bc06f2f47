// Package commodity is the catalog of goods and services that line items are priced from.
package commodity

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound     = errors.New("commodity not found")
	ErrNameRequired = errors.New("commodity name is required")
	ErrInvalidPrice = errors.New("commodity price must not be negative")
)

type Commodity struct {
	ID             uuid.UUID
	Name           string
	SKU            string
	Unit           string
	UnitPrice      decimal.Decimal
	TaxRatePercent decimal.Decimal
	StockQuantity  decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      *time.Time
	DeletedAt      *time.Time
}
