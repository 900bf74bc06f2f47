package expense

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/billbook/internal/ledger"
)

var (
	ErrNotFound      = errors.New("expense not found")
	ErrInvalidAmount = errors.New("expense amount must be positive")
)

// Uncategorized is reported for expenses without a category.
const Uncategorized = "uncategorized"

// Expense is money spent by the business.
type Expense struct {
	ID             uuid.UUID
	Amount         decimal.Decimal
	Description    string
	RawDescription string
	Category       string
	Vendor         string
	Method         ledger.Method
	Reference      string
	Date           time.Time
	CreatedAt      time.Time
	UpdatedAt      *time.Time
	DeletedAt      *time.Time
}
