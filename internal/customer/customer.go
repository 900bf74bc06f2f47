package customer

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound     = errors.New("customer not found")
	ErrNameRequired = errors.New("customer name is required")
)

// Customer is the party quotations and invoices are addressed to.
type Customer struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Phone     string
	Address   string
	TaxID     string
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
}
