package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidAmount is returned when a payment amount is not positive or has fractions of a cent.
	ErrInvalidAmount = errors.New("payment amount must be a positive number of cents")

	// ErrExceedsBalance is returned when a payment is larger than the balance due.
	ErrExceedsBalance = errors.New("payment exceeds balance due")

	// ErrInvalidMethod is returned when a payment method is not one of Methods.
	ErrInvalidMethod = errors.New("unknown payment method")

	// ErrInvalidLineItem is returned when a line item carries out-of-range values.
	ErrInvalidLineItem = errors.New("invalid line item")

	// ErrInvalidNumber is returned when numeric input cannot be parsed.
	ErrInvalidNumber = errors.New("invalid number")
)

// PaymentError reports a rejected payment together with the balance it was checked against.
type PaymentError struct {
	Amount  decimal.Decimal
	Balance decimal.Decimal
	Err     error
}

func (e *PaymentError) Error() string {
	return fmt.Sprintf("payment of %s rejected: %v (balance due %s)", Format(e.Amount), e.Err, Format(e.Balance))
}

func (e *PaymentError) Unwrap() error {
	return e.Err
}

// LineItemError reports which field of which item failed validation.
// Index is -1 when the item was validated on its own.
type LineItemError struct {
	Index int
	Field string
	Value decimal.Decimal
	Err   error
}

func (e *LineItemError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%v: %s out of range (value: %s)", e.Err, e.Field, e.Value)
	}

	return fmt.Sprintf("%v: item %d: %s out of range (value: %s)", e.Err, e.Index, e.Field, e.Value)
}

func (e *LineItemError) Unwrap() error {
	return e.Err
}
