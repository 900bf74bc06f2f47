package ledger

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Method is how a payment was made. It is informational only.
type Method string

const (
	MethodCash         Method = "cash"
	MethodBankTransfer Method = "bank_transfer"
	MethodCard         Method = "card"
	MethodUPI          Method = "upi"
	MethodCheque       Method = "cheque"
)

// Methods lists the accepted payment methods in display order.
func Methods() []Method {
	return []Method{MethodCash, MethodBankTransfer, MethodCard, MethodUPI, MethodCheque}
}

func (m Method) Valid() bool {
	return slices.Contains(Methods(), m)
}

// Payment is an amount received against an invoice. Payments are appended, never edited.
type Payment struct {
	ID        uuid.UUID
	Amount    decimal.Decimal
	Method    Method
	Reference string
	Date      time.Time
	CreatedAt time.Time
}

type PaymentParams struct {
	Amount    decimal.Decimal
	Method    Method
	Reference string
	Date      time.Time
}

// PaymentStatus classifies how much of a document has been paid.
type PaymentStatus string

const (
	StatusUnpaid        PaymentStatus = "unpaid"
	StatusPartiallyPaid PaymentStatus = "partially_paid"
	StatusPaid          PaymentStatus = "paid"
)

// ClassifyPaymentStatus reports the status of a document owing amountDue that has received amountPaid.
func ClassifyPaymentStatus(amountDue, amountPaid decimal.Decimal) PaymentStatus {
	if !amountPaid.IsPositive() {
		return StatusUnpaid
	}

	if amountDue.IsPositive() && !amountPaid.LessThan(amountDue) {
		return StatusPaid
	}

	return StatusPartiallyPaid
}

// Account is the reconciliation view of a document: what it owes and what was paid against it.
type Account struct {
	AmountDue decimal.Decimal
	Payments  []Payment
}

func NewAccount(totals Totals, payments []Payment) Account {
	return Account{
		AmountDue: totals.AmountDue(),
		Payments:  payments,
	}
}

func (a Account) AmountPaid() decimal.Decimal {
	var paid decimal.Decimal
	for _, p := range a.Payments {
		paid = paid.Add(p.Amount)
	}

	return paid
}

// BalanceDue never goes below zero.
func (a Account) BalanceDue() decimal.Decimal {
	balance := a.AmountDue.Sub(a.AmountPaid())
	if balance.IsNegative() {
		return decimal.Zero
	}

	return balance
}

func (a Account) Status() PaymentStatus {
	return ClassifyPaymentStatus(a.AmountDue, a.AmountPaid())
}

// Reconciliation is a snapshot of an account's figures.
type Reconciliation struct {
	AmountDue  decimal.Decimal
	AmountPaid decimal.Decimal
	BalanceDue decimal.Decimal
	Status     PaymentStatus
}

func (a Account) Reconcile() Reconciliation {
	paid := a.AmountPaid()

	balance := a.AmountDue.Sub(paid)
	if balance.IsNegative() {
		balance = decimal.Zero
	}

	return Reconciliation{
		AmountDue:  a.AmountDue,
		AmountPaid: paid,
		BalanceDue: balance,
		Status:     ClassifyPaymentStatus(a.AmountDue, paid),
	}
}

// RecordPayment validates params against the current balance and appends the payment.
// The account gets its own copy of the payment slice; the caller's slice is left untouched.
func (a *Account) RecordPayment(params PaymentParams) (Payment, error) {
	balance := a.BalanceDue()

	if !params.Amount.IsPositive() || !params.Amount.Equal(Round(params.Amount)) {
		return Payment{}, &PaymentError{Amount: params.Amount, Balance: balance, Err: ErrInvalidAmount}
	}

	if !params.Method.Valid() {
		return Payment{}, fmt.Errorf("%w: %q", ErrInvalidMethod, params.Method)
	}

	if params.Amount.GreaterThan(balance) {
		return Payment{}, &PaymentError{Amount: params.Amount, Balance: balance, Err: ErrExceedsBalance}
	}

	payment := Payment{
		Amount:    params.Amount,
		Method:    params.Method,
		Reference: params.Reference,
		Date:      params.Date,
	}

	a.Payments = append(slices.Clip(a.Payments), payment)

	return payment, nil
}
