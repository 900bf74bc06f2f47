package document

import (
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/billbook/internal/ledger"
)

var ErrInvalidTransition = errors.New("invalid status transition")

// Action is an event that moves a document between statuses.
type Action string

const (
	ActionSend          Action = "send"
	ActionAccept        Action = "accept"
	ActionConvert       Action = "convert"
	ActionRecordPayment Action = "record_payment"
)

// TransitionError reports an action that is not allowed from the document's current status.
type TransitionError struct {
	Kind   Kind
	From   Status
	Action Action
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%v: cannot %s a %s %s", ErrInvalidTransition, e.Action, e.From, e.Kind)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

type transitionKey struct {
	kind   Kind
	from   Status
	action Action
}

// transitions maps allowed moves to their target. record_payment targets are
// resolved from the reconciliation and carry an empty target here.
var transitions = map[transitionKey]Status{
	{KindQuotation, StatusDraft, ActionSend}:                 StatusSent,
	{KindQuotation, StatusSent, ActionAccept}:                StatusAccepted,
	{KindQuotation, StatusAccepted, ActionConvert}:           StatusConverted,
	{KindInvoice, StatusDraft, ActionSend}:                   StatusSent,
	{KindInvoice, StatusSent, ActionRecordPayment}:           "",
	{KindInvoice, StatusPartialPayment, ActionRecordPayment}: "",
}

// CanApply reports whether action is allowed from doc's current status.
func CanApply(doc *Document, action Action) error {
	if _, ok := transitions[transitionKey{doc.Kind, doc.Status, action}]; !ok {
		return &TransitionError{Kind: doc.Kind, From: doc.Status, Action: action}
	}

	return nil
}

// Transition validates action against doc's status and moves doc to the resulting status.
// For record_payment the payment must already be appended to doc.Payments.
func Transition(doc *Document, action Action) error {
	if err := CanApply(doc, action); err != nil {
		return err
	}

	next := transitions[transitionKey{doc.Kind, doc.Status, action}]
	if action == ActionRecordPayment {
		next = StatusPartialPayment
		if doc.Reconcile().Status == ledger.StatusPaid {
			next = StatusPaid
		}
	}

	doc.Status = next

	return nil
}
