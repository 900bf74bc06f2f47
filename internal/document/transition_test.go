package document_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/billbook/internal/document"
	"github.com/MrJamesThe3rd/billbook/internal/ledger"
)

func TestTransition(t *testing.T) {
	type testCase struct {
		name    string
		kind    document.Kind
		from    document.Status
		action  document.Action
		want    document.Status
		wantErr bool
	}

	tests := []testCase{
		{name: "SendQuotation", kind: document.KindQuotation, from: document.StatusDraft, action: document.ActionSend, want: document.StatusSent},
		{name: "AcceptQuotation", kind: document.KindQuotation, from: document.StatusSent, action: document.ActionAccept, want: document.StatusAccepted},
		{name: "ConvertQuotation", kind: document.KindQuotation, from: document.StatusAccepted, action: document.ActionConvert, want: document.StatusConverted},
		{name: "SendInvoice", kind: document.KindInvoice, from: document.StatusDraft, action: document.ActionSend, want: document.StatusSent},
		{name: "AcceptDraftQuotation", kind: document.KindQuotation, from: document.StatusDraft, action: document.ActionAccept, wantErr: true},
		{name: "ConvertSentQuotation", kind: document.KindQuotation, from: document.StatusSent, action: document.ActionConvert, wantErr: true},
		{name: "ConvertedIsTerminal", kind: document.KindQuotation, from: document.StatusConverted, action: document.ActionSend, wantErr: true},
		{name: "AcceptInvoice", kind: document.KindInvoice, from: document.StatusSent, action: document.ActionAccept, wantErr: true},
		{name: "ConvertInvoice", kind: document.KindInvoice, from: document.StatusSent, action: document.ActionConvert, wantErr: true},
		{name: "PayDraftInvoice", kind: document.KindInvoice, from: document.StatusDraft, action: document.ActionRecordPayment, wantErr: true},
		{name: "PayPaidInvoice", kind: document.KindInvoice, from: document.StatusPaid, action: document.ActionRecordPayment, wantErr: true},
		{name: "PayQuotation", kind: document.KindQuotation, from: document.StatusSent, action: document.ActionRecordPayment, wantErr: true},
		{name: "ResendInvoice", kind: document.KindInvoice, from: document.StatusSent, action: document.ActionSend, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &document.Document{Kind: tt.kind, Status: tt.from}

			err := document.Transition(doc, tt.action)

			if tt.wantErr {
				require.ErrorIs(t, err, document.ErrInvalidTransition)

				var terr *document.TransitionError
				require.ErrorAs(t, err, &terr)
				assert.Equal(t, tt.from, terr.From)
				assert.Equal(t, tt.action, terr.Action)
				assert.Equal(t, tt.from, doc.Status)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, doc.Status)
		})
	}
}

func TestTransition_RecordPaymentFollowsReconciliation(t *testing.T) {
	newInvoice := func(status document.Status, paid ...string) *document.Document {
		doc := &document.Document{
			Kind:   document.KindInvoice,
			Status: status,
			Items:  []ledger.LineItem{ledger.NewLineItem("Design", decimal.NewFromInt(1), decimal.NewFromInt(5000))},
		}
		doc.Recalculate()

		for _, p := range paid {
			doc.Payments = append(doc.Payments, ledger.Payment{Amount: decimal.RequireFromString(p)})
		}

		return doc
	}

	partial := newInvoice(document.StatusSent, "3000")
	require.NoError(t, document.Transition(partial, document.ActionRecordPayment))
	assert.Equal(t, document.StatusPartialPayment, partial.Status)

	settled := newInvoice(document.StatusPartialPayment, "3000", "2900")
	require.NoError(t, document.Transition(settled, document.ActionRecordPayment))
	assert.Equal(t, document.StatusPaid, settled.Status)

	assert.ErrorIs(t, document.Transition(settled, document.ActionRecordPayment), document.ErrInvalidTransition)
}

func TestDocument_Editable(t *testing.T) {
	editable := map[document.Status]bool{
		document.StatusDraft:          true,
		document.StatusSent:           false,
		document.StatusAccepted:       false,
		document.StatusConverted:      false,
		document.StatusPartialPayment: false,
		document.StatusPaid:           false,
	}

	for status, want := range editable {
		doc := &document.Document{Status: status}
		assert.Equal(t, want, doc.Editable(), status)
	}
}
