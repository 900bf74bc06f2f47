package document_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/billbook/internal/document"
	documenthttp "github.com/MrJamesThe3rd/billbook/internal/http/document"
	"github.com/MrJamesThe3rd/billbook/internal/ledger"
)

func newRouter(repo document.Repository, kind document.Kind) http.Handler {
	svc := document.NewService(repo, nil, decimal.NewFromInt(ledger.DefaultTaxRatePercent))

	r := chi.NewRouter()
	documenthttp.NewHandler(svc, kind).Routes(r)

	return r
}

func invoice(status document.Status, paid ...string) *document.Document {
	doc := &document.Document{
		ID:     uuid.New(),
		Kind:   document.KindInvoice,
		Number: "INV-00001",
		Status: status,
		Items: []ledger.LineItem{
			ledger.NewLineItem("Website", decimal.RequireFromString("1"), decimal.RequireFromString("5000")),
			ledger.NewLineItem("Hosting", decimal.RequireFromString("1"), decimal.RequireFromString("2000")),
		},
	}
	doc.Recalculate()

	for _, p := range paid {
		doc.Payments = append(doc.Payments, ledger.Payment{ID: uuid.New(), Amount: decimal.RequireFromString(p), Method: ledger.MethodCash})
	}

	return doc
}

func do(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}

	return rec, resp
}

func TestHandler_Create(t *testing.T) {
	type testCase struct {
		name       string
		body       string
		setupMock  func(m *document.MockRepository)
		wantStatus int
		check      func(t *testing.T, resp map[string]any)
	}

	tests := []testCase{
		{
			name: "Success",
			body: `{"customer_id":"` + uuid.NewString() + `","items":[{"description":"Consulting","quantity":1,"unit_price":"5000","tax_rate_percent":18}]}`,
			setupMock: func(m *document.MockRepository) {
				m.EXPECT().
					CreateDocument(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, doc *document.Document) error {
						doc.ID = uuid.New()
						doc.Number = "INV-00001"
						return nil
					})
			},
			wantStatus: http.StatusCreated,
			check: func(t *testing.T, resp map[string]any) {
				assert.Equal(t, "INV-00001", resp["number"])
				assert.Equal(t, "draft", resp["status"])
				assert.Equal(t, "5000.00", resp["subtotal"])
				assert.Equal(t, "900.00", resp["tax_total"])
				assert.Equal(t, "5900.00", resp["grand_total"])
				assert.Equal(t, "5900.00", resp["balance_due"])
				assert.Equal(t, "unpaid", resp["payment_status"])

				items := resp["items"].([]any)
				require.Len(t, items, 1)
				assert.Equal(t, "900.00", items[0].(map[string]any)["tax_amount"])
			},
		},
		{
			name:       "MissingCustomer",
			body:       `{"items":[{"description":"Consulting","unit_price":"10"}]}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "NegativeQuantity",
			body:       `{"customer_id":"` + uuid.NewString() + `","items":[{"description":"x","quantity":1,"unit_price":"10"},{"description":"y","quantity":-2,"unit_price":"10"}]}`,
			wantStatus: http.StatusBadRequest,
			check: func(t *testing.T, resp map[string]any) {
				details := resp["details"].([]any)
				require.Len(t, details, 1)
				assert.Equal(t, "items[1].quantity", details[0].(map[string]any)["field"])
			},
		},
		{
			name:       "NoItems",
			body:       `{"customer_id":"` + uuid.NewString() + `","items":[]}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "MalformedAmount",
			body:       `{"customer_id":"` + uuid.NewString() + `","items":[{"description":"x","unit_price":"ten"}]}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := document.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			rec, resp := do(t, newRouter(repo, document.KindInvoice), http.MethodPost, "/", tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.check != nil {
				tt.check(t, resp)
			}
		})
	}
}

func TestHandler_Get(t *testing.T) {
	t.Run("WrongKind", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		doc := invoice(document.StatusDraft)
		doc.Kind = document.KindQuotation

		repo := document.NewMockRepository(ctrl)
		repo.EXPECT().GetDocument(gomock.Any(), doc.ID).Return(doc, nil)

		rec, _ := do(t, newRouter(repo, document.KindInvoice), http.MethodGet, "/"+doc.ID.String(), "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("NotFound", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		id := uuid.New()

		repo := document.NewMockRepository(ctrl)
		repo.EXPECT().GetDocument(gomock.Any(), id).Return(nil, document.ErrNotFound)

		rec, _ := do(t, newRouter(repo, document.KindInvoice), http.MethodGet, "/"+id.String(), "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("InvalidID", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		rec, _ := do(t, newRouter(document.NewMockRepository(ctrl), document.KindInvoice), http.MethodGet, "/nope", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandler_Update(t *testing.T) {
	type args struct {
		method string
		body   string
	}

	type testCase struct {
		name      string
		doc       *document.Document
		args      args
		committed bool
		wantCode  int
	}

	tests := []testCase{
		{
			name:      "PutDraft",
			doc:       invoice(document.StatusDraft),
			args:      args{method: http.MethodPut, body: `{"notes":"net 30"}`},
			committed: true,
			wantCode:  http.StatusOK,
		},
		{
			name:      "PatchDraft",
			doc:       invoice(document.StatusDraft),
			args:      args{method: http.MethodPatch, body: `{"notes":"net 30"}`},
			committed: true,
			wantCode:  http.StatusOK,
		},
		{
			name:     "PutSentInvoice",
			doc:      invoice(document.StatusSent),
			args:     args{method: http.MethodPut, body: `{"notes":"net 30"}`},
			wantCode: http.StatusConflict,
		},
		{
			name:     "PatchSentInvoice",
			doc:      invoice(document.StatusSent),
			args:     args{method: http.MethodPatch, body: `{"notes":"net 30"}`},
			wantCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := document.NewMockRepository(ctrl)
			tx := document.NewMockDocumentTx(ctrl)

			repo.EXPECT().GetDocument(gomock.Any(), tt.doc.ID).Return(tt.doc, nil)
			repo.EXPECT().BeginTx(gomock.Any()).Return(tx, nil)
			tx.EXPECT().LockDocument(gomock.Any(), tt.doc.ID).Return(tt.doc, nil)
			tx.EXPECT().Rollback().Return(nil)

			if tt.committed {
				tx.EXPECT().UpdateDocument(gomock.Any(), tt.doc).Return(nil)
				tx.EXPECT().Commit().Return(nil)
			}

			rec, resp := do(t, newRouter(repo, document.KindInvoice), tt.args.method, "/"+tt.doc.ID.String(), tt.args.body)

			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())

			if tt.committed {
				assert.Equal(t, "net 30", resp["notes"])
			}
		})
	}
}

func TestHandler_RecordPayment(t *testing.T) {
	type testCase struct {
		name          string
		doc           *document.Document
		body          string
		expectPayment bool
		wantStatus    int
		wantCode      string
		wantBalance   string
		wantDocStatus string
		wantPayStatus string
	}

	tests := []testCase{
		{
			name:          "Partial",
			doc:           invoice(document.StatusSent, "3000"),
			body:          `{"amount":"2000","method":"upi"}`,
			expectPayment: true,
			wantStatus:    http.StatusCreated,
			wantBalance:   "3260.00",
			wantDocStatus: "partial_payment",
			wantPayStatus: "partially_paid",
		},
		{
			name:          "Settles",
			doc:           invoice(document.StatusPartialPayment, "3000", "2000"),
			body:          `{"amount":3260,"method":"bank_transfer","reference":"TX-9"}`,
			expectPayment: true,
			wantStatus:    http.StatusCreated,
			wantBalance:   "0.00",
			wantDocStatus: "paid",
			wantPayStatus: "paid",
		},
		{
			name:        "ExceedsBalance",
			doc:         invoice(document.StatusPartialPayment, "3000", "2000"),
			body:        `{"amount":"3300","method":"cash"}`,
			wantStatus:  http.StatusUnprocessableEntity,
			wantCode:    "exceeds_balance",
			wantBalance: "3260.00",
		},
		{
			name:        "ZeroAmount",
			doc:         invoice(document.StatusSent),
			body:        `{"amount":0,"method":"cash"}`,
			wantStatus:  http.StatusUnprocessableEntity,
			wantCode:    "invalid_amount",
			wantBalance: "8260.00",
		},
		{
			name:        "FractionOfCent",
			doc:         invoice(document.StatusSent),
			body:        `{"amount":"0.00001","method":"cash"}`,
			wantStatus:  http.StatusUnprocessableEntity,
			wantCode:    "invalid_amount",
			wantBalance: "8260.00",
		},
		{
			name:       "UnknownMethod",
			doc:        invoice(document.StatusSent),
			body:       `{"amount":"10","method":"barter"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Draft",
			doc:        invoice(document.StatusDraft),
			body:       `{"amount":"10","method":"cash"}`,
			wantStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := document.NewMockRepository(ctrl)
			tx := document.NewMockDocumentTx(ctrl)

			repo.EXPECT().GetDocument(gomock.Any(), tt.doc.ID).Return(tt.doc, nil)
			repo.EXPECT().BeginTx(gomock.Any()).Return(tx, nil)
			tx.EXPECT().LockDocument(gomock.Any(), tt.doc.ID).Return(tt.doc, nil)
			tx.EXPECT().Rollback().Return(nil)

			if tt.expectPayment {
				tx.EXPECT().AddPayment(gomock.Any(), tt.doc.ID, gomock.Any()).Return(nil)
				tx.EXPECT().UpdateDocument(gomock.Any(), tt.doc).Return(nil)
				tx.EXPECT().Commit().Return(nil)
			}

			rec, resp := do(t, newRouter(repo, document.KindInvoice), http.MethodPost, "/"+tt.doc.ID.String()+"/payments", tt.body)

			require.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, resp["code"])
			}

			if tt.wantBalance != "" {
				assert.Equal(t, tt.wantBalance, resp["balance_due"])
			}

			if tt.wantDocStatus != "" {
				assert.Equal(t, tt.wantDocStatus, resp["status"])
				assert.Equal(t, tt.wantPayStatus, resp["payment_status"])
			}
		})
	}
}

func TestHandler_ListPayments(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	doc := invoice(document.StatusPartialPayment, "3000", "2000")

	repo := document.NewMockRepository(ctrl)
	repo.EXPECT().GetDocument(gomock.Any(), doc.ID).Return(doc, nil)

	rec, resp := do(t, newRouter(repo, document.KindInvoice), http.MethodGet, "/"+doc.ID.String()+"/payments", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, resp["payments"], 2)
	assert.Equal(t, "8260.00", resp["amount_due"])
	assert.Equal(t, "5000.00", resp["amount_paid"])
	assert.Equal(t, "3260.00", resp["balance_due"])
	assert.Equal(t, "partially_paid", resp["payment_status"])
}

func TestHandler_Actions(t *testing.T) {
	quotation := func(status document.Status) *document.Document {
		doc := invoice(status)
		doc.Kind = document.KindQuotation
		doc.Number = "QUO-00001"

		return doc
	}

	t.Run("Send", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		doc := quotation(document.StatusDraft)

		repo := document.NewMockRepository(ctrl)
		tx := document.NewMockDocumentTx(ctrl)

		repo.EXPECT().GetDocument(gomock.Any(), doc.ID).Return(doc, nil)
		repo.EXPECT().BeginTx(gomock.Any()).Return(tx, nil)
		tx.EXPECT().LockDocument(gomock.Any(), doc.ID).Return(doc, nil)
		tx.EXPECT().UpdateDocument(gomock.Any(), doc).Return(nil)
		tx.EXPECT().Commit().Return(nil)
		tx.EXPECT().Rollback().Return(nil)

		rec, resp := do(t, newRouter(repo, document.KindQuotation), http.MethodPost, "/"+doc.ID.String()+"/send", "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "sent", resp["status"])
	})

	t.Run("AcceptDraftConflicts", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		doc := quotation(document.StatusDraft)

		repo := document.NewMockRepository(ctrl)
		tx := document.NewMockDocumentTx(ctrl)

		repo.EXPECT().GetDocument(gomock.Any(), doc.ID).Return(doc, nil)
		repo.EXPECT().BeginTx(gomock.Any()).Return(tx, nil)
		tx.EXPECT().LockDocument(gomock.Any(), doc.ID).Return(doc, nil)
		tx.EXPECT().Rollback().Return(nil)

		rec, _ := do(t, newRouter(repo, document.KindQuotation), http.MethodPost, "/"+doc.ID.String()+"/accept", "")

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("Convert", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		doc := quotation(document.StatusAccepted)

		repo := document.NewMockRepository(ctrl)
		tx := document.NewMockDocumentTx(ctrl)

		repo.EXPECT().GetDocument(gomock.Any(), doc.ID).Return(doc, nil)
		repo.EXPECT().BeginTx(gomock.Any()).Return(tx, nil)
		tx.EXPECT().LockDocument(gomock.Any(), doc.ID).Return(doc, nil)
		tx.EXPECT().
			CreateDocument(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, inv *document.Document) error {
				inv.ID = uuid.New()
				inv.Number = "INV-00002"
				return nil
			})
		tx.EXPECT().UpdateDocument(gomock.Any(), doc).Return(nil)
		tx.EXPECT().Commit().Return(nil)
		tx.EXPECT().Rollback().Return(nil)

		rec, resp := do(t, newRouter(repo, document.KindQuotation), http.MethodPost, "/"+doc.ID.String()+"/convert", "")

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "invoice", resp["kind"])
		assert.Equal(t, "draft", resp["status"])
		assert.Equal(t, "INV-00002", resp["number"])
		assert.Equal(t, doc.ID.String(), resp["source_quotation_id"])
		assert.Equal(t, "8260.00", resp["grand_total"])
	})

	t.Run("InvoiceHasNoConvertRoute", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		rec := httptest.NewRecorder()
		newRouter(document.NewMockRepository(ctrl), document.KindInvoice).
			ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/"+uuid.NewString()+"/convert", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
