package http_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/billbook/internal/commodity"
	"github.com/MrJamesThe3rd/billbook/internal/customer"
	"github.com/MrJamesThe3rd/billbook/internal/document"
	"github.com/MrJamesThe3rd/billbook/internal/expense"
	"github.com/MrJamesThe3rd/billbook/internal/export"
	billbookhttp "github.com/MrJamesThe3rd/billbook/internal/http"
	commodityhttp "github.com/MrJamesThe3rd/billbook/internal/http/commodity"
	customerhttp "github.com/MrJamesThe3rd/billbook/internal/http/customer"
	documenthttp "github.com/MrJamesThe3rd/billbook/internal/http/document"
	expensehttp "github.com/MrJamesThe3rd/billbook/internal/http/expense"
	exporthttp "github.com/MrJamesThe3rd/billbook/internal/http/export"
	"github.com/MrJamesThe3rd/billbook/internal/http/importcsv"
	matchinghttp "github.com/MrJamesThe3rd/billbook/internal/http/matching"
	"github.com/MrJamesThe3rd/billbook/internal/importer"
	"github.com/MrJamesThe3rd/billbook/internal/ledger"
	"github.com/MrJamesThe3rd/billbook/internal/matching"
)

type mocks struct {
	customers   *customer.MockRepository
	commodities *commodity.MockRepository
	documents   *document.MockRepository
	expenses    *expense.MockRepository
	mappings    *matching.MockRepository
}

func newRouter(ctrl *gomock.Controller) (http.Handler, mocks) {
	m := mocks{
		customers:   customer.NewMockRepository(ctrl),
		commodities: commodity.NewMockRepository(ctrl),
		documents:   document.NewMockRepository(ctrl),
		expenses:    expense.NewMockRepository(ctrl),
		mappings:    matching.NewMockRepository(ctrl),
	}

	rate := decimal.NewFromInt(ledger.DefaultTaxRatePercent)

	customerSvc := customer.NewService(m.customers)
	commoditySvc := commodity.NewService(m.commodities, rate)
	documentSvc := document.NewService(m.documents, commoditySvc, rate)
	expenseSvc := expense.NewService(m.expenses)
	matchingSvc := matching.NewService(m.mappings)

	router := billbookhttp.New(billbookhttp.Handlers{
		Customers:   customerhttp.NewHandler(customerSvc),
		Commodities: commodityhttp.NewHandler(commoditySvc),
		Quotations:  documenthttp.NewHandler(documentSvc, document.KindQuotation),
		Invoices:    documenthttp.NewHandler(documentSvc, document.KindInvoice),
		Expenses:    expensehttp.NewHandler(expenseSvc),
		Import:      importcsv.NewHandler(importer.NewService(), expenseSvc, matchingSvc),
		Matching:    matchinghttp.NewHandler(matchingSvc),
		Export:      exporthttp.NewHandler(export.NewService(documentSvc, customerSvc)),
	}, []string{"https://books.example"})

	return router, m
}

func TestRouter_Health(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router, _ := newRouter(ctrl)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRouter_CORS(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router, _ := newRouter(ctrl)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/invoices/", nil)
	req.Header.Set("Origin", "https://books.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "https://books.example", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_CORSAllowsUpdateMethods(t *testing.T) {
	for _, method := range []string{http.MethodPut, http.MethodPatch} {
		t.Run(method, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			router, _ := newRouter(ctrl)

			req := httptest.NewRequest(http.MethodOptions, "/api/v1/customers/"+uuid.NewString(), nil)
			req.Header.Set("Origin", "https://books.example")
			req.Header.Set("Access-Control-Request-Method", method)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, "https://books.example", rec.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, method, rec.Header().Get("Access-Control-Allow-Methods"))
		})
	}
}

func TestRouter_UpdateCustomer(t *testing.T) {
	type args struct {
		method string
	}

	type testCase struct {
		name string
		args args
	}

	tests := []testCase{
		{name: "Put", args: args{method: http.MethodPut}},
		{name: "Patch", args: args{method: http.MethodPatch}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			router, m := newRouter(ctrl)

			existing := &customer.Customer{ID: uuid.New(), Name: "Acme"}

			m.customers.EXPECT().GetCustomer(gomock.Any(), existing.ID).Return(existing, nil)
			m.customers.EXPECT().UpdateCustomer(gomock.Any(), existing).Return(nil)

			req := httptest.NewRequest(tt.args.method, "/api/v1/customers/"+existing.ID.String(), strings.NewReader(`{"name":"Acme Ltd"}`))
			req.Header.Set("Content-Type", "application/json")

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Contains(t, rec.Body.String(), `"name":"Acme Ltd"`)
		})
	}
}

func TestRouter_RejectsNonJSON(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router, _ := newRouter(ctrl)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/customers/", strings.NewReader("name=Acme"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestRouter_InvoiceWithCommodityDefaults(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router, m := newRouter(ctrl)

	commodityID := uuid.New()

	m.commodities.EXPECT().
		GetCommodity(gomock.Any(), commodityID).
		Return(&commodity.Commodity{
			ID:             commodityID,
			Name:           "Widget",
			UnitPrice:      decimal.RequireFromString("500"),
			TaxRatePercent: decimal.RequireFromString("5"),
		}, nil)
	m.documents.EXPECT().CreateDocument(gomock.Any(), gomock.Any()).Return(nil)

	body := `{"customer_id":"` + uuid.NewString() + `","items":[{"commodity_id":"` + commodityID.String() + `","quantity":2,"discount_percent":10}]}`

	req := httptest.NewRequest(http.MethodPost, "/api/v1/invoices/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"grand_total":"945.00"`)
	assert.Contains(t, rec.Body.String(), `"description":"Widget"`)
}
