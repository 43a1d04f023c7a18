package controllers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	internal_models "github.com/tropay/tenant-service/internal/models"
	"github.com/tropay/tenant-service/shared/go-utils"
)

type redirectBody struct {
	PaymentID  string `json:"payment_id"`
	PaymentURL string `json:"payment_url"`
	Status     string `json:"status"`
}

func TestInitiatePaymentHandler(t *testing.T) {
	h := newHarness(t)

	rr := h.do(t, http.MethodPost, "/api/v1/tenant/payments", map[string]any{"invoice_id": "INV-001", "amount": "485.50"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	first := decodeBody[redirectBody](t, rr)
	assert.Equal(t, "https://checkout.example/cs_test_1", first.PaymentURL)
	assert.Equal(t, "pending", first.Status)

	rr = h.do(t, http.MethodPost, "/api/v1/tenant/payments", `{"invoice_id":"INV-001","amount":485.5}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, first.PaymentID, decodeBody[redirectBody](t, rr).PaymentID)
	assert.Equal(t, 1, h.gateway.n)
}

func TestInitiatePaymentHandler_Errors(t *testing.T) {
	tests := []struct {
		name     string
		body     any
		headers  []string
		gwErr    error
		wantCode int
		wantErr  string
	}{
		{"malformed json", `{"invoice_id":`, nil, nil, http.StatusBadRequest, utils.ErrCodeInvalidPayload},
		{"missing invoice", map[string]any{"amount": "10"}, nil, nil, http.StatusBadRequest, utils.ErrCodeValidation},
		{"zero amount", map[string]any{"invoice_id": "INV-001", "amount": "0"}, nil, nil, http.StatusBadRequest, utils.ErrCodeValidation},
		{"amount mismatch", map[string]any{"invoice_id": "INV-001", "amount": "400"}, nil, nil, http.StatusBadRequest, "amount_mismatch"},
		{"unknown invoice", map[string]any{"invoice_id": "INV-404", "amount": "10"}, nil, nil, http.StatusNotFound, utils.ErrCodeNotFound},
		{"gateway down", map[string]any{"invoice_id": "INV-001", "amount": "485.50"}, nil, errors.New("stripe unavailable"), http.StatusBadGateway, utils.ErrCodePaymentInitiationFailed},
		{
			"oversized idempotency key", map[string]any{"invoice_id": "INV-001", "amount": "485.50"},
			[]string{"Idempotency-Key", strings.Repeat("k", 300)}, nil, http.StatusBadRequest, utils.ErrCodeValidation,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t)
			h.gateway.fail = tc.gwErr
			rr := h.do(t, http.MethodPost, "/api/v1/tenant/payments", tc.body, tc.headers...)
			require.Equal(t, tc.wantCode, rr.Code, rr.Body.String())
			assert.Equal(t, tc.wantErr, decodeBody[utils.ErrorResponse](t, rr).Code)
		})
	}
}

func TestInitiatePaymentHandler_IdempotencyKeyReuse(t *testing.T) {
	h := newHarness(t)
	key := []string{"Idempotency-Key", "client-key-1"}

	rr := h.do(t, http.MethodPost, "/api/v1/tenant/payments", map[string]any{"invoice_id": "INV-001", "amount": "485.50"}, key...)
	require.Equal(t, http.StatusCreated, rr.Code)

	h.store.Invoices.Put(&internal_models.Invoice{
		ID:          "INV-002",
		TenantID:    testTenantID,
		TotalAmount: decimal.RequireFromString("485.50"),
		Status:      internal_models.InvoiceStatusPending,
	})
	rr = h.do(t, http.MethodPost, "/api/v1/tenant/payments", map[string]any{"invoice_id": "INV-002", "amount": "485.50"}, key...)
	require.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, utils.ErrCodeConflict, decodeBody[utils.ErrorResponse](t, rr).Code)
}

func TestPaymentLifecycleHandlers(t *testing.T) {
	h := newHarness(t)

	rr := h.do(t, http.MethodPost, "/api/v1/tenant/payments", map[string]any{"invoice_id": "INV-001", "amount": "485.50"})
	require.Equal(t, http.StatusCreated, rr.Code)
	id := decodeBody[redirectBody](t, rr).PaymentID

	rr = h.do(t, http.MethodGet, "/api/v1/tenant/payments/"+id, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	got := decodeBody[map[string]any](t, rr)
	assert.Equal(t, "pending", got["status"])
	assert.Equal(t, "warning", got["status_category"])
	assert.NotContains(t, got, "IdempotencyKey")

	rr = h.do(t, http.MethodGet, "/api/v1/tenant/payments?page=1&limit=5", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	list := decodeBody[struct {
		Data       []map[string]any `json:"data"`
		Pagination utils.Pagination `json:"pagination"`
	}](t, rr)
	assert.Len(t, list.Data, 1)
	assert.Equal(t, 1, list.Pagination.Total)

	rr = h.do(t, http.MethodGet, "/api/v1/tenant/payments?page=92233720368547760&limit=100", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	farPage := decodeBody[struct {
		Data       []map[string]any `json:"data"`
		Pagination utils.Pagination `json:"pagination"`
	}](t, rr)
	assert.Empty(t, farPage.Data)
	assert.Equal(t, utils.MaxPage, farPage.Pagination.Page)

	rr = h.do(t, http.MethodPut, "/api/v1/tenant/payments/"+id+"/cancel", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "cancelled", decodeBody[map[string]any](t, rr)["status"])
	assert.Equal(t, []string{"cs_test_1"}, h.gateway.expired)

	rr = h.do(t, http.MethodPut, "/api/v1/tenant/payments/"+id+"/cancel", nil)
	require.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "payment_not_pending", decodeBody[utils.ErrorResponse](t, rr).Code)
}

func TestGetPaymentHandler_BadID(t *testing.T) {
	h := newHarness(t)

	rr := h.do(t, http.MethodGet, "/api/v1/tenant/payments/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = h.do(t, http.MethodGet, "/api/v1/tenant/payments/6f1c3a52-8d4e-4b8a-9c57-2f0e7d9b1a34", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandlersRequireTenant(t *testing.T) {
	c := NewPaymentController(nil)

	rr := httptest.NewRecorder()
	c.ListPaymentsHandler(rr, httptest.NewRequest(http.MethodGet, "/api/v1/tenant/payments", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, utils.ErrCodeUnauthorized, decodeBody[utils.ErrorResponse](t, rr).Code)
}
