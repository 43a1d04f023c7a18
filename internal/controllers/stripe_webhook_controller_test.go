package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
	internal_models "github.com/tropay/tenant-service/internal/models"
)

func checkoutEvent(t *testing.T, eventType stripe.EventType, session map[string]any) []byte {
	t.Helper()
	raw, err := json.Marshal(map[string]any{
		"id":          "evt_" + uuid.NewString(),
		"object":      "event",
		"type":        eventType,
		"api_version": stripe.APIVersion,
		"created":     time.Now().Unix(),
		"data":        map[string]any{"object": session},
	})
	require.NoError(t, err)
	return raw
}

func (h *harness) deliver(t *testing.T, payload []byte, secret string) *httptest.ResponseRecorder {
	t.Helper()
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    secret,
		Timestamp: time.Now(),
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tenant/payments/stripe/webhook", bytes.NewReader(signed.Payload))
	req.Header.Set("Stripe-Signature", signed.Header)
	rr := httptest.NewRecorder()
	h.router.ServeHTTP(rr, req)
	return rr
}

func (h *harness) startPayment(t *testing.T) uuid.UUID {
	t.Helper()
	rr := h.do(t, http.MethodPost, "/api/v1/tenant/payments", map[string]any{"invoice_id": "INV-001", "amount": "485.50"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return uuid.MustParse(decodeBody[redirectBody](t, rr).PaymentID)
}

func TestStripeWebhook_CheckoutCompleted(t *testing.T) {
	h := newHarness(t)
	id := h.startPayment(t)
	ctx := context.Background()

	payload := checkoutEvent(t, stripe.EventTypeCheckoutSessionCompleted, map[string]any{
		"id":             "cs_test_1",
		"object":         "checkout.session",
		"payment_status": "paid",
		"payment_intent": "pi_123",
	})
	for i := 0; i < 2; i++ {
		rr := h.deliver(t, payload, testWebhookSecret)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.JSONEq(t, `{"received":true}`, rr.Body.String())
	}

	p, err := h.store.Payments.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, internal_models.PaymentStatusCompleted, p.Status)
	require.NotNil(t, p.TransactionID)
	assert.Equal(t, "pi_123", *p.TransactionID)

	inv, err := h.store.Invoices.GetByID(ctx, "INV-001")
	require.NoError(t, err)
	assert.Equal(t, internal_models.InvoiceStatusPaid, inv.Status)

	updates, err := h.store.Updates.ListForTenant(ctx, testTenantID, 10)
	require.NoError(t, err)
	assert.Len(t, updates, 1)
}

func TestStripeWebhook_UnpaidCompletionWaits(t *testing.T) {
	h := newHarness(t)
	id := h.startPayment(t)

	rr := h.deliver(t, checkoutEvent(t, stripe.EventTypeCheckoutSessionCompleted, map[string]any{
		"id": "cs_test_1", "object": "checkout.session", "payment_status": "unpaid",
	}), testWebhookSecret)
	require.Equal(t, http.StatusOK, rr.Code)

	p, err := h.store.Payments.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, internal_models.PaymentStatusPending, p.Status)
}

func TestStripeWebhook_Expired(t *testing.T) {
	h := newHarness(t)
	id := h.startPayment(t)

	rr := h.deliver(t, checkoutEvent(t, stripe.EventTypeCheckoutSessionExpired, map[string]any{
		"id": "cs_test_1", "object": "checkout.session", "payment_status": "unpaid",
	}), testWebhookSecret)
	require.Equal(t, http.StatusOK, rr.Code)

	p, err := h.store.Payments.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, internal_models.PaymentStatusCancelled, p.Status)
	assert.Equal(t, "session_expired", *p.FailureReason)
}

func TestStripeWebhook_BadSignature(t *testing.T) {
	h := newHarness(t)
	id := h.startPayment(t)

	rr := h.deliver(t, checkoutEvent(t, stripe.EventTypeCheckoutSessionCompleted, map[string]any{
		"id": "cs_test_1", "object": "checkout.session", "payment_status": "paid",
	}), "whsec_wrong")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	p, err := h.store.Payments.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, internal_models.PaymentStatusPending, p.Status)
}

func TestStripeWebhook_MissingSignature(t *testing.T) {
	h := newHarness(t)
	rr := h.do(t, http.MethodPost, "/api/v1/tenant/payments/stripe/webhook", `{}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
