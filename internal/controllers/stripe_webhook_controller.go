package controllers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
	"github.com/tropay/tenant-service/internal/config"
	"github.com/tropay/tenant-service/internal/dtos"
	internal_models "github.com/tropay/tenant-service/internal/models"
	"github.com/tropay/tenant-service/internal/services"
	"github.com/tropay/tenant-service/shared/go-utils"
)

const maxWebhookBodyBytes = int64(1 << 20)

type StripeWebhookController struct {
	cfg            *config.Config
	paymentService *services.PaymentService
}

func NewStripeWebhookController(cfg *config.Config, paymentService *services.PaymentService) *StripeWebhookController {
	return &StripeWebhookController{cfg: cfg, paymentService: paymentService}
}

// WebhookHandler -> POST /api/v1/tenant/payments/stripe/webhook
func (c *StripeWebhookController) WebhookHandler(w http.ResponseWriter, r *http.Request) {
	sigHeader := r.Header.Get("Stripe-Signature")
	if sigHeader == "" {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Missing Stripe-Signature header", nil)
		return
	}

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBodyBytes))
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Failed to read webhook body", nil, err)
		return
	}

	event, err := webhook.ConstructEvent(payload, sigHeader, c.cfg.StripeWebhookSecret)
	if err != nil {
		utils.Logger.WithError(err).Error("Stripe webhook signature verification failed")
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	var handleErr error
	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted, stripe.EventTypeCheckoutSessionAsyncPaymentSucceeded:
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			utils.Logger.WithError(err).Errorf("Could not parse stripe.CheckoutSession for event type %s", event.Type)
			break
		}
		if sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusUnpaid {
			// Async methods settle later; wait for async_payment_succeeded.
			utils.Logger.Infof("Checkout session %s completed but unpaid, awaiting settlement", sess.ID)
			break
		}
		handleErr = c.paymentService.HandleCheckoutCompleted(r.Context(), sess.ID, transactionIDOf(&sess))
	case stripe.EventTypeCheckoutSessionExpired:
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			utils.Logger.WithError(err).Error("Could not parse stripe.CheckoutSession for expired event")
			break
		}
		handleErr = c.paymentService.HandleCheckoutClosed(r.Context(), sess.ID, internal_models.PaymentStatusCancelled, "session_expired")
	case stripe.EventTypeCheckoutSessionAsyncPaymentFailed:
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			utils.Logger.WithError(err).Error("Could not parse stripe.CheckoutSession for async failure")
			break
		}
		handleErr = c.paymentService.HandleCheckoutClosed(r.Context(), sess.ID, internal_models.PaymentStatusFailed, "async_payment_failed")
	default:
		utils.Logger.Debugf("Ignoring Stripe event type %s", event.Type)
	}

	if handleErr != nil {
		// Non-2xx makes Stripe redeliver; handlers are idempotent.
		utils.Logger.WithError(handleErr).Errorf("Failed to handle Stripe event %s (%s)", event.ID, event.Type)
		utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeInternal, "Webhook handling failed", nil, handleErr)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.StripeWebhookResponse{Received: true})
}

func transactionIDOf(sess *stripe.CheckoutSession) string {
	if sess.PaymentIntent != nil {
		return sess.PaymentIntent.ID
	}
	return ""
}
