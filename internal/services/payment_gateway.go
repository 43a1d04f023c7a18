package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/tropay/tenant-service/internal/config"
	"github.com/tropay/tenant-service/internal/constants"
	internal_utils "github.com/tropay/tenant-service/internal/utils"
)

// GatewaySessionRequest describes one hosted-checkout attempt.
type GatewaySessionRequest struct {
	PaymentID      string
	TenantID       string
	InvoiceID      string
	Amount         decimal.Decimal
	Currency       string
	IdempotencyKey string
	Description    string
}

type GatewaySession struct {
	ID  string
	URL string
}

// PaymentGateway creates and expires hosted payment sessions.
type PaymentGateway interface {
	CreateSession(ctx context.Context, req GatewaySessionRequest) (*GatewaySession, error)
	ExpireSession(ctx context.Context, sessionID string) error
}

// StripeGateway backs PaymentGateway with Stripe Checkout.
type StripeGateway struct {
	successURL string
	cancelURL  string
}

func NewStripeGateway(cfg *config.Config) *StripeGateway {
	stripe.Key = cfg.StripeSecretKey
	return &StripeGateway{
		successURL: cfg.AppUrl + constants.CheckoutSuccessPath + "?session_id={CHECKOUT_SESSION_ID}",
		cancelURL:  cfg.AppUrl + constants.CheckoutCancelPath,
	}
}

func (g *StripeGateway) CreateSession(ctx context.Context, req GatewaySessionRequest) (*GatewaySession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(g.successURL),
		CancelURL:         stripe.String(g.cancelURL),
		ClientReferenceID: stripe.String(req.PaymentID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(req.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(req.Description),
					},
					UnitAmount: stripe.Int64(internal_utils.ToMinorUnits(req.Amount, req.Currency)),
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.Context = ctx
	params.SetIdempotencyKey(req.IdempotencyKey)
	params.AddMetadata(constants.StripeMetadataPaymentIDKey, req.PaymentID)
	params.AddMetadata(constants.StripeMetadataTenantIDKey, req.TenantID)
	params.AddMetadata(constants.StripeMetadataInvoiceIDKey, req.InvoiceID)

	sess, err := session.New(params)
	if err != nil {
		return nil, err
	}
	if sess.URL == "" {
		return nil, fmt.Errorf("stripe session %s has no url", sess.ID)
	}
	return &GatewaySession{ID: sess.ID, URL: sess.URL}, nil
}

func (g *StripeGateway) ExpireSession(ctx context.Context, sessionID string) error {
	params := &stripe.CheckoutSessionExpireParams{}
	params.Context = ctx
	_, err := session.Expire(sessionID, params)
	return err
}
