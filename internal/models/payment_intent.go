package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tropay/tenant-service/shared/go-models"
)

type PaymentStatusType string

const (
	PaymentStatusPending    PaymentStatusType = "pending"
	PaymentStatusProcessing PaymentStatusType = "processing"
	PaymentStatusCompleted  PaymentStatusType = "completed"
	PaymentStatusFailed     PaymentStatusType = "failed"
	PaymentStatusCancelled  PaymentStatusType = "cancelled"
)

// PaymentIntent records one attempt to pay an invoice through the gateway.
type PaymentIntent struct {
	models.Versioned
	ID               uuid.UUID         `json:"id"`
	TenantID         string            `json:"tenant_id"`
	InvoiceID        string            `json:"invoice_id"`
	Amount           decimal.Decimal   `json:"amount"`
	Currency         string            `json:"currency"`
	Status           PaymentStatusType `json:"status"`
	IdempotencyKey   string            `json:"-"`
	GatewaySessionID *string           `json:"-"`
	PaymentURL       *string           `json:"payment_url,omitempty"`
	TransactionID    *string           `json:"transaction_id,omitempty"`
	FailureReason    *string           `json:"failure_reason,omitempty"`
	CompletedAt      *time.Time        `json:"completed_at,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

func (p *PaymentIntent) GetID() string {
	return p.ID.String()
}

// IsTerminal is true once the intent can no longer change state.
func (p *PaymentIntent) IsTerminal() bool {
	switch p.Status {
	case PaymentStatusCompleted, PaymentStatusFailed, PaymentStatusCancelled:
		return true
	default:
		return false
	}
}
