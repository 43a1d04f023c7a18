package dtos

import (
	"github.com/shopspring/decimal"
	internal_models "github.com/tropay/tenant-service/internal/models"
	internal_utils "github.com/tropay/tenant-service/internal/utils"
)

type InitiatePaymentRequest struct {
	InvoiceID string          `json:"invoice_id" validate:"required,max=64"`
	Amount    decimal.Decimal `json:"amount"`
}

type PaymentDTO struct {
	*internal_models.PaymentIntent
	StatusCategory internal_utils.Category `json:"status_category"`
}

var paymentStatusCategories = map[internal_models.PaymentStatusType]internal_utils.Category{
	internal_models.PaymentStatusPending:    internal_utils.CategoryWarning,
	internal_models.PaymentStatusProcessing: internal_utils.CategoryInfo,
	internal_models.PaymentStatusCompleted:  internal_utils.CategorySuccess,
	internal_models.PaymentStatusFailed:     internal_utils.CategoryError,
	internal_models.PaymentStatusCancelled:  internal_utils.CategoryNeutral,
}

func NewPaymentDTO(p *internal_models.PaymentIntent) PaymentDTO {
	c, ok := paymentStatusCategories[p.Status]
	if !ok {
		c = internal_utils.CategoryNeutral
	}
	return PaymentDTO{PaymentIntent: p, StatusCategory: c}
}

func NewPaymentDTOs(list []*internal_models.PaymentIntent) []PaymentDTO {
	out := make([]PaymentDTO, 0, len(list))
	for _, p := range list {
		out = append(out, NewPaymentDTO(p))
	}
	return out
}

type StripeWebhookResponse struct {
	Received bool `json:"received"`
}
