package controllers

import (
	"net/http"
	"strings"

	"github.com/tropay/tenant-service/internal/constants"
	"github.com/tropay/tenant-service/internal/dtos"
	"github.com/tropay/tenant-service/internal/services"
	"github.com/tropay/tenant-service/shared/go-utils"
)

const maxIdempotencyKeyLen = 255

type PaymentController struct {
	paymentService *services.PaymentService
}

func NewPaymentController(s *services.PaymentService) *PaymentController {
	return &PaymentController{paymentService: s}
}

// POST /api/v1/tenant/payments
func (c *PaymentController) InitiatePaymentHandler(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantIDOrAbort(w, r)
	if !ok {
		return
	}

	var req dtos.InitiatePaymentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	key := strings.TrimSpace(r.Header.Get(constants.IdempotencyKeyHeader))
	if len(key) > maxIdempotencyKeyLen {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation, "Idempotency-Key is too long", nil,
		)
		return
	}

	redirect, err := c.paymentService.InitiatePayment(r.Context(), tenantID, req.InvoiceID, req.Amount, key)
	if err != nil {
		respondServiceError(w, err, "Could not start the payment")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, redirect)
}

// GET /api/v1/tenant/payments
func (c *PaymentController) ListPaymentsHandler(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantIDOrAbort(w, r)
	if !ok {
		return
	}

	page := utils.PageFromRequest(r)
	list, total, err := c.paymentService.ListPayments(r.Context(), tenantID, page)
	if err != nil {
		respondServiceError(w, err, "Could not list payments")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.NewListResponse(dtos.NewPaymentDTOs(list), page, total))
}

// GET /api/v1/tenant/payments/{id}
func (c *PaymentController) GetPaymentHandler(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantIDOrAbort(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	p, err := c.paymentService.GetPayment(r.Context(), tenantID, id)
	if err != nil {
		respondServiceError(w, err, "Could not load payment")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.NewPaymentDTO(p))
}

// PUT /api/v1/tenant/payments/{id}/cancel
func (c *PaymentController) CancelPaymentHandler(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantIDOrAbort(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	p, err := c.paymentService.CancelPayment(r.Context(), tenantID, id)
	if err != nil {
		respondServiceError(w, err, "Could not cancel payment")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.NewPaymentDTO(p))
}
