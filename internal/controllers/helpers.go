package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v4"
	"github.com/tropay/tenant-service/internal/services"
	internal_utils "github.com/tropay/tenant-service/internal/utils"
	"github.com/tropay/tenant-service/shared/go-middleware"
	"github.com/tropay/tenant-service/shared/go-utils"
)

var tenantValidate = validator.New()

// tenantIDOrAbort reads the authenticated tenant from the request context.
func tenantIDOrAbort(w http.ResponseWriter, r *http.Request) (string, bool) {
	tenantID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "No userID in context", nil,
		)
		return "", false
	}
	return tenantID, true
}

// decodeAndValidate reads a JSON body into dst and runs its validate tags.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid payload", nil, err,
		)
		return false
	}
	if err := tenantValidate.Struct(dst); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation, "Request failed validation", validationDetails(err), err,
		)
		return false
	}
	return true
}

func validationDetails(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	details := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		details[fe.Field()] = fe.Tag()
	}
	return details
}

func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid "+name, nil, err,
		)
		return uuid.Nil, false
	}
	return id, true
}

// respondServiceError maps service errors to HTTP responses. Internal detail
// is logged, never returned to the client.
func respondServiceError(w http.ResponseWriter, err error, fallbackMsg string) {
	var (
		validationErr *internal_utils.ValidationError
		notFoundErr   *internal_utils.NotFoundError
		conflictErr   *internal_utils.ConflictError
		fetchErr      *internal_utils.FetchError
		networkErr    *internal_utils.NetworkError
		initErr       *internal_utils.PaymentInitiationError
	)

	switch {
	case errors.As(err, &validationErr):
		code := utils.ErrCodeValidation
		if errors.Is(err, internal_utils.ErrAmountMismatch) {
			code = internal_utils.ErrCodeAmountMismatch
		}
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, code, validationErr.Error(), map[string]string{"field": validationErr.Field}, err,
		)
	case errors.As(err, &notFoundErr), errors.Is(err, pgx.ErrNoRows):
		utils.RespondErrorWithCode(
			w, http.StatusNotFound, utils.ErrCodeNotFound, "Resource not found", nil, err,
		)
	case errors.As(err, &conflictErr):
		code := utils.ErrCodeConflict
		msg := "Request conflicts with the current state"
		switch {
		case errors.Is(err, internal_utils.ErrInvoicePaid):
			code, msg = internal_utils.ErrCodeInvoicePaid, "Invoice is already paid"
		case errors.Is(err, internal_utils.ErrInvoiceUnreconciled):
			code, msg = internal_utils.ErrCodeInvoiceUnreconciled, "Invoice items do not add up to the invoice total"
		case errors.Is(err, internal_utils.ErrPaymentNotPending):
			code, msg = internal_utils.ErrCodePaymentNotPending, "Payment is no longer pending"
		case errors.Is(err, services.ErrIdempotencyKeyReuse):
			msg = "Idempotency key was already used for a different payment"
		}
		utils.RespondErrorWithCode(w, http.StatusConflict, code, msg, nil, err)
	case errors.Is(err, utils.ErrRowVersionConflict):
		utils.RespondErrorWithCode(
			w, http.StatusConflict, utils.ErrCodeRowVersionConflict, "Concurrent update, please retry", nil, err,
		)
	case errors.As(err, &initErr):
		utils.RespondErrorWithCode(
			w, http.StatusBadGateway, utils.ErrCodePaymentInitiationFailed, "Could not start the payment. Please try again.", nil, err,
		)
	case errors.As(err, &fetchErr), errors.As(err, &networkErr):
		utils.RespondErrorWithCode(
			w, http.StatusBadGateway, utils.ErrCodeFetchFailed, "Could not load your data. Please try again.", nil, err,
		)
	case errors.Is(err, utils.ErrExternalServiceFailure):
		utils.RespondErrorWithCode(
			w, http.StatusBadGateway, utils.ErrCodeExternalServiceFailure, "An external service failed. Please try again.", nil, err,
		)
	default:
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeInternal, fallbackMsg, nil, err,
		)
	}
}
