package utils

import (
	"errors"
	"fmt"
)

/*
   Sentinel errors for tenant-service domain logic.
   Controllers branch on these with errors.Is.
*/
var (
	ErrInvoicePaid         = errors.New("invoice_paid")
	ErrInvoiceUnreconciled = errors.New("invoice_unreconciled")
	ErrAmountMismatch      = errors.New("amount_mismatch")
	ErrInvalidAmount       = errors.New("invalid_amount")
	ErrPaymentNotPending   = errors.New("payment_not_pending")
	ErrUnknownQuickAction  = errors.New("unknown_quick_action")
	ErrNoContract          = errors.New("no_contract")
)

// NetworkError is a transport failure or non-2xx response from a collaborator.
type NetworkError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: upstream status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ValidationError is a bad input detected before any side effect.
type ValidationError struct {
	Field  string
	Reason error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason.Error()
	}
	return fmt.Sprintf("%s: %v", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return e.Reason }

func NewValidationError(field string, reason error) error {
	return &ValidationError{Field: field, Reason: reason}
}

// NotFoundError is returned when a referenced entity does not exist or is not
// visible to the caller.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

func NewNotFoundError(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// ConflictError means the request is well formed but the entity's state
// forbids it.
type ConflictError struct {
	Reason error
}

func (e *ConflictError) Error() string { return e.Reason.Error() }

func (e *ConflictError) Unwrap() error { return e.Reason }

func NewConflictError(reason error) error {
	return &ConflictError{Reason: reason}
}

// FetchError wraps the first collaborator failure during dashboard
// aggregation.
type FetchError struct {
	Source string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("dashboard fetch failed (%s): %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// PaymentInitiationError wraps a gateway or transport failure while creating a
// payment session.
type PaymentInitiationError struct {
	InvoiceID string
	Err       error
}

func (e *PaymentInitiationError) Error() string {
	return fmt.Sprintf("payment initiation failed for invoice %s: %v", e.InvoiceID, e.Err)
}

func (e *PaymentInitiationError) Unwrap() error { return e.Err }
