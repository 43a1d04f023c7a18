package utils

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypedErrorsUnwrap(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	fe := &FetchError{Source: "profile", Err: &NetworkError{Op: "GET /profile", Err: cause}}
	wrapped := fmt.Errorf("dashboard: %w", fe)

	var target *FetchError
	assert.True(t, errors.As(wrapped, &target))
	assert.Equal(t, "profile", target.Source)

	var netErr *NetworkError
	assert.True(t, errors.As(wrapped, &netErr))
	assert.ErrorIs(t, wrapped, cause)

	assert.ErrorIs(t, NewConflictError(ErrInvoicePaid), ErrInvoicePaid)
	assert.ErrorIs(t, NewValidationError("amount", ErrAmountMismatch), ErrAmountMismatch)
	assert.Equal(t, "amount: amount_mismatch", NewValidationError("amount", ErrAmountMismatch).Error())

	var nf *NotFoundError
	assert.True(t, errors.As(NewNotFoundError("invoice", "INV-9"), &nf))
	assert.Equal(t, "INV-9", nf.ID)
}
