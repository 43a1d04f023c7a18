package utils

// Error codes specific to tenant-service only.
const (
	ErrCodeInvoicePaid         = "invoice_paid"
	ErrCodeInvoiceUnreconciled = "invoice_unreconciled"
	ErrCodeAmountMismatch      = "amount_mismatch"
	ErrCodePaymentNotPending   = "payment_not_pending"
)
