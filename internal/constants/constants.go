package constants

import "time"

const (
	StripeMetadataPaymentIDKey = "payment_id"
	StripeMetadataTenantIDKey  = "tenant_id"
	StripeMetadataInvoiceIDKey = "invoice_id"
)

// Payment Business Logic
const (
	IdempotencyKeyHeader = "Idempotency-Key"
	// StalePaymentIntentAge is how long a pending intent may wait for the
	// gateway before the sweep cancels it.
	StalePaymentIntentAge    = 24 * time.Hour
	PaymentInitiationTimeout = 30 * time.Second
	CheckoutSuccessPath      = "/payments/success"
	CheckoutCancelPath       = "/payments/cancel"
)

// Dashboard
const (
	RecentUpdatesLimit    = 10
	DashboardFetchTimeout = 15 * time.Second
)

// Invoice sweep
const (
	DueSoonWindowDays        = 3
	ContractExpiryNoticeDays = 60
	InvoiceSweepCronSpec     = "0 6 * * *" // 06:00 UTC Daily
	InvoiceSweepJobTimeout   = 10 * time.Minute
)

// Issues and feedback
var (
	IssueCategories = []string{"maintenance", "electrical", "plumbing", "noise", "security", "other"}
	FeedbackTypes   = []string{"general", "service", "maintenance", "suggestion"}
)

// Email and SMS content
const (
	EmailSubjectNewIssue       = "New maintenance issue %s from %s"
	EmailSubjectRenewalRequest = "Contract renewal request from %s"
	SMSPaymentReminder         = "TroPay: invoice %s for %s is now %s (due %s)."
	PaymentReminderTitle       = "Payment Reminder"
	PaymentReceivedTitle       = "Payment received"
)
