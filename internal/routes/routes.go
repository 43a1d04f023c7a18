package routes

const (
	Health = "/health"

	TenantDashboard   = "/api/v1/tenant/dashboard"
	TenantQuickAction = "/api/v1/tenant/quick-actions/{id}"

	TenantPayments             = "/api/v1/tenant/payments"
	TenantPayment              = "/api/v1/tenant/payments/{id}"
	TenantPaymentCancel        = "/api/v1/tenant/payments/{id}/cancel"
	TenantPaymentStripeWebhook = "/api/v1/tenant/payments/stripe/webhook"

	TenantRoomContract = "/api/v1/tenant/room-contract"
	TenantRenewal      = "/api/v1/tenant/room-contract/renewal"

	TenantIssues   = "/api/v1/tenant/issues"
	TenantIssue    = "/api/v1/tenant/issues/{id}"
	TenantFeedback = "/api/v1/tenant/feedback"
	TenantUsage    = "/api/v1/tenant/usage"
)
