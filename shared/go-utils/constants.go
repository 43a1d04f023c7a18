package utils

const (
	OrganizationName                      = "TroPay"
	CORSLowSecurityAllowedOriginLocalhost = "http://localhost:*"
	TenantAccountType                     = "tenant"
)
