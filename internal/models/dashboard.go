package models

import "time"

// TenantDashboardData is the composite read-model behind the dashboard.
type TenantDashboardData struct {
	Profile        TenantProfile  `json:"profile"`
	CurrentInvoice *Invoice       `json:"current_invoice"`
	ServiceUsage   ServiceUsage   `json:"service_usage"`
	QuickActions   []QuickAction  `json:"quick_actions"`
	RecentUpdates  []RecentUpdate `json:"recent_updates"`
	Generation     uint64         `json:"generation"`
	FetchedAt      time.Time      `json:"fetched_at"`
}
