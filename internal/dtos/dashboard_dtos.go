package dtos

import (
	"time"

	internal_models "github.com/tropay/tenant-service/internal/models"
	internal_utils "github.com/tropay/tenant-service/internal/utils"
)

// RecentUpdateDTO adds presentation hints to a recent update.
type RecentUpdateDTO struct {
	internal_models.RecentUpdate
	Icon           string                   `json:"icon"`
	Color          string                   `json:"color"`
	StatusCategory *internal_utils.Category `json:"status_category,omitempty"`
}

type DashboardResponse struct {
	Profile                internal_models.TenantProfile `json:"profile"`
	ContractStatusCategory internal_utils.Category       `json:"contract_status_category"`
	CurrentInvoice         *internal_models.Invoice      `json:"current_invoice"`
	InvoiceStatusCategory  *internal_utils.Category      `json:"invoice_status_category,omitempty"`
	ServiceUsage           internal_models.ServiceUsage  `json:"service_usage"`
	QuickActions           []internal_models.QuickAction `json:"quick_actions"`
	RecentUpdates          []RecentUpdateDTO             `json:"recent_updates"`
	Generation             uint64                        `json:"generation"`
	FetchedAt              time.Time                     `json:"fetched_at"`
}

func NewDashboardResponse(d *internal_models.TenantDashboardData) DashboardResponse {
	resp := DashboardResponse{
		Profile:                d.Profile,
		ContractStatusCategory: internal_utils.Classify(string(d.Profile.RoomInfo.ContractStatus), internal_utils.DomainContract),
		CurrentInvoice:         d.CurrentInvoice,
		ServiceUsage:           d.ServiceUsage,
		QuickActions:           d.QuickActions,
		RecentUpdates:          make([]RecentUpdateDTO, 0, len(d.RecentUpdates)),
		Generation:             d.Generation,
		FetchedAt:              d.FetchedAt,
	}
	if d.CurrentInvoice != nil {
		c := internal_utils.Classify(string(d.CurrentInvoice.Status), internal_utils.DomainInvoice)
		resp.InvoiceStatusCategory = &c
	}
	for _, u := range d.RecentUpdates {
		dto := RecentUpdateDTO{
			RecentUpdate: u,
			Icon:         internal_utils.IconForUpdateType(u.Type),
			Color:        internal_utils.ColorForUpdateType(u.Type),
		}
		if u.Status != nil {
			c := internal_utils.Classify(string(*u.Status), internal_utils.DomainIssue)
			dto.StatusCategory = &c
		}
		resp.RecentUpdates = append(resp.RecentUpdates, dto)
	}
	return resp
}
