package tenantapi

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	internal_models "github.com/tropay/tenant-service/internal/models"
)

// envelope is the {success, data, message} wrapper every upstream response
// uses.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message,omitempty"`
}

type contactPayload struct {
	Name          string  `json:"name"`
	Email         *string `json:"email,omitempty"`
	PhoneNumber   *string `json:"phone_number,omitempty"`
	LandlordName  string  `json:"landlord_name"`
	LandlordEmail *string `json:"landlord_email,omitempty"`
	LandlordPhone *string `json:"landlord_phone,omitempty"`
}

func (c contactPayload) toModel(tenantID string) *internal_models.TenantContact {
	return &internal_models.TenantContact{
		TenantID:      tenantID,
		Name:          c.Name,
		Email:         c.Email,
		PhoneNumber:   c.PhoneNumber,
		LandlordName:  c.LandlordName,
		LandlordEmail: c.LandlordEmail,
		LandlordPhone: c.LandlordPhone,
	}
}

type invoicePayload struct {
	ID          string                        `json:"id"`
	TenantID    string                        `json:"tenant_id"`
	TotalAmount decimal.Decimal               `json:"total_amount"`
	DueDate     internal_models.Date          `json:"due_date"`
	Status      internal_models.InvoiceStatus `json:"status"`
	Items       []internal_models.InvoiceItem `json:"items"`
	RowVersion  int64                         `json:"row_version"`
}

func (p invoicePayload) toModel() *internal_models.Invoice {
	inv := &internal_models.Invoice{
		ID:          p.ID,
		TenantID:    p.TenantID,
		TotalAmount: p.TotalAmount,
		DueDate:     p.DueDate,
		Status:      p.Status,
		Items:       p.Items,
	}
	if inv.Items == nil {
		inv.Items = []internal_models.InvoiceItem{}
	}
	inv.RowVersion = p.RowVersion
	return inv
}

type invoiceStatusPatch struct {
	Status     internal_models.InvoiceStatus `json:"status"`
	RowVersion int64                         `json:"row_version"`
}

type updatePayload struct {
	ID          string                        `json:"id"`
	Type        internal_models.UpdateType    `json:"type"`
	Title       string                        `json:"title"`
	Description string                        `json:"description"`
	Timestamp   time.Time                     `json:"timestamp"`
	Status      *internal_models.UpdateStatus `json:"status,omitempty"`
}
