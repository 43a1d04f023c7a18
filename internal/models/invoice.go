package models

import (
	"github.com/shopspring/decimal"
	"github.com/tropay/tenant-service/shared/go-models"
)

type InvoiceStatus string

const (
	InvoiceStatusDueSoon InvoiceStatus = "Due Soon"
	InvoiceStatusOverdue InvoiceStatus = "Overdue"
	InvoiceStatusPaid    InvoiceStatus = "Paid"
	InvoiceStatusPending InvoiceStatus = "Pending"
)

type InvoiceItemType string

const (
	InvoiceItemRent        InvoiceItemType = "rent"
	InvoiceItemElectricity InvoiceItemType = "electricity"
	InvoiceItemWater       InvoiceItemType = "water"
	InvoiceItemInternet    InvoiceItemType = "internet"
	InvoiceItemOther       InvoiceItemType = "other"
)

type InvoiceItem struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        InvoiceItemType `json:"type"`
}

// Invoice is a billing statement owed by a tenant for a period.
type Invoice struct {
	models.Versioned
	ID          string          `json:"id"`
	TenantID    string          `json:"-"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	DueDate     Date            `json:"due_date"`
	Status      InvoiceStatus   `json:"status"`
	Items       []InvoiceItem   `json:"items"`
}

func (i *Invoice) GetID() string {
	return i.ID
}

// ItemsTotal sums the line item amounts.
func (i *Invoice) ItemsTotal() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range i.Items {
		sum = sum.Add(it.Amount)
	}
	return sum
}

// Reconciles reports whether the items add up to TotalAmount. An invoice
// without items is taken at face value.
func (i *Invoice) Reconciles() bool {
	if len(i.Items) == 0 {
		return true
	}
	return i.ItemsTotal().Equal(i.TotalAmount)
}

// IsOpen is true for any invoice still awaiting payment.
func (i *Invoice) IsOpen() bool {
	return i.Status != InvoiceStatusPaid
}
