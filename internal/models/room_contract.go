package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type RoomStatus string

const (
	RoomStatusOccupied    RoomStatus = "Occupied"
	RoomStatusAvailable   RoomStatus = "Available"
	RoomStatusMaintenance RoomStatus = "Maintenance"
)

type RoomDetails struct {
	RoomNumber  string          `json:"room_number"`
	RoomType    string          `json:"room_type"`
	MonthlyRent decimal.Decimal `json:"monthly_rent"`
	Status      RoomStatus      `json:"status"`
}

type ContractDetails struct {
	ContractID  string          `json:"contract_id"`
	StartDate   Date            `json:"start_date"`
	EndDate     Date            `json:"end_date"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Status      ContractStatus  `json:"status"`
	ContractURL *string         `json:"contract_url,omitempty"`
}

type NoticeType string

const (
	NoticeWarning NoticeType = "warning"
	NoticeInfo    NoticeType = "info"
	NoticeSuccess NoticeType = "success"
)

type ImportantNotice struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Type          NoticeType `json:"type"`
	DaysRemaining *int       `json:"days_remaining,omitempty"`
}

// RoomContract is the stored room + contract pair for a tenant.
type RoomContract struct {
	TenantID string
	Room     RoomDetails
	Contract ContractDetails
}

type RenewalRequest struct {
	ID         uuid.UUID `json:"id"`
	TenantID   string    `json:"tenant_id"`
	ContractID string    `json:"contract_id"`
	CreatedAt  time.Time `json:"created_at"`
}
