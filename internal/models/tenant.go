package models

import "github.com/shopspring/decimal"

type RoomType string

const (
	RoomTypeSingle RoomType = "Single"
	RoomTypeDouble RoomType = "Double"
	RoomTypeSuite  RoomType = "Suite"
	RoomTypeStudio RoomType = "Studio"
)

type ContractStatus string

const (
	ContractStatusActive     ContractStatus = "Active"
	ContractStatusExpired    ContractStatus = "Expired"
	ContractStatusPending    ContractStatus = "Pending"
	ContractStatusTerminated ContractStatus = "Terminated"
)

// RoomInfo is the tenant's room as shown on the dashboard.
type RoomInfo struct {
	RoomNumber     string          `json:"room_number"`
	RoomType       RoomType        `json:"room_type"`
	MonthlyRent    decimal.Decimal `json:"monthly_rent"`
	DueDate        Date            `json:"due_date"`
	ContractStatus ContractStatus  `json:"contract_status"`
}

// TenantProfile is fetched wholesale and replaced on every refresh.
type TenantProfile struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Avatar   *string  `json:"avatar,omitempty"`
	RoomInfo RoomInfo `json:"room_info"`
}

// TenantContact holds the addresses used for notifications. It is never
// part of the dashboard payload.
type TenantContact struct {
	TenantID      string
	Name          string
	Email         *string
	PhoneNumber   *string
	LandlordName  string
	LandlordEmail *string
	LandlordPhone *string
}
