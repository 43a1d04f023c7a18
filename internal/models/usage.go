package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Utility string

const (
	UtilityElectricity Utility = "electricity"
	UtilityWater       Utility = "water"
	UtilityInternet    Utility = "internet"
)

// Utilities lists every metered utility in display order.
var Utilities = []Utility{UtilityElectricity, UtilityWater, UtilityInternet}

// Unit returns the display unit for the utility.
func (u Utility) Unit() string {
	switch u {
	case UtilityElectricity:
		return "kWh"
	case UtilityWater:
		return "m³"
	case UtilityInternet:
		return "GB"
	default:
		return ""
	}
}

type ChangeType string

const (
	ChangeIncrease ChangeType = "increase"
	ChangeDecrease ChangeType = "decrease"
	ChangeNeutral  ChangeType = "neutral"
)

// ServiceUsageRecord is one utility's usage for the current period. Change
// is a percentage against the previous period.
type ServiceUsageRecord struct {
	Amount     float64    `json:"amount"`
	Unit       string     `json:"unit"`
	Change     float64    `json:"change"`
	ChangeType ChangeType `json:"change_type"`
}

type ServiceUsage struct {
	Electricity ServiceUsageRecord `json:"electricity"`
	Water       ServiceUsageRecord `json:"water"`
	Internet    ServiceUsageRecord `json:"internet"`
}

// Record returns the usage record for u.
func (s *ServiceUsage) Record(u Utility) *ServiceUsageRecord {
	switch u {
	case UtilityElectricity:
		return &s.Electricity
	case UtilityWater:
		return &s.Water
	case UtilityInternet:
		return &s.Internet
	default:
		return nil
	}
}

// UsageReading is a metered reading for one utility and billing period.
type UsageReading struct {
	TenantID        string          `json:"-"`
	Utility         Utility         `json:"utility"`
	Period          string          `json:"period"` // YYYY-MM
	Amount          float64         `json:"amount"`
	Cost            decimal.Decimal `json:"cost"`
	RatePerUnit     decimal.Decimal `json:"rate_per_unit"`
	PreviousReading *float64        `json:"previous_reading,omitempty"`
	CurrentReading  *float64        `json:"current_reading,omitempty"`
	ReadingDate     *time.Time      `json:"reading_date,omitempty"`
}

// Consistent reports whether ChangeType agrees with the sign of Change.
func (r ServiceUsageRecord) Consistent() bool {
	switch r.ChangeType {
	case ChangeIncrease:
		return r.Change > 0
	case ChangeDecrease:
		return r.Change < 0
	case ChangeNeutral:
		return r.Change == 0
	default:
		return false
	}
}
