package dtos

import "github.com/shopspring/decimal"

type UtilityUsageDTO struct {
	Utility     string          `json:"utility"`
	Unit        string          `json:"unit"`
	Current     float64         `json:"current"`
	Previous    float64         `json:"previous"`
	Cost        decimal.Decimal `json:"cost"`
	RatePerUnit decimal.Decimal `json:"rate_per_unit"`
	Change      float64         `json:"change"`
	Percentage  float64         `json:"percentage"`
	ChangeType  string          `json:"change_type"`
}

type UsageDetailResponse struct {
	Period    string            `json:"period"`
	Utilities []UtilityUsageDTO `json:"utilities"`
	TotalCost decimal.Decimal   `json:"total_cost"`
}
