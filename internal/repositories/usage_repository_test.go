package repositories

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgconn"
	"github.com/stretchr/testify/assert"
	internal_models "github.com/tropay/tenant-service/internal/models"
)

func TestSummarizeUsage(t *testing.T) {
	readings := []*internal_models.UsageReading{
		{Utility: internal_models.UtilityElectricity, Period: "2025-03", Amount: 125},
		{Utility: internal_models.UtilityWater, Period: "2025-03", Amount: 8.5},
		{Utility: internal_models.UtilityElectricity, Period: "2025-02", Amount: 115.74},
		{Utility: internal_models.UtilityWater, Period: "2025-02", Amount: 8.7629},
	}

	u := SummarizeUsage(readings)
	assert.Equal(t, internal_models.ServiceUsageRecord{Amount: 125, Unit: "kWh", Change: 8, ChangeType: internal_models.ChangeIncrease}, u.Electricity)
	assert.Equal(t, internal_models.ServiceUsageRecord{Amount: 8.5, Unit: "m³", Change: -3, ChangeType: internal_models.ChangeDecrease}, u.Water)
	assert.Equal(t, internal_models.ServiceUsageRecord{Unit: "GB", ChangeType: internal_models.ChangeNeutral}, u.Internet)
	for _, util := range internal_models.Utilities {
		assert.True(t, u.Record(util).Consistent(), util)
	}
}

func TestMapPgError(t *testing.T) {
	dup := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	assert.ErrorIs(t, mapPgError(dup), ErrDuplicateKey)

	other := &pgconn.PgError{Code: "23503"}
	assert.Equal(t, error(other), mapPgError(other))

	plain := errors.New("conn reset")
	assert.Equal(t, plain, mapPgError(plain))
}
