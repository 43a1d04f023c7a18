package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tropay/tenant-service/internal/models"
)

func TestComputeDelta(t *testing.T) {
	d, err := ComputeDelta(125, 100)
	require.NoError(t, err)
	assert.InDelta(t, 25.0, d.Change, 1e-9)
	assert.InDelta(t, 25.0, d.Percentage, 1e-9)
	assert.Equal(t, models.ChangeIncrease, d.Direction)

	d, err = ComputeDelta(8.5, 10)
	require.NoError(t, err)
	assert.InDelta(t, -1.5, d.Change, 1e-9)
	assert.InDelta(t, -15.0, d.Percentage, 1e-9)
	assert.Equal(t, models.ChangeDecrease, d.Direction)

	d, err = ComputeDelta(45, 45)
	require.NoError(t, err)
	assert.Zero(t, d.Change)
	assert.Zero(t, d.Percentage)
	assert.Equal(t, models.ChangeNeutral, d.Direction)
}

func TestComputeDeltaZeroBaseline(t *testing.T) {
	d, err := ComputeDelta(12, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrZeroBaseline))
	assert.InDelta(t, 12.0, d.Change, 1e-9)
	assert.Zero(t, d.Percentage)
	assert.Equal(t, models.ChangeIncrease, d.Direction)

	d, err = ComputeDelta(0, 0)
	assert.ErrorIs(t, err, ErrZeroBaseline)
	assert.Equal(t, models.ChangeNeutral, d.Direction)
}

func TestComputeDeltaDirectionMatchesSign(t *testing.T) {
	pairs := [][2]float64{{1, 2}, {2, 1}, {-3, -1}, {-1, -3}, {0.1, 0.1}, {1e6, 1e-3}}
	for _, p := range pairs {
		d, err := ComputeDelta(p[0], p[1])
		require.NoError(t, err)
		assert.Equal(t, DirectionOf(p[0]-p[1]), d.Direction)
		assert.True(t, models.ServiceUsageRecord{Change: d.Percentage, ChangeType: d.Direction}.Consistent())
	}
}

func TestServiceUsageRecordConsistent(t *testing.T) {
	assert.True(t, models.ServiceUsageRecord{Change: 8, ChangeType: models.ChangeIncrease}.Consistent())
	assert.True(t, models.ServiceUsageRecord{Change: -3, ChangeType: models.ChangeDecrease}.Consistent())
	assert.True(t, models.ServiceUsageRecord{Change: 0, ChangeType: models.ChangeNeutral}.Consistent())
	assert.False(t, models.ServiceUsageRecord{Change: 3, ChangeType: models.ChangeDecrease}.Consistent())
	assert.False(t, models.ServiceUsageRecord{Change: 0, ChangeType: models.ChangeIncrease}.Consistent())
	assert.False(t, models.ServiceUsageRecord{Change: 1, ChangeType: "up"}.Consistent())
}

func TestBuildUsageRecord(t *testing.T) {
	rec := BuildUsageRecord(models.UtilityElectricity, 125, 0)
	assert.Equal(t, "kWh", rec.Unit)
	assert.Zero(t, rec.Change)
	assert.Equal(t, models.ChangeNeutral, rec.ChangeType)
	assert.True(t, rec.Consistent())

	rec = BuildUsageRecord(models.UtilityElectricity, 125, 115.74)
	assert.Equal(t, 8.0, rec.Change)
	assert.Equal(t, models.ChangeIncrease, rec.ChangeType)

	rec = BuildUsageRecord(models.UtilityWater, 8.5, 8.7629)
	assert.Equal(t, -3.0, rec.Change)
	assert.Equal(t, models.ChangeDecrease, rec.ChangeType)

	rec = BuildUsageRecord(models.UtilityInternet, 100.01, 100)
	assert.Zero(t, rec.Change)
	assert.Equal(t, models.ChangeNeutral, rec.ChangeType)
}
