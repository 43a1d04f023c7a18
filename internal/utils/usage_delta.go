package utils

import (
	"errors"
	"math"

	"github.com/tropay/tenant-service/internal/models"
)

// ErrZeroBaseline is returned when the previous reading is zero and no
// percentage can be computed.
var ErrZeroBaseline = errors.New("zero_baseline")

// Delta is the period-over-period change of a usage reading.
type Delta struct {
	Change     float64
	Percentage float64
	Direction  models.ChangeType
}

// ComputeDelta compares current against previous. When previous is zero the
// returned Delta still carries Change and Direction, Percentage is 0 and
// ErrZeroBaseline is returned.
func ComputeDelta(current, previous float64) (Delta, error) {
	change := current - previous
	d := Delta{Change: change, Direction: DirectionOf(change)}
	if previous == 0 {
		return d, ErrZeroBaseline
	}
	d.Percentage = change / previous * 100
	return d, nil
}

// DirectionOf classifies a signed change.
func DirectionOf(change float64) models.ChangeType {
	switch {
	case change > 0:
		return models.ChangeIncrease
	case change < 0:
		return models.ChangeDecrease
	default:
		return models.ChangeNeutral
	}
}

// BuildUsageRecord derives a dashboard usage record from two readings. The
// recorded change is the percentage rounded to one decimal, and its type
// always agrees with that rounded value.
func BuildUsageRecord(u models.Utility, current, previous float64) models.ServiceUsageRecord {
	d, _ := ComputeDelta(current, previous)
	pct := math.Round(d.Percentage*10) / 10
	return models.ServiceUsageRecord{
		Amount:     current,
		Unit:       u.Unit(),
		Change:     pct,
		ChangeType: DirectionOf(pct),
	}
}
