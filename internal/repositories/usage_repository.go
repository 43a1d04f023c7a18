package repositories

import (
	"context"

	"github.com/jackc/pgx/v4"
	internal_models "github.com/tropay/tenant-service/internal/models"
	internal_utils "github.com/tropay/tenant-service/internal/utils"
	"github.com/tropay/tenant-service/shared/go-repositories"
)

// UsageRepository reads metered utility readings.
type UsageRepository interface {
	// GetServiceUsage summarizes the latest period against the one before.
	GetServiceUsage(ctx context.Context, tenantID string) (*internal_models.ServiceUsage, error)
	// ListReadings returns the readings for one YYYY-MM period.
	ListReadings(ctx context.Context, tenantID, period string) ([]*internal_models.UsageReading, error)
}

type usageRepo struct {
	db repositories.DB
}

func NewUsageRepository(db repositories.DB) UsageRepository {
	return &usageRepo{db: db}
}

func baseSelectReading() string {
	return `
		SELECT tenant_id, utility, period, amount, cost_cents, rate_per_unit_cents,
			previous_reading, current_reading, reading_date
		FROM usage_readings
	`
}

func (r *usageRepo) scanReading(row pgx.Row) (*internal_models.UsageReading, error) {
	var (
		u                    internal_models.UsageReading
		costCents, rateCents int64
	)
	err := row.Scan(
		&u.TenantID, &u.Utility, &u.Period, &u.Amount, &costCents, &rateCents,
		&u.PreviousReading, &u.CurrentReading, &u.ReadingDate,
	)
	if err != nil {
		return nil, err
	}
	u.Cost = internal_utils.CentsToDecimal(costCents)
	u.RatePerUnit = internal_utils.CentsToDecimal(rateCents)
	return &u, nil
}

func (r *usageRepo) ListReadings(ctx context.Context, tenantID, period string) ([]*internal_models.UsageReading, error) {
	q := baseSelectReading() + " WHERE tenant_id = $1 AND period = $2 ORDER BY utility"
	rows, err := r.db.Query(ctx, q, tenantID, period)
	if err != nil {
		return nil, err
	}
	return collect(rows, r.scanReading)
}

func (r *usageRepo) GetServiceUsage(ctx context.Context, tenantID string) (*internal_models.ServiceUsage, error) {
	q := baseSelectReading() + `
		WHERE tenant_id = $1 AND period IN (
			SELECT DISTINCT period FROM usage_readings
			WHERE tenant_id = $1
			ORDER BY period DESC
			LIMIT 2
		)
		ORDER BY period DESC
	`
	rows, err := r.db.Query(ctx, q, tenantID)
	if err != nil {
		return nil, err
	}
	readings, err := collect(rows, r.scanReading)
	if err != nil {
		return nil, err
	}
	return SummarizeUsage(readings), nil
}

// SummarizeUsage builds the dashboard usage view from readings of the latest
// two periods. Readings must be ordered newest period first.
func SummarizeUsage(readings []*internal_models.UsageReading) *internal_models.ServiceUsage {
	type pair struct {
		current, previous float64
		seen              int
	}
	byUtility := make(map[internal_models.Utility]*pair)
	for _, rd := range readings {
		p, ok := byUtility[rd.Utility]
		if !ok {
			p = &pair{}
			byUtility[rd.Utility] = p
		}
		switch p.seen {
		case 0:
			p.current = rd.Amount
		case 1:
			p.previous = rd.Amount
		}
		p.seen++
	}

	usage := &internal_models.ServiceUsage{}
	for _, u := range internal_models.Utilities {
		p := byUtility[u]
		if p == nil {
			p = &pair{}
		}
		*usage.Record(u) = internal_utils.BuildUsageRecord(u, p.current, p.previous)
	}
	return usage
}
