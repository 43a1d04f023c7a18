package services

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tropay/tenant-service/internal/dtos"
	internal_models "github.com/tropay/tenant-service/internal/models"
	internal_repositories "github.com/tropay/tenant-service/internal/repositories"
	internal_utils "github.com/tropay/tenant-service/internal/utils"
	"github.com/tropay/tenant-service/shared/go-utils"
)

// PeriodLayout is the YYYY-MM billing period format.
const PeriodLayout = "2006-01"

type UsageService struct {
	usageRepo internal_repositories.UsageRepository
	now       func() time.Time
}

func NewUsageService(usageRepo internal_repositories.UsageRepository) *UsageService {
	return &UsageService{
		usageRepo: usageRepo,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// PreviousPeriod returns the YYYY-MM period before p.
func PreviousPeriod(p time.Time) string {
	return time.Date(p.Year(), p.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0).Format(PeriodLayout)
}

// GetUsageDetail compares each utility's reading for period against the
// previous month. An empty period means the current month.
func (s *UsageService) GetUsageDetail(ctx context.Context, tenantID, period string) (*dtos.UsageDetailResponse, error) {
	if period == "" {
		period = s.now().Format(PeriodLayout)
	}
	p, err := time.Parse(PeriodLayout, period)
	if err != nil {
		return nil, internal_utils.NewValidationError("period", errors.New("period must be YYYY-MM"))
	}

	current, err := s.usageRepo.ListReadings(ctx, tenantID, period)
	if err != nil {
		return nil, err
	}
	previous, err := s.usageRepo.ListReadings(ctx, tenantID, PreviousPeriod(p))
	if err != nil {
		return nil, err
	}
	cur, prev := indexReadings(current), indexReadings(previous)

	resp := &dtos.UsageDetailResponse{
		Period:    period,
		Utilities: make([]dtos.UtilityUsageDTO, 0, len(internal_models.Utilities)),
		TotalCost: decimal.Zero,
	}
	for _, u := range internal_models.Utilities {
		row := dtos.UtilityUsageDTO{Utility: string(u), Unit: u.Unit()}
		if r, ok := cur[u]; ok {
			row.Current = r.Amount
			row.Cost = r.Cost
			row.RatePerUnit = r.RatePerUnit
		}
		if r, ok := prev[u]; ok {
			row.Previous = r.Amount
		}

		d, err := internal_utils.ComputeDelta(row.Current, row.Previous)
		if err != nil && !errors.Is(err, internal_utils.ErrZeroBaseline) {
			return nil, err
		}
		if errors.Is(err, internal_utils.ErrZeroBaseline) {
			utils.Logger.Debugf("No %s baseline for tenant %s before %s", u, tenantID, period)
		}
		row.Change = d.Change
		row.Percentage = d.Percentage
		row.ChangeType = string(d.Direction)

		resp.TotalCost = resp.TotalCost.Add(row.Cost)
		resp.Utilities = append(resp.Utilities, row)
	}
	return resp, nil
}

func indexReadings(list []*internal_models.UsageReading) map[internal_models.Utility]*internal_models.UsageReading {
	m := make(map[internal_models.Utility]*internal_models.UsageReading, len(list))
	for _, r := range list {
		m[r.Utility] = r
	}
	return m
}
