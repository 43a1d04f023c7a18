package memrepo

import (
	"context"
	"sort"
	"sync"

	internal_models "github.com/tropay/tenant-service/internal/models"
	"github.com/tropay/tenant-service/internal/repositories"
)

// UsageRepo implements repositories.UsageRepository. A tenant may carry a
// fixed summary (as served by the mobile mock) or raw readings, in which case
// the summary is derived.
type UsageRepo struct {
	mu        sync.RWMutex
	summaries map[string]internal_models.ServiceUsage
	readings  map[string][]internal_models.UsageReading
}

var _ repositories.UsageRepository = (*UsageRepo)(nil)

func NewUsageRepo() *UsageRepo {
	return &UsageRepo{
		summaries: make(map[string]internal_models.ServiceUsage),
		readings:  make(map[string][]internal_models.UsageReading),
	}
}

func (r *UsageRepo) PutSummary(tenantID string, u internal_models.ServiceUsage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.summaries[tenantID] = u
}

func (r *UsageRepo) AddReading(rd internal_models.UsageReading) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.readings[rd.TenantID] = append(r.readings[rd.TenantID], rd)
}

func (r *UsageRepo) GetServiceUsage(_ context.Context, tenantID string) (*internal_models.ServiceUsage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if s, ok := r.summaries[tenantID]; ok {
		return &s, nil
	}

	all := r.readings[tenantID]
	periods := map[string]bool{}
	for _, rd := range all {
		periods[rd.Period] = true
	}
	ordered := make([]string, 0, len(periods))
	for p := range periods {
		ordered = append(ordered, p)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(ordered)))
	if len(ordered) > 2 {
		ordered = ordered[:2]
	}

	var latest []*internal_models.UsageReading
	for _, p := range ordered {
		for i := range all {
			if all[i].Period == p {
				rd := all[i]
				latest = append(latest, &rd)
			}
		}
	}
	return repositories.SummarizeUsage(latest), nil
}

func (r *UsageRepo) ListReadings(_ context.Context, tenantID, period string) ([]*internal_models.UsageReading, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*internal_models.UsageReading
	for _, rd := range r.readings[tenantID] {
		if rd.Period == period {
			c := rd
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Utility < out[j].Utility })
	return out, nil
}
