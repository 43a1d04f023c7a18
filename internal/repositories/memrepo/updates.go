package memrepo

import (
	"context"
	"sync"
	"time"

	internal_models "github.com/tropay/tenant-service/internal/models"
	"github.com/tropay/tenant-service/internal/repositories"
)

// RecentUpdateRepo implements repositories.RecentUpdateRepository.
type RecentUpdateRepo struct {
	mu      sync.RWMutex
	updates []internal_models.RecentUpdate
}

var _ repositories.RecentUpdateRepository = (*RecentUpdateRepo)(nil)

func NewRecentUpdateRepo() *RecentUpdateRepo {
	return &RecentUpdateRepo{}
}

func (r *RecentUpdateRepo) Create(_ context.Context, u *internal_models.RecentUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, *u)
	return nil
}

func (r *RecentUpdateRepo) ListForTenant(_ context.Context, tenantID string, limit int) ([]*internal_models.RecentUpdate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*internal_models.RecentUpdate
	for i := range r.updates {
		if r.updates[i].TenantID == tenantID {
			u := r.updates[i]
			out = append(out, &u)
		}
	}
	byNewest(out, func(u *internal_models.RecentUpdate) time.Time { return u.Timestamp })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// QuickActionRepo implements repositories.QuickActionRepository.
type QuickActionRepo struct {
	mu       sync.RWMutex
	defaults []internal_models.QuickAction
	byTenant map[string][]internal_models.QuickAction
}

var _ repositories.QuickActionRepository = (*QuickActionRepo)(nil)

func NewQuickActionRepo() *QuickActionRepo {
	return &QuickActionRepo{byTenant: make(map[string][]internal_models.QuickAction)}
}

// SetDefaults replaces the actions shown to every tenant.
func (r *QuickActionRepo) SetDefaults(actions []internal_models.QuickAction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defaults = append([]internal_models.QuickAction{}, actions...)
}

func (r *QuickActionRepo) AddForTenant(tenantID string, a internal_models.QuickAction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byTenant[tenantID] = append(r.byTenant[tenantID], a)
}

func (r *QuickActionRepo) ListForTenant(_ context.Context, tenantID string) ([]*internal_models.QuickAction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*internal_models.QuickAction, 0, len(r.defaults)+len(r.byTenant[tenantID]))
	for _, list := range [][]internal_models.QuickAction{r.defaults, r.byTenant[tenantID]} {
		for _, a := range list {
			a.Trigger = nil
			out = append(out, &a)
		}
	}
	return out, nil
}
