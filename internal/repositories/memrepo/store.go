// Package memrepo holds in-memory implementations of the repository
// interfaces. They back DATA_SOURCE=memory and serve as test doubles.
package memrepo

import (
	"sort"
	"sync"
	"time"

	internal_models "github.com/tropay/tenant-service/internal/models"
	"github.com/tropay/tenant-service/internal/repositories"
)

// Store bundles one instance of every in-memory repository.
type Store struct {
	Profiles      *ProfileRepo
	Invoices      *InvoiceRepo
	Usage         *UsageRepo
	Updates       *RecentUpdateRepo
	QuickActions  *QuickActionRepo
	Payments      *PaymentIntentRepo
	Issues        *IssueRepo
	Feedback      *FeedbackRepo
	RoomContracts *RoomContractRepo
}

func NewStore() *Store {
	return &Store{
		Profiles:      NewProfileRepo(),
		Invoices:      NewInvoiceRepo(),
		Usage:         NewUsageRepo(),
		Updates:       NewRecentUpdateRepo(),
		QuickActions:  NewQuickActionRepo(),
		Payments:      NewPaymentIntentRepo(),
		Issues:        NewIssueRepo(),
		Feedback:      NewFeedbackRepo(),
		RoomContracts: NewRoomContractRepo(),
	}
}

// ProfileRepo implements repositories.ProfileRepository.
type ProfileRepo struct {
	mu       sync.RWMutex
	profiles map[string]internal_models.TenantProfile
	contacts map[string]internal_models.TenantContact
}

var _ repositories.ProfileRepository = (*ProfileRepo)(nil)

func NewProfileRepo() *ProfileRepo {
	return &ProfileRepo{
		profiles: make(map[string]internal_models.TenantProfile),
		contacts: make(map[string]internal_models.TenantContact),
	}
}

func (r *ProfileRepo) Put(p internal_models.TenantProfile, c internal_models.TenantContact) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[p.ID] = p
	c.TenantID = p.ID
	r.contacts[p.ID] = c
}

// TenantIDs lists every known tenant, sorted.
func (r *ProfileRepo) TenantIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.profiles))
	for id := range r.profiles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// byNewest sorts records newest first using the given timestamp accessor.
func byNewest[T any](list []T, ts func(T) time.Time) {
	sort.SliceStable(list, func(i, j int) bool { return ts(list[i]).After(ts(list[j])) })
}

// pageOf slices list for page p.
func pageOf[T any](list []T, offset, limit int) []T {
	if offset < 0 || limit < 0 || offset >= len(list) {
		return []T{}
	}
	end := len(list)
	if limit < end-offset {
		end = offset + limit
	}
	return list[offset:end]
}
