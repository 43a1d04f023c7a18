package memrepo

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	internal_models "github.com/tropay/tenant-service/internal/models"
	"github.com/tropay/tenant-service/internal/repositories"
	shared_utils "github.com/tropay/tenant-service/shared/go-utils"
)

// IssueRepo implements repositories.IssueRepository.
type IssueRepo struct {
	mu     sync.RWMutex
	issues []internal_models.Issue
}

var _ repositories.IssueRepository = (*IssueRepo)(nil)

func NewIssueRepo() *IssueRepo {
	return &IssueRepo{}
}

func (r *IssueRepo) Create(_ context.Context, i *internal_models.Issue) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *i
	c.Images = append([]string{}, i.Images...)
	r.issues = append(r.issues, c)
	return nil
}

func (r *IssueRepo) GetByID(_ context.Context, id uuid.UUID) (*internal_models.Issue, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, i := range r.issues {
		if i.ID == id {
			return &i, nil
		}
	}
	return nil, nil
}

func (r *IssueRepo) ListForTenant(
	_ context.Context,
	tenantID string,
	status internal_models.IssueStatusType,
	page shared_utils.Page,
) ([]*internal_models.Issue, int, error) {
	r.mu.RLock()
	var all []*internal_models.Issue
	for _, i := range r.issues {
		if i.TenantID == tenantID && (status == "" || i.Status == status) {
			all = append(all, &i)
		}
	}
	r.mu.RUnlock()

	byNewest(all, func(i *internal_models.Issue) time.Time { return i.CreatedAt })
	return pageOf(all, page.Offset(), page.Limit), len(all), nil
}

// FeedbackRepo implements repositories.FeedbackRepository.
type FeedbackRepo struct {
	mu    sync.RWMutex
	items []internal_models.Feedback
}

var _ repositories.FeedbackRepository = (*FeedbackRepo)(nil)

func NewFeedbackRepo() *FeedbackRepo {
	return &FeedbackRepo{}
}

func (r *FeedbackRepo) Create(_ context.Context, f *internal_models.Feedback) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, *f)
	return nil
}

func (r *FeedbackRepo) ListForTenant(_ context.Context, tenantID string, page shared_utils.Page) ([]*internal_models.Feedback, int, error) {
	r.mu.RLock()
	var all []*internal_models.Feedback
	for _, f := range r.items {
		if f.TenantID == tenantID {
			all = append(all, &f)
		}
	}
	r.mu.RUnlock()

	byNewest(all, func(f *internal_models.Feedback) time.Time { return f.CreatedAt })
	return pageOf(all, page.Offset(), page.Limit), len(all), nil
}

// RoomContractRepo implements repositories.RoomContractRepository.
type RoomContractRepo struct {
	mu        sync.RWMutex
	contracts map[string]internal_models.RoomContract
	renewals  []internal_models.RenewalRequest
}

var _ repositories.RoomContractRepository = (*RoomContractRepo)(nil)

func NewRoomContractRepo() *RoomContractRepo {
	return &RoomContractRepo{contracts: make(map[string]internal_models.RoomContract)}
}

func (r *RoomContractRepo) Put(rc internal_models.RoomContract) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.contracts[rc.TenantID] = rc
}

func (r *RoomContractRepo) GetForTenant(_ context.Context, tenantID string) (*internal_models.RoomContract, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rc, ok := r.contracts[tenantID]
	if !ok {
		return nil, nil
	}
	return &rc, nil
}

func (r *RoomContractRepo) CreateRenewalRequest(_ context.Context, req *internal_models.RenewalRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.renewals = append(r.renewals, *req)
	return nil
}

// Renewals returns the recorded renewal requests.
func (r *RoomContractRepo) Renewals() []internal_models.RenewalRequest {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]internal_models.RenewalRequest{}, r.renewals...)
}
