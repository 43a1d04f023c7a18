package services

import (
	"context"
	"sync"
	"time"

	"github.com/tropay/tenant-service/internal/constants"
	internal_models "github.com/tropay/tenant-service/internal/models"
	internal_repositories "github.com/tropay/tenant-service/internal/repositories"
	internal_utils "github.com/tropay/tenant-service/internal/utils"
	"github.com/tropay/tenant-service/shared/go-utils"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// DashboardService composes the tenant dashboard from its collaborators.
type DashboardService struct {
	profileRepo     internal_repositories.ProfileRepository
	invoiceRepo     internal_repositories.InvoiceRepository
	usageRepo       internal_repositories.UsageRepository
	updateRepo      internal_repositories.RecentUpdateRepository
	quickActionRepo internal_repositories.QuickActionRepository

	refreshes   singleflight.Group
	mu          sync.Mutex
	generations map[string]uint64
	now         func() time.Time
}

func NewDashboardService(
	profileRepo internal_repositories.ProfileRepository,
	invoiceRepo internal_repositories.InvoiceRepository,
	usageRepo internal_repositories.UsageRepository,
	updateRepo internal_repositories.RecentUpdateRepository,
	quickActionRepo internal_repositories.QuickActionRepository,
) *DashboardService {
	return &DashboardService{
		profileRepo:     profileRepo,
		invoiceRepo:     invoiceRepo,
		usageRepo:       usageRepo,
		updateRepo:      updateRepo,
		quickActionRepo: quickActionRepo,
		generations:     make(map[string]uint64),
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// FetchDashboard returns the tenant's dashboard, or a *FetchError naming the
// first collaborator that failed. Callers that overlap for the same tenant
// share one fetch and one Generation. Each caller gets its own copy of the
// quick actions with triggers bound to dispatcher.
func (s *DashboardService) FetchDashboard(
	ctx context.Context,
	tenantID string,
	dispatcher ActionDispatcher,
) (*internal_models.TenantDashboardData, error) {
	ch := s.refreshes.DoChan(tenantID, func() (any, error) {
		// Detached so one caller going away does not fail the others.
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), constants.DashboardFetchTimeout)
		defer cancel()
		return s.fetch(fetchCtx, tenantID)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		shared := res.Val.(*internal_models.TenantDashboardData)
		return bindQuickActions(shared, tenantID, dispatcher), nil
	}
}

// Generation is the last generation handed out for tenantID.
func (s *DashboardService) Generation(tenantID string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generations[tenantID]
}

func (s *DashboardService) nextGeneration(tenantID string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generations[tenantID]++
	return s.generations[tenantID]
}

func (s *DashboardService) fetch(ctx context.Context, tenantID string) (*internal_models.TenantDashboardData, error) {
	var (
		profile *internal_models.TenantProfile
		invoice *internal_models.Invoice
		usage   *internal_models.ServiceUsage
		updates []*internal_models.RecentUpdate
		actions []*internal_models.QuickAction
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		profile, err = s.profileRepo.GetProfile(gctx, tenantID)
		return wrapFetch("profile", err)
	})
	g.Go(func() (err error) {
		invoice, err = s.invoiceRepo.GetCurrentForTenant(gctx, tenantID)
		return wrapFetch("invoice", err)
	})
	g.Go(func() (err error) {
		usage, err = s.usageRepo.GetServiceUsage(gctx, tenantID)
		return wrapFetch("usage", err)
	})
	g.Go(func() (err error) {
		updates, err = s.updateRepo.ListForTenant(gctx, tenantID, constants.RecentUpdatesLimit)
		return wrapFetch("recent_updates", err)
	})
	g.Go(func() (err error) {
		actions, err = s.quickActionRepo.ListForTenant(gctx, tenantID)
		return wrapFetch("quick_actions", err)
	})
	if err := g.Wait(); err != nil {
		utils.Logger.WithError(err).Errorf("Dashboard fetch failed for tenant %s", tenantID)
		return nil, err
	}
	if profile == nil {
		return nil, internal_utils.NewNotFoundError("tenant", tenantID)
	}

	data := &internal_models.TenantDashboardData{
		Profile:        *profile,
		CurrentInvoice: invoice,
		QuickActions:   make([]internal_models.QuickAction, 0, len(actions)),
		RecentUpdates:  make([]internal_models.RecentUpdate, 0, len(updates)),
		FetchedAt:      s.now(),
	}
	if usage != nil {
		data.ServiceUsage = *usage
	}
	for _, u := range internal_models.Utilities {
		if rec := data.ServiceUsage.Record(u); !rec.Consistent() {
			utils.Logger.Warnf("Tenant %s %s usage has change %v but change type %q",
				tenantID, u, rec.Change, rec.ChangeType)
		}
	}
	for _, a := range actions {
		data.QuickActions = append(data.QuickActions, *a)
	}
	for _, u := range updates {
		data.RecentUpdates = append(data.RecentUpdates, *u)
	}
	data.Generation = s.nextGeneration(tenantID)
	return data, nil
}

func wrapFetch(source string, err error) error {
	if err == nil {
		return nil
	}
	return &internal_utils.FetchError{Source: source, Err: err}
}

func bindQuickActions(
	shared *internal_models.TenantDashboardData,
	tenantID string,
	dispatcher ActionDispatcher,
) *internal_models.TenantDashboardData {
	out := *shared
	out.QuickActions = make([]internal_models.QuickAction, len(shared.QuickActions))
	for i, a := range shared.QuickActions {
		out.QuickActions[i] = a
		out.QuickActions[i].Trigger = bindTrigger(a, tenantID, dispatcher)
	}
	return &out
}

func bindTrigger(
	action internal_models.QuickAction,
	tenantID string,
	dispatcher ActionDispatcher,
) func(ctx context.Context) (*internal_models.QuickActionResult, error) {
	if dispatcher == nil {
		return nil
	}
	action.Trigger = nil
	return func(ctx context.Context) (*internal_models.QuickActionResult, error) {
		return dispatcher.Dispatch(ctx, tenantID, &action)
	}
}

// RunQuickAction looks up one of the tenant's quick actions and fires it
// through dispatcher.
func (s *DashboardService) RunQuickAction(
	ctx context.Context,
	tenantID, actionID string,
	dispatcher ActionDispatcher,
) (*internal_models.QuickActionResult, error) {
	actions, err := s.quickActionRepo.ListForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	for _, a := range actions {
		if a.ID == actionID {
			return bindTrigger(*a, tenantID, dispatcher)(ctx)
		}
	}
	return nil, internal_utils.NewNotFoundError("quick_action", actionID)
}
