package memrepo

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	internal_models "github.com/tropay/tenant-service/internal/models"
	"github.com/tropay/tenant-service/internal/repositories"
	shared_repositories "github.com/tropay/tenant-service/shared/go-repositories"
	shared_utils "github.com/tropay/tenant-service/shared/go-utils"
)

// PaymentIntentRepo implements repositories.PaymentIntentRepository.
type PaymentIntentRepo struct {
	mu      sync.RWMutex
	intents map[uuid.UUID]*internal_models.PaymentIntent
}

var _ repositories.PaymentIntentRepository = (*PaymentIntentRepo)(nil)

func NewPaymentIntentRepo() *PaymentIntentRepo {
	return &PaymentIntentRepo{intents: make(map[uuid.UUID]*internal_models.PaymentIntent)}
}

func cloneIntent(p *internal_models.PaymentIntent) *internal_models.PaymentIntent {
	c := *p
	return &c
}

func (r *PaymentIntentRepo) Create(_ context.Context, p *internal_models.PaymentIntent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.intents {
		if existing.IdempotencyKey == p.IdempotencyKey && !existing.IsTerminal() {
			return repositories.ErrDuplicateKey
		}
	}
	p.RowVersion = 1
	r.intents[p.ID] = cloneIntent(p)
	return nil
}

func (r *PaymentIntentRepo) GetByID(_ context.Context, id uuid.UUID) (*internal_models.PaymentIntent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.intents[id]
	if !ok {
		return nil, nil
	}
	return cloneIntent(p), nil
}

func (r *PaymentIntentRepo) find(match func(*internal_models.PaymentIntent) bool) *internal_models.PaymentIntent {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.intents {
		if match(p) {
			return cloneIntent(p)
		}
	}
	return nil
}

func (r *PaymentIntentRepo) GetActiveByIdempotencyKey(_ context.Context, key string) (*internal_models.PaymentIntent, error) {
	return r.find(func(p *internal_models.PaymentIntent) bool {
		return p.IdempotencyKey == key && !p.IsTerminal()
	}), nil
}

func (r *PaymentIntentRepo) GetBySessionID(_ context.Context, sessionID string) (*internal_models.PaymentIntent, error) {
	return r.find(func(p *internal_models.PaymentIntent) bool {
		return p.GatewaySessionID != nil && *p.GatewaySessionID == sessionID
	}), nil
}

func (r *PaymentIntentRepo) ListForTenant(_ context.Context, tenantID string, page shared_utils.Page) ([]*internal_models.PaymentIntent, int, error) {
	r.mu.RLock()
	var all []*internal_models.PaymentIntent
	for _, p := range r.intents {
		if p.TenantID == tenantID {
			all = append(all, cloneIntent(p))
		}
	}
	r.mu.RUnlock()

	byNewest(all, func(p *internal_models.PaymentIntent) time.Time { return p.CreatedAt })
	return pageOf(all, page.Offset(), page.Limit), len(all), nil
}

func (r *PaymentIntentRepo) ListStalePending(_ context.Context, olderThan time.Time) ([]*internal_models.PaymentIntent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*internal_models.PaymentIntent
	for _, p := range r.intents {
		if p.Status == internal_models.PaymentStatusPending && p.CreatedAt.Before(olderThan) {
			out = append(out, cloneIntent(p))
		}
	}
	return out, nil
}

func (r *PaymentIntentRepo) UpdateIfVersion(_ context.Context, p *internal_models.PaymentIntent, expectedVersion int64) (pgconn.CommandTag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.intents[p.ID]
	if !ok || cur.RowVersion != expectedVersion {
		return pgconn.CommandTag("UPDATE 0"), nil
	}
	c := cloneIntent(p)
	c.RowVersion = expectedVersion + 1
	c.UpdatedAt = time.Now().UTC()
	r.intents[p.ID] = c
	return pgconn.CommandTag("UPDATE 1"), nil
}

func (r *PaymentIntentRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*internal_models.PaymentIntent) error) error {
	getByID := func(ctx context.Context, id string) (*internal_models.PaymentIntent, error) {
		parsed, err := uuid.Parse(id)
		if err != nil {
			return nil, err
		}
		return r.GetByID(ctx, parsed)
	}
	return shared_repositories.WithRetry[*internal_models.PaymentIntent](ctx, 3, id.String(), getByID, r.UpdateIfVersion, mutate)
}
