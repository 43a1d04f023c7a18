package memrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/jackc/pgconn"
	internal_models "github.com/tropay/tenant-service/internal/models"
	"github.com/tropay/tenant-service/internal/repositories"
	shared_repositories "github.com/tropay/tenant-service/shared/go-repositories"
)

// InvoiceRepo implements repositories.InvoiceRepository.
type InvoiceRepo struct {
	mu       sync.RWMutex
	invoices map[string]*internal_models.Invoice
}

var _ repositories.InvoiceRepository = (*InvoiceRepo)(nil)

func NewInvoiceRepo() *InvoiceRepo {
	return &InvoiceRepo{invoices: make(map[string]*internal_models.Invoice)}
}

func cloneInvoice(inv *internal_models.Invoice) *internal_models.Invoice {
	c := *inv
	c.Items = append([]internal_models.InvoiceItem{}, inv.Items...)
	return &c
}

func (r *InvoiceRepo) Put(inv *internal_models.Invoice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := cloneInvoice(inv)
	if c.RowVersion == 0 {
		c.RowVersion = 1
	}
	r.invoices[inv.ID] = c
}

func (r *InvoiceRepo) GetCurrentForTenant(_ context.Context, tenantID string) (*internal_models.Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var current *internal_models.Invoice
	for _, inv := range r.invoices {
		if inv.TenantID != tenantID || !inv.IsOpen() {
			continue
		}
		if current == nil || inv.DueDate.Before(current.DueDate.Time) {
			current = inv
		}
	}
	if current == nil {
		return nil, nil
	}
	return cloneInvoice(current), nil
}

func (r *InvoiceRepo) GetByID(_ context.Context, id string) (*internal_models.Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	inv, ok := r.invoices[id]
	if !ok {
		return nil, nil
	}
	return cloneInvoice(inv), nil
}

func (r *InvoiceRepo) ListOpen(_ context.Context) ([]*internal_models.Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*internal_models.Invoice
	for _, inv := range r.invoices {
		if inv.IsOpen() {
			out = append(out, cloneInvoice(inv))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate.Time) })
	return out, nil
}

func (r *InvoiceRepo) UpdateIfVersion(_ context.Context, inv *internal_models.Invoice, expectedVersion int64) (pgconn.CommandTag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.invoices[inv.ID]
	if !ok || cur.RowVersion != expectedVersion {
		return pgconn.CommandTag("UPDATE 0"), nil
	}
	c := cloneInvoice(inv)
	c.RowVersion = expectedVersion + 1
	r.invoices[inv.ID] = c
	return pgconn.CommandTag("UPDATE 1"), nil
}

func (r *InvoiceRepo) UpdateWithRetry(ctx context.Context, id string, mutate func(*internal_models.Invoice) error) error {
	return shared_repositories.WithRetry[*internal_models.Invoice](ctx, 3, id, r.GetByID, r.UpdateIfVersion, mutate)
}
