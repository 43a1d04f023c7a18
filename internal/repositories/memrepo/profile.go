package memrepo

import (
	"context"

	internal_models "github.com/tropay/tenant-service/internal/models"
)

func (r *ProfileRepo) GetProfile(_ context.Context, tenantID string) (*internal_models.TenantProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[tenantID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *ProfileRepo) GetContact(_ context.Context, tenantID string) (*internal_models.TenantContact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.contacts[tenantID]
	if !ok {
		return nil, nil
	}
	return &c, nil
}
