package tenantapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jackc/pgconn"
	internal_models "github.com/tropay/tenant-service/internal/models"
	internal_repositories "github.com/tropay/tenant-service/internal/repositories"
	shared_repositories "github.com/tropay/tenant-service/shared/go-repositories"
)

// ErrUnsupported is returned for operations the upstream API does not offer.
var ErrUnsupported = errors.New("unsupported_by_upstream")

var (
	_ internal_repositories.ProfileRepository      = (*Client)(nil)
	_ internal_repositories.InvoiceRepository      = (*Client)(nil)
	_ internal_repositories.UsageRepository        = (*Client)(nil)
	_ internal_repositories.RecentUpdateRepository = (*Client)(nil)
	_ internal_repositories.QuickActionRepository  = quickActionAdapter{}
)

func tenantPath(tenantID string, parts ...string) string {
	p := "tenants/" + url.PathEscape(tenantID)
	for _, s := range parts {
		p += "/" + s
	}
	return p
}

// get runs a GET and maps 404 to found=false.
func (c *Client) get(ctx context.Context, reqPath string, out any) (bool, error) {
	err := c.doRequest(ctx, http.MethodGet, reqPath, nil, out)
	if errors.Is(err, errNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (c *Client) GetProfile(ctx context.Context, tenantID string) (*internal_models.TenantProfile, error) {
	var p internal_models.TenantProfile
	found, err := c.get(ctx, tenantPath(tenantID, "profile"), &p)
	if err != nil {
		return nil, fmt.Errorf("GetProfile error: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &p, nil
}

func (c *Client) GetContact(ctx context.Context, tenantID string) (*internal_models.TenantContact, error) {
	var p contactPayload
	found, err := c.get(ctx, tenantPath(tenantID, "contact"), &p)
	if err != nil {
		return nil, fmt.Errorf("GetContact error: %w", err)
	}
	if !found {
		return nil, nil
	}
	return p.toModel(tenantID), nil
}

func (c *Client) GetCurrentForTenant(ctx context.Context, tenantID string) (*internal_models.Invoice, error) {
	var p *invoicePayload
	found, err := c.get(ctx, tenantPath(tenantID, "invoices", "current"), &p)
	if err != nil {
		return nil, fmt.Errorf("GetCurrentInvoice error: %w", err)
	}
	if !found || p == nil {
		return nil, nil
	}
	inv := p.toModel()
	if inv.TenantID == "" {
		inv.TenantID = tenantID
	}
	return inv, nil
}

func (c *Client) GetByID(ctx context.Context, id string) (*internal_models.Invoice, error) {
	var p invoicePayload
	found, err := c.get(ctx, "invoices/"+url.PathEscape(id), &p)
	if err != nil {
		return nil, fmt.Errorf("GetInvoice error: %w", err)
	}
	if !found {
		return nil, nil
	}
	return p.toModel(), nil
}

// ListOpen is not offered upstream; the upstream system runs its own
// invoice lifecycle.
func (c *Client) ListOpen(context.Context) ([]*internal_models.Invoice, error) {
	return nil, ErrUnsupported
}

// UpdateIfVersion patches the invoice status conditionally on row_version.
// A 409 from upstream reports zero rows affected.
func (c *Client) UpdateIfVersion(ctx context.Context, inv *internal_models.Invoice, expectedVersion int64) (pgconn.CommandTag, error) {
	patch := invoiceStatusPatch{Status: inv.Status, RowVersion: expectedVersion}
	err := c.doRequest(ctx, http.MethodPatch, "invoices/"+url.PathEscape(inv.ID), patch, nil)
	switch {
	case errors.Is(err, errVersionConflict), errors.Is(err, errNotFound):
		return pgconn.CommandTag("UPDATE 0"), nil
	case err != nil:
		return nil, fmt.Errorf("UpdateInvoice error: %w", err)
	default:
		return pgconn.CommandTag("UPDATE 1"), nil
	}
}

func (c *Client) UpdateWithRetry(ctx context.Context, id string, mutate func(*internal_models.Invoice) error) error {
	return shared_repositories.WithRetry[*internal_models.Invoice](ctx, 3, id, c.GetByID, c.UpdateIfVersion, mutate)
}

func (c *Client) GetServiceUsage(ctx context.Context, tenantID string) (*internal_models.ServiceUsage, error) {
	var u internal_models.ServiceUsage
	found, err := c.get(ctx, tenantPath(tenantID, "usage"), &u)
	if err != nil {
		return nil, fmt.Errorf("GetServiceUsage error: %w", err)
	}
	if !found {
		return &internal_models.ServiceUsage{}, nil
	}
	return &u, nil
}

func (c *Client) ListReadings(ctx context.Context, tenantID, period string) ([]*internal_models.UsageReading, error) {
	var list []*internal_models.UsageReading
	reqPath := tenantPath(tenantID, "usage", "readings", url.PathEscape(period))
	if _, err := c.get(ctx, reqPath, &list); err != nil {
		return nil, fmt.Errorf("ListReadings error: %w", err)
	}
	for _, r := range list {
		r.TenantID = tenantID
	}
	return list, nil
}

func (c *Client) ListForTenant(ctx context.Context, tenantID string, limit int) ([]*internal_models.RecentUpdate, error) {
	var list []updatePayload
	reqPath := tenantPath(tenantID, "updates") + "?limit=" + strconv.Itoa(limit)
	if _, err := c.get(ctx, reqPath, &list); err != nil {
		return nil, fmt.Errorf("ListRecentUpdates error: %w", err)
	}
	out := make([]*internal_models.RecentUpdate, 0, len(list))
	for _, p := range list {
		out = append(out, &internal_models.RecentUpdate{
			ID:          p.ID,
			TenantID:    tenantID,
			Type:        p.Type,
			Title:       p.Title,
			Description: p.Description,
			Timestamp:   p.Timestamp,
			Status:      p.Status,
		})
	}
	return out, nil
}

func (c *Client) Create(ctx context.Context, u *internal_models.RecentUpdate) error {
	body := updatePayload{
		ID:          u.ID,
		Type:        u.Type,
		Title:       u.Title,
		Description: u.Description,
		Timestamp:   u.Timestamp,
		Status:      u.Status,
	}
	if err := c.doRequest(ctx, http.MethodPost, tenantPath(u.TenantID, "updates"), body, nil); err != nil {
		return fmt.Errorf("CreateRecentUpdate error: %w", err)
	}
	return nil
}

// QuickActions adapts the client to QuickActionRepository, whose method
// name collides with the recent updates listing.
func (c *Client) QuickActions() internal_repositories.QuickActionRepository {
	return quickActionAdapter{c}
}

type quickActionAdapter struct {
	c *Client
}

func (a quickActionAdapter) ListForTenant(ctx context.Context, tenantID string) ([]*internal_models.QuickAction, error) {
	var list []*internal_models.QuickAction
	if _, err := a.c.get(ctx, tenantPath(tenantID, "quick-actions"), &list); err != nil {
		return nil, fmt.Errorf("ListQuickActions error: %w", err)
	}
	return list, nil
}
