package repositories

import (
	"context"

	"github.com/jackc/pgx/v4"
	internal_models "github.com/tropay/tenant-service/internal/models"
	"github.com/tropay/tenant-service/shared/go-repositories"
)

// RecentUpdateRepository stores the append-only activity feed.
type RecentUpdateRepository interface {
	ListForTenant(ctx context.Context, tenantID string, limit int) ([]*internal_models.RecentUpdate, error)
	Create(ctx context.Context, u *internal_models.RecentUpdate) error
}

type recentUpdateRepo struct {
	db repositories.DB
}

func NewRecentUpdateRepository(db repositories.DB) RecentUpdateRepository {
	return &recentUpdateRepo{db: db}
}

func (r *recentUpdateRepo) scanUpdate(row pgx.Row) (*internal_models.RecentUpdate, error) {
	var u internal_models.RecentUpdate
	if err := row.Scan(&u.ID, &u.TenantID, &u.Type, &u.Title, &u.Description, &u.Timestamp, &u.Status); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *recentUpdateRepo) ListForTenant(ctx context.Context, tenantID string, limit int) ([]*internal_models.RecentUpdate, error) {
	q := `
		SELECT id, tenant_id, update_type, title, description, created_at, status
		FROM recent_updates
		WHERE tenant_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, q, tenantID, limit)
	if err != nil {
		return nil, err
	}
	return collect(rows, r.scanUpdate)
}

func (r *recentUpdateRepo) Create(ctx context.Context, u *internal_models.RecentUpdate) error {
	q := `
		INSERT INTO recent_updates (id, tenant_id, update_type, title, description, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, q, u.ID, u.TenantID, u.Type, u.Title, u.Description, u.Status, u.Timestamp)
	return err
}
