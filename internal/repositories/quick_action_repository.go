package repositories

import (
	"context"

	"github.com/jackc/pgx/v4"
	internal_models "github.com/tropay/tenant-service/internal/models"
	"github.com/tropay/tenant-service/shared/go-repositories"
)

// QuickActionRepository lists the dashboard shortcuts. Rows without a tenant
// apply to everyone.
type QuickActionRepository interface {
	ListForTenant(ctx context.Context, tenantID string) ([]*internal_models.QuickAction, error)
}

type quickActionRepo struct {
	db repositories.DB
}

func NewQuickActionRepository(db repositories.DB) QuickActionRepository {
	return &quickActionRepo{db: db}
}

func (r *quickActionRepo) ListForTenant(ctx context.Context, tenantID string) ([]*internal_models.QuickAction, error) {
	q := `
		SELECT id, title, icon, color, kind
		FROM quick_actions
		WHERE tenant_id IS NULL OR tenant_id = $1
		ORDER BY position, id
	`
	rows, err := r.db.Query(ctx, q, tenantID)
	if err != nil {
		return nil, err
	}
	return collect(rows, func(row pgx.Row) (*internal_models.QuickAction, error) {
		var a internal_models.QuickAction
		if err := row.Scan(&a.ID, &a.Title, &a.Icon, &a.Color, &a.Kind); err != nil {
			return nil, err
		}
		return &a, nil
	})
}
