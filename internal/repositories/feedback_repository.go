package repositories

import (
	"context"

	"github.com/jackc/pgx/v4"
	internal_models "github.com/tropay/tenant-service/internal/models"
	"github.com/tropay/tenant-service/shared/go-repositories"
	shared_utils "github.com/tropay/tenant-service/shared/go-utils"
)

type FeedbackRepository interface {
	Create(ctx context.Context, f *internal_models.Feedback) error
	ListForTenant(ctx context.Context, tenantID string, page shared_utils.Page) ([]*internal_models.Feedback, int, error)
}

type feedbackRepo struct {
	db repositories.DB
}

func NewFeedbackRepository(db repositories.DB) FeedbackRepository {
	return &feedbackRepo{db: db}
}

func (r *feedbackRepo) Create(ctx context.Context, f *internal_models.Feedback) error {
	q := `
		INSERT INTO feedback (id, tenant_id, feedback_type, rating, title, description, category, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(ctx, q, f.ID, f.TenantID, f.Type, f.Rating, f.Title, f.Description, f.Category, f.Status, f.CreatedAt)
	return err
}

func (r *feedbackRepo) ListForTenant(ctx context.Context, tenantID string, page shared_utils.Page) ([]*internal_models.Feedback, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM feedback WHERE tenant_id = $1", tenantID).Scan(&total); err != nil {
		return nil, 0, err
	}
	q := `
		SELECT id, tenant_id, feedback_type, rating, title, description, category, status, created_at
		FROM feedback
		WHERE tenant_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, q, tenantID, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, err
	}
	list, err := collect(rows, func(row pgx.Row) (*internal_models.Feedback, error) {
		var f internal_models.Feedback
		if err := row.Scan(&f.ID, &f.TenantID, &f.Type, &f.Rating, &f.Title, &f.Description, &f.Category, &f.Status, &f.CreatedAt); err != nil {
			return nil, err
		}
		return &f, nil
	})
	return list, total, err
}
