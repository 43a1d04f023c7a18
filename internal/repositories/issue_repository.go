package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	internal_models "github.com/tropay/tenant-service/internal/models"
	"github.com/tropay/tenant-service/shared/go-repositories"
	shared_utils "github.com/tropay/tenant-service/shared/go-utils"
)

// IssueRepository defines the interface for maintenance issue data operations.
type IssueRepository interface {
	Create(ctx context.Context, issue *internal_models.Issue) error
	GetByID(ctx context.Context, id uuid.UUID) (*internal_models.Issue, error)
	// ListForTenant filters by status when status is non-empty.
	ListForTenant(ctx context.Context, tenantID string, status internal_models.IssueStatusType, page shared_utils.Page) ([]*internal_models.Issue, int, error)
}

type issueRepo struct {
	db repositories.DB
}

func NewIssueRepository(db repositories.DB) IssueRepository {
	return &issueRepo{db: db}
}

func baseSelectIssue() string {
	return `
		SELECT id, tenant_id, ticket_number, title, description, priority, category, status,
			images, created_at, updated_at, resolved_at
		FROM issues
	`
}

func (r *issueRepo) scanIssue(row pgx.Row) (*internal_models.Issue, error) {
	var i internal_models.Issue
	err := row.Scan(
		&i.ID, &i.TenantID, &i.TicketNumber, &i.Title, &i.Description, &i.Priority, &i.Category, &i.Status,
		&i.Images, &i.CreatedAt, &i.UpdatedAt, &i.ResolvedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if i.Images == nil {
		i.Images = []string{}
	}
	return &i, nil
}

func (r *issueRepo) Create(ctx context.Context, i *internal_models.Issue) error {
	q := `
		INSERT INTO issues (
			id, tenant_id, ticket_number, title, description, priority, category, status,
			images, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
	`
	_, err := r.db.Exec(ctx, q,
		i.ID, i.TenantID, i.TicketNumber, i.Title, i.Description, i.Priority, i.Category, i.Status,
		i.Images, i.CreatedAt,
	)
	return mapPgError(err)
}

func (r *issueRepo) GetByID(ctx context.Context, id uuid.UUID) (*internal_models.Issue, error) {
	return r.scanIssue(r.db.QueryRow(ctx, baseSelectIssue()+" WHERE id = $1", id))
}

func (r *issueRepo) ListForTenant(
	ctx context.Context,
	tenantID string,
	status internal_models.IssueStatusType,
	page shared_utils.Page,
) ([]*internal_models.Issue, int, error) {
	where := " WHERE tenant_id = $1 AND ($2::text = '' OR status = $2)"

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM issues"+where, tenantID, string(status)).Scan(&total); err != nil {
		return nil, 0, err
	}
	q := baseSelectIssue() + where + " ORDER BY created_at DESC LIMIT $3 OFFSET $4"
	rows, err := r.db.Query(ctx, q, tenantID, string(status), page.Limit, page.Offset())
	if err != nil {
		return nil, 0, err
	}
	list, err := collect(rows, r.scanIssue)
	return list, total, err
}
