package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	internal_models "github.com/tropay/tenant-service/internal/models"
	internal_utils "github.com/tropay/tenant-service/internal/utils"
	"github.com/tropay/tenant-service/shared/go-repositories"
	shared_utils "github.com/tropay/tenant-service/shared/go-utils"
)

// PaymentIntentRepository defines the interface for payment intent data operations.
type PaymentIntentRepository interface {
	Create(ctx context.Context, p *internal_models.PaymentIntent) error
	GetByID(ctx context.Context, id uuid.UUID) (*internal_models.PaymentIntent, error)
	// GetActiveByIdempotencyKey returns the pending or processing intent
	// carrying key. Terminal intents never match.
	GetActiveByIdempotencyKey(ctx context.Context, key string) (*internal_models.PaymentIntent, error)
	GetBySessionID(ctx context.Context, sessionID string) (*internal_models.PaymentIntent, error)
	ListForTenant(ctx context.Context, tenantID string, page shared_utils.Page) ([]*internal_models.PaymentIntent, int, error)
	ListStalePending(ctx context.Context, olderThan time.Time) ([]*internal_models.PaymentIntent, error)
	UpdateIfVersion(ctx context.Context, p *internal_models.PaymentIntent, expectedVersion int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*internal_models.PaymentIntent) error) error
}

type paymentIntentRepo struct {
	*repositories.BaseVersionedRepo[*internal_models.PaymentIntent]
	db repositories.DB
}

func NewPaymentIntentRepository(db repositories.DB) PaymentIntentRepository {
	r := &paymentIntentRepo{db: db}
	selectStmt := baseSelectIntent() + " WHERE id = $1"
	r.BaseVersionedRepo = repositories.NewBaseRepo(db, selectStmt, r.scanIntent)
	return r
}

func baseSelectIntent() string {
	return `
		SELECT
			id, tenant_id, invoice_id, amount_cents, currency, status, idempotency_key,
			gateway_session_id, payment_url, transaction_id, failure_reason, completed_at,
			created_at, updated_at, row_version
		FROM payment_intents
	`
}

func (r *paymentIntentRepo) scanIntent(row pgx.Row) (*internal_models.PaymentIntent, error) {
	var (
		p     internal_models.PaymentIntent
		cents int64
	)
	err := row.Scan(
		&p.ID, &p.TenantID, &p.InvoiceID, &cents, &p.Currency, &p.Status, &p.IdempotencyKey,
		&p.GatewaySessionID, &p.PaymentURL, &p.TransactionID, &p.FailureReason, &p.CompletedAt,
		&p.CreatedAt, &p.UpdatedAt, &p.RowVersion,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p.Amount = internal_utils.CentsToDecimal(cents)
	return &p, nil
}

func (r *paymentIntentRepo) Create(ctx context.Context, p *internal_models.PaymentIntent) error {
	q := `
		INSERT INTO payment_intents (
			id, tenant_id, invoice_id, amount_cents, currency, status, idempotency_key,
			gateway_session_id, payment_url, created_at, updated_at, row_version
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10, 1)
	`
	_, err := r.db.Exec(ctx, q,
		p.ID, p.TenantID, p.InvoiceID, internal_utils.DecimalToCents(p.Amount), p.Currency, p.Status,
		p.IdempotencyKey, p.GatewaySessionID, p.PaymentURL, p.CreatedAt,
	)
	if err != nil {
		return mapPgError(err)
	}
	p.RowVersion = 1
	return nil
}

func (r *paymentIntentRepo) GetByID(ctx context.Context, id uuid.UUID) (*internal_models.PaymentIntent, error) {
	return r.BaseVersionedRepo.GetByID(ctx, id.String())
}

func (r *paymentIntentRepo) GetActiveByIdempotencyKey(ctx context.Context, key string) (*internal_models.PaymentIntent, error) {
	q := baseSelectIntent() + " WHERE idempotency_key = $1 AND status IN ('pending', 'processing')"
	return r.scanIntent(r.db.QueryRow(ctx, q, key))
}

func (r *paymentIntentRepo) GetBySessionID(ctx context.Context, sessionID string) (*internal_models.PaymentIntent, error) {
	return r.scanIntent(r.db.QueryRow(ctx, baseSelectIntent()+" WHERE gateway_session_id = $1", sessionID))
}

func (r *paymentIntentRepo) ListForTenant(ctx context.Context, tenantID string, page shared_utils.Page) ([]*internal_models.PaymentIntent, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM payment_intents WHERE tenant_id = $1", tenantID).Scan(&total); err != nil {
		return nil, 0, err
	}
	q := baseSelectIntent() + " WHERE tenant_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3"
	rows, err := r.db.Query(ctx, q, tenantID, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, err
	}
	list, err := collect(rows, r.scanIntent)
	return list, total, err
}

func (r *paymentIntentRepo) ListStalePending(ctx context.Context, olderThan time.Time) ([]*internal_models.PaymentIntent, error) {
	q := baseSelectIntent() + " WHERE status = 'pending' AND created_at < $1 ORDER BY created_at"
	rows, err := r.db.Query(ctx, q, olderThan)
	if err != nil {
		return nil, err
	}
	return collect(rows, r.scanIntent)
}

func (r *paymentIntentRepo) UpdateIfVersion(ctx context.Context, p *internal_models.PaymentIntent, expectedVersion int64) (pgconn.CommandTag, error) {
	q := `
		UPDATE payment_intents SET
			status = $1,
			gateway_session_id = $2,
			payment_url = $3,
			transaction_id = $4,
			failure_reason = $5,
			completed_at = $6,
			updated_at = NOW(),
			row_version = row_version + 1
		WHERE id = $7 AND row_version = $8
	`
	return r.db.Exec(ctx, q,
		p.Status, p.GatewaySessionID, p.PaymentURL, p.TransactionID, p.FailureReason, p.CompletedAt,
		p.ID, expectedVersion)
}

func (r *paymentIntentRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*internal_models.PaymentIntent) error) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id.String(), mutate, r.UpdateIfVersion)
}
