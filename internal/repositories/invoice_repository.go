package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	internal_models "github.com/tropay/tenant-service/internal/models"
	internal_utils "github.com/tropay/tenant-service/internal/utils"
	"github.com/tropay/tenant-service/shared/go-repositories"
)

// InvoiceRepository defines the interface for invoice data operations.
type InvoiceRepository interface {
	// GetCurrentForTenant returns the open invoice with the earliest due date,
	// or nil when the tenant owes nothing.
	GetCurrentForTenant(ctx context.Context, tenantID string) (*internal_models.Invoice, error)
	GetByID(ctx context.Context, id string) (*internal_models.Invoice, error)
	// ListOpen returns every unpaid invoice across tenants, for the sweep.
	ListOpen(ctx context.Context) ([]*internal_models.Invoice, error)
	UpdateIfVersion(ctx context.Context, inv *internal_models.Invoice, expectedVersion int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id string, mutate func(*internal_models.Invoice) error) error
}

type invoiceRepo struct {
	*repositories.BaseVersionedRepo[*internal_models.Invoice]
	db repositories.DB
}

func NewInvoiceRepository(db repositories.DB) InvoiceRepository {
	r := &invoiceRepo{db: db}
	selectStmt := baseSelectInvoice() + " WHERE id = $1"
	r.BaseVersionedRepo = repositories.NewBaseRepo(db, selectStmt, r.scanInvoice)
	return r
}

func baseSelectInvoice() string {
	return `
		SELECT id, tenant_id, total_amount_cents, due_date, status, row_version
		FROM invoices
	`
}

func (r *invoiceRepo) scanInvoice(row pgx.Row) (*internal_models.Invoice, error) {
	var (
		inv        internal_models.Invoice
		totalCents int64
		dueDate    time.Time
	)
	err := row.Scan(&inv.ID, &inv.TenantID, &totalCents, &dueDate, &inv.Status, &inv.RowVersion)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	inv.TotalAmount = internal_utils.CentsToDecimal(totalCents)
	inv.DueDate = internal_models.DateOf(dueDate)
	return &inv, nil
}

func (r *invoiceRepo) loadItems(ctx context.Context, inv *internal_models.Invoice) error {
	q := `
		SELECT id, description, amount_cents, item_type
		FROM invoice_items
		WHERE invoice_id = $1
		ORDER BY position
	`
	rows, err := r.db.Query(ctx, q, inv.ID)
	if err != nil {
		return err
	}
	items, err := collect(rows, func(row pgx.Row) (internal_models.InvoiceItem, error) {
		var (
			it    internal_models.InvoiceItem
			cents int64
		)
		if err := row.Scan(&it.ID, &it.Description, &cents, &it.Type); err != nil {
			return it, err
		}
		it.Amount = internal_utils.CentsToDecimal(cents)
		return it, nil
	})
	if err != nil {
		return err
	}
	inv.Items = items
	if inv.Items == nil {
		inv.Items = []internal_models.InvoiceItem{}
	}
	return nil
}

func (r *invoiceRepo) GetCurrentForTenant(ctx context.Context, tenantID string) (*internal_models.Invoice, error) {
	q := baseSelectInvoice() + `
		WHERE tenant_id = $1 AND status <> 'Paid'
		ORDER BY due_date ASC
		LIMIT 1
	`
	inv, err := r.scanInvoice(r.db.QueryRow(ctx, q, tenantID))
	if err != nil || inv == nil {
		return inv, err
	}
	if err := r.loadItems(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// GetByID returns the invoice with its line items. The optimistic-lock loop
// only touches status and reads through the base repo without items.
func (r *invoiceRepo) GetByID(ctx context.Context, id string) (*internal_models.Invoice, error) {
	inv, err := r.BaseVersionedRepo.GetByID(ctx, id)
	if err != nil || inv == nil {
		return inv, err
	}
	if err := r.loadItems(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func (r *invoiceRepo) ListOpen(ctx context.Context) ([]*internal_models.Invoice, error) {
	q := baseSelectInvoice() + " WHERE status <> 'Paid' ORDER BY due_date ASC"
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	return collect(rows, r.scanInvoice)
}

func (r *invoiceRepo) UpdateIfVersion(ctx context.Context, inv *internal_models.Invoice, expectedVersion int64) (pgconn.CommandTag, error) {
	q := `
		UPDATE invoices SET
			status = $1,
			updated_at = NOW(),
			row_version = row_version + 1
		WHERE id = $2 AND row_version = $3
	`
	return r.db.Exec(ctx, q, inv.Status, inv.ID, expectedVersion)
}

func (r *invoiceRepo) UpdateWithRetry(ctx context.Context, id string, mutate func(*internal_models.Invoice) error) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id, mutate, r.UpdateIfVersion)
}
