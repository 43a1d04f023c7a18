package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4"
	internal_models "github.com/tropay/tenant-service/internal/models"
	internal_utils "github.com/tropay/tenant-service/internal/utils"
	"github.com/tropay/tenant-service/shared/go-repositories"
)

type RoomContractRepository interface {
	GetForTenant(ctx context.Context, tenantID string) (*internal_models.RoomContract, error)
	CreateRenewalRequest(ctx context.Context, req *internal_models.RenewalRequest) error
}

type roomContractRepo struct {
	db repositories.DB
}

func NewRoomContractRepository(db repositories.DB) RoomContractRepository {
	return &roomContractRepo{db: db}
}

func (r *roomContractRepo) GetForTenant(ctx context.Context, tenantID string) (*internal_models.RoomContract, error) {
	q := `
		SELECT tenant_id, room_number, room_type, monthly_rent_cents, room_status,
			contract_id, start_date, end_date, total_amount_cents, contract_status, contract_url
		FROM room_contracts
		WHERE tenant_id = $1
	`
	var (
		rc                    internal_models.RoomContract
		rentCents, totalCents int64
		start, end            time.Time
	)
	err := r.db.QueryRow(ctx, q, tenantID).Scan(
		&rc.TenantID, &rc.Room.RoomNumber, &rc.Room.RoomType, &rentCents, &rc.Room.Status,
		&rc.Contract.ContractID, &start, &end, &totalCents, &rc.Contract.Status, &rc.Contract.ContractURL,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	rc.Room.MonthlyRent = internal_utils.CentsToDecimal(rentCents)
	rc.Contract.TotalAmount = internal_utils.CentsToDecimal(totalCents)
	rc.Contract.StartDate = internal_models.DateOf(start)
	rc.Contract.EndDate = internal_models.DateOf(end)
	return &rc, nil
}

func (r *roomContractRepo) CreateRenewalRequest(ctx context.Context, req *internal_models.RenewalRequest) error {
	q := `
		INSERT INTO renewal_requests (id, tenant_id, contract_id, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.Exec(ctx, q, req.ID, req.TenantID, req.ContractID, req.CreatedAt)
	return err
}
