package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4"
	internal_models "github.com/tropay/tenant-service/internal/models"
	internal_utils "github.com/tropay/tenant-service/internal/utils"
	"github.com/tropay/tenant-service/shared/go-repositories"
)

// ProfileRepository reads the tenant profile and contact details.
type ProfileRepository interface {
	GetProfile(ctx context.Context, tenantID string) (*internal_models.TenantProfile, error)
	GetContact(ctx context.Context, tenantID string) (*internal_models.TenantContact, error)
}

type profileRepo struct {
	db repositories.DB
}

func NewProfileRepository(db repositories.DB) ProfileRepository {
	return &profileRepo{db: db}
}

func (r *profileRepo) GetProfile(ctx context.Context, tenantID string) (*internal_models.TenantProfile, error) {
	q := `
		SELECT id, name, avatar_url, room_number, room_type, monthly_rent_cents, rent_due_date, contract_status
		FROM tenants
		WHERE id = $1
	`
	var (
		p         internal_models.TenantProfile
		rentCents int64
		dueDate   time.Time
	)
	err := r.db.QueryRow(ctx, q, tenantID).Scan(
		&p.ID, &p.Name, &p.Avatar, &p.RoomInfo.RoomNumber, &p.RoomInfo.RoomType,
		&rentCents, &dueDate, &p.RoomInfo.ContractStatus,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p.RoomInfo.MonthlyRent = internal_utils.CentsToDecimal(rentCents)
	p.RoomInfo.DueDate = internal_models.DateOf(dueDate)
	return &p, nil
}

func (r *profileRepo) GetContact(ctx context.Context, tenantID string) (*internal_models.TenantContact, error) {
	q := `
		SELECT id, name, email, phone_number, landlord_name, landlord_email, landlord_phone
		FROM tenants
		WHERE id = $1
	`
	var c internal_models.TenantContact
	err := r.db.QueryRow(ctx, q, tenantID).Scan(
		&c.TenantID, &c.Name, &c.Email, &c.PhoneNumber, &c.LandlordName, &c.LandlordEmail, &c.LandlordPhone,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
