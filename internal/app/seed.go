package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/shopspring/decimal"
	internal_models "github.com/tropay/tenant-service/internal/models"
	"github.com/tropay/tenant-service/internal/repositories/memrepo"
	internal_utils "github.com/tropay/tenant-service/internal/utils"
	"github.com/tropay/tenant-service/shared/go-utils"
)

// DefaultTenantID is the demo tenant. Its presence marks the seed as applied.
const DefaultTenantID = "7d0c2f4e-5b1a-4c8e-9f3d-2a6b8e1c0d01"

// seedData is the demo tenant shown by the mobile app out of the box.
type seedData struct {
	Profile      internal_models.TenantProfile
	Contact      internal_models.TenantContact
	Invoice      internal_models.Invoice
	Readings     []internal_models.UsageReading
	Updates      []internal_models.RecentUpdate
	QuickActions []internal_models.QuickAction
	RoomContract internal_models.RoomContract
}

func demoSeed(now time.Time) seedData {
	today := internal_models.DateOf(now)
	dueDate := internal_models.DateOf(now.AddDate(0, 0, 2))
	period := now.Format("2006-01")
	prevPeriod := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0).Format("2006-01")

	pending := internal_models.UpdateStatusPending
	resolved := internal_models.UpdateStatusResolved

	reading := func(u internal_models.Utility, p string, amount float64, cost, rate string) internal_models.UsageReading {
		return internal_models.UsageReading{
			TenantID:    DefaultTenantID,
			Utility:     u,
			Period:      p,
			Amount:      amount,
			Cost:        decimal.RequireFromString(cost),
			RatePerUnit: decimal.RequireFromString(rate),
		}
	}

	return seedData{
		Profile: internal_models.TenantProfile{
			ID:   DefaultTenantID,
			Name: "Sarah Johnson",
			RoomInfo: internal_models.RoomInfo{
				RoomNumber:     "A-205",
				RoomType:       internal_models.RoomTypeSingle,
				MonthlyRent:    decimal.RequireFromString("450.00"),
				DueDate:        dueDate,
				ContractStatus: internal_models.ContractStatusActive,
			},
		},
		Contact: internal_models.TenantContact{
			Name:          "Sarah Johnson",
			Email:         utils.Ptr("sarah.johnson@example.com"),
			PhoneNumber:   utils.Ptr("+15555550123"),
			LandlordName:  "Michael Chen",
			LandlordEmail: utils.Ptr("landlord@example.com"),
			LandlordPhone: utils.Ptr("+15555550199"),
		},
		Invoice: internal_models.Invoice{
			ID:          "INV-001",
			TenantID:    DefaultTenantID,
			TotalAmount: decimal.RequireFromString("485.50"),
			DueDate:     dueDate,
			Status:      internal_models.InvoiceStatusDueSoon,
			Items: []internal_models.InvoiceItem{
				{ID: "1", Description: "Monthly Rent", Amount: decimal.RequireFromString("450.00"), Type: internal_models.InvoiceItemRent},
				{ID: "2", Description: "Electricity", Amount: decimal.RequireFromString("25.50"), Type: internal_models.InvoiceItemElectricity},
				{ID: "3", Description: "Water", Amount: decimal.RequireFromString("10.00"), Type: internal_models.InvoiceItemWater},
			},
		},
		Readings: []internal_models.UsageReading{
			reading(internal_models.UtilityElectricity, prevPeriod, 115.74, "23.15", "0.20"),
			reading(internal_models.UtilityElectricity, period, 125, "25.50", "0.20"),
			reading(internal_models.UtilityWater, prevPeriod, 8.7629, "10.34", "1.18"),
			reading(internal_models.UtilityWater, period, 8.5, "10.00", "1.18"),
			reading(internal_models.UtilityInternet, prevPeriod, 45, "0.00", "0.00"),
			reading(internal_models.UtilityInternet, period, 45, "0.00", "0.00"),
		},
		Updates: []internal_models.RecentUpdate{
			{
				ID:          "seed-update-1",
				TenantID:    DefaultTenantID,
				Type:        internal_models.UpdateTypePayment,
				Title:       "Payment Reminder",
				Description: "Your rent payment of $485.50 is due in 2 days",
				Timestamp:   now.Add(-2 * time.Hour),
				Status:      &pending,
			},
			{
				ID:          "seed-update-2",
				TenantID:    DefaultTenantID,
				Type:        internal_models.UpdateTypeIssue,
				Title:       "Issue Resolved",
				Description: "Your air conditioning repair request has been completed",
				Timestamp:   now.Add(-24 * time.Hour),
				Status:      &resolved,
			},
		},
		QuickActions: []internal_models.QuickAction{
			{ID: "1", Title: "Report Issue", Icon: "exclamationmark.triangle.fill", Color: "#EF4444", Kind: internal_models.QuickActionReportIssue},
			{ID: "2", Title: "View Invoices", Icon: "doc.text.fill", Color: "#3B82F6", Kind: internal_models.QuickActionViewInvoices},
			{ID: "3", Title: "Feedback", Icon: "star.fill", Color: "#F59E0B", Kind: internal_models.QuickActionFeedback},
			{ID: "4", Title: "Contact Landlord", Icon: "phone.fill", Color: "#10B981", Kind: internal_models.QuickActionContactLandlord},
		},
		RoomContract: internal_models.RoomContract{
			TenantID: DefaultTenantID,
			Room: internal_models.RoomDetails{
				RoomNumber:  "A-205",
				RoomType:    string(internal_models.RoomTypeSingle),
				MonthlyRent: decimal.RequireFromString("450.00"),
				Status:      internal_models.RoomStatusOccupied,
			},
			Contract: internal_models.ContractDetails{
				ContractID:  "CTR-2024-001",
				StartDate:   internal_models.DateOf(today.AddDate(-1, 0, 45)),
				EndDate:     internal_models.DateOf(today.AddDate(0, 0, 45)),
				TotalAmount: decimal.RequireFromString("5400.00"),
				Status:      internal_models.ContractStatusActive,
			},
		},
	}
}

// SeedAllTestData loads the demo tenant into whichever store the app owns.
// It is idempotent: nothing is written if the demo tenant already exists.
func SeedAllTestData(ctx context.Context, a *App) error {
	data := demoSeed(time.Now().UTC())

	switch {
	case a.Upstream != nil:
		utils.Logger.Info("tenant-service: upstream owns tenant data; skipping seeding.")
		return nil
	case a.Memory != nil:
		return seedMemory(ctx, a.Memory, data)
	case a.DB != nil:
		return seedPostgres(ctx, a.DB, data)
	default:
		return fmt.Errorf("no store to seed")
	}
}

func seedMemory(ctx context.Context, s *memrepo.Store, data seedData) error {
	if existing, _ := s.Profiles.GetProfile(ctx, data.Profile.ID); existing != nil {
		utils.Logger.Info("tenant-service: Seed data already present; skipping seeding.")
		return nil
	}

	s.Profiles.Put(data.Profile, data.Contact)
	s.Invoices.Put(&data.Invoice)
	for _, r := range data.Readings {
		s.Usage.AddReading(r)
	}
	for i := range data.Updates {
		if err := s.Updates.Create(ctx, &data.Updates[i]); err != nil {
			return fmt.Errorf("seed recent update: %w", err)
		}
	}
	s.QuickActions.SetDefaults(data.QuickActions)
	s.RoomContracts.Put(data.RoomContract)

	utils.Logger.Info("tenant-service: Seeding completed successfully.")
	return nil
}

// txBeginner is the part of *pgxpool.Pool seeding needs.
type txBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func seedPostgres(ctx context.Context, db txBeginner, data seedData) error {
	var exists bool
	if err := db.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM tenants WHERE id = $1)", data.Profile.ID).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check for sentinel tenant: %w", err)
	}
	if exists {
		utils.Logger.Info("tenant-service: Seed data already present; skipping seeding.")
		return nil
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	p, c := data.Profile, data.Contact
	if _, err := tx.Exec(ctx, `
		INSERT INTO tenants (
			id, name, avatar_url, email, phone_number, room_number, room_type, monthly_rent_cents,
			rent_due_date, contract_status, landlord_name, landlord_email, landlord_phone
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO NOTHING`,
		p.ID, p.Name, p.Avatar, c.Email, c.PhoneNumber, p.RoomInfo.RoomNumber, p.RoomInfo.RoomType,
		internal_utils.DecimalToCents(p.RoomInfo.MonthlyRent), p.RoomInfo.DueDate.Time, p.RoomInfo.ContractStatus,
		c.LandlordName, c.LandlordEmail, c.LandlordPhone,
	); err != nil {
		return fmt.Errorf("seed tenant: %w", err)
	}

	inv := data.Invoice
	if _, err := tx.Exec(ctx, `
		INSERT INTO invoices (id, tenant_id, total_amount_cents, due_date, status)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING`,
		inv.ID, inv.TenantID, internal_utils.DecimalToCents(inv.TotalAmount), inv.DueDate.Time, inv.Status,
	); err != nil {
		return fmt.Errorf("seed invoice: %w", err)
	}
	for i, it := range inv.Items {
		if _, err := tx.Exec(ctx, `
			INSERT INTO invoice_items (id, invoice_id, position, description, amount_cents, item_type)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT DO NOTHING`,
			it.ID, inv.ID, i, it.Description, internal_utils.DecimalToCents(it.Amount), it.Type,
		); err != nil {
			return fmt.Errorf("seed invoice item: %w", err)
		}
	}

	for _, r := range data.Readings {
		if _, err := tx.Exec(ctx, `
			INSERT INTO usage_readings (tenant_id, utility, period, amount, cost_cents, rate_per_unit_cents)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT DO NOTHING`,
			r.TenantID, r.Utility, r.Period, r.Amount,
			internal_utils.DecimalToCents(r.Cost), internal_utils.DecimalToCents(r.RatePerUnit),
		); err != nil {
			return fmt.Errorf("seed usage reading: %w", err)
		}
	}

	for _, u := range data.Updates {
		if _, err := tx.Exec(ctx, `
			INSERT INTO recent_updates (id, tenant_id, update_type, title, description, status, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (id) DO NOTHING`,
			u.ID, u.TenantID, u.Type, u.Title, u.Description, u.Status, u.Timestamp,
		); err != nil {
			return fmt.Errorf("seed recent update: %w", err)
		}
	}

	for i, a := range data.QuickActions {
		if _, err := tx.Exec(ctx, `
			INSERT INTO quick_actions (id, tenant_id, position, title, icon, color, kind)
			VALUES ($1, NULL, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO NOTHING`,
			a.ID, i, a.Title, a.Icon, a.Color, a.Kind,
		); err != nil {
			return fmt.Errorf("seed quick action: %w", err)
		}
	}

	rc := data.RoomContract
	if _, err := tx.Exec(ctx, `
		INSERT INTO room_contracts (
			tenant_id, room_number, room_type, monthly_rent_cents, room_status,
			contract_id, start_date, end_date, total_amount_cents, contract_status, contract_url
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (tenant_id) DO NOTHING`,
		rc.TenantID, rc.Room.RoomNumber, rc.Room.RoomType, internal_utils.DecimalToCents(rc.Room.MonthlyRent), rc.Room.Status,
		rc.Contract.ContractID, rc.Contract.StartDate.Time, rc.Contract.EndDate.Time,
		internal_utils.DecimalToCents(rc.Contract.TotalAmount), rc.Contract.Status, rc.Contract.ContractURL,
	); err != nil {
		return fmt.Errorf("seed room contract: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	utils.Logger.Info("tenant-service: Seeding completed successfully.")
	return nil
}
