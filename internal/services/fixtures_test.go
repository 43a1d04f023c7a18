package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tropay/tenant-service/internal/config"
	internal_models "github.com/tropay/tenant-service/internal/models"
	"github.com/tropay/tenant-service/internal/repositories/memrepo"
	"github.com/tropay/tenant-service/shared/go-utils"
)

const testTenantID = "tenant-1"

var fixedNow = time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

type fakeGateway struct {
	mu       sync.Mutex
	created  []GatewaySessionRequest
	expired  []string
	failWith error
	delay    time.Duration
}

func (g *fakeGateway) CreateSession(_ context.Context, req GatewaySessionRequest) (*GatewaySession, error) {
	if g.delay > 0 {
		time.Sleep(g.delay)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failWith != nil {
		return nil, g.failWith
	}
	g.created = append(g.created, req)
	id := fmt.Sprintf("cs_test_%d", len(g.created))
	return &GatewaySession{ID: id, URL: "https://checkout.example/" + id}, nil
}

func (g *fakeGateway) ExpireSession(_ context.Context, sessionID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failWith != nil {
		return g.failWith
	}
	g.expired = append(g.expired, sessionID)
	return nil
}

func (g *fakeGateway) createdCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.created)
}

type recordingNotifier struct {
	mu        sync.Mutex
	issues    []string
	renewals  []string
	reminders []string
}

func (n *recordingNotifier) NotifyLandlordOfIssue(_ context.Context, _ *internal_models.TenantContact, issue *internal_models.Issue) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.issues = append(n.issues, issue.TicketNumber)
}

func (n *recordingNotifier) NotifyLandlordOfRenewal(_ context.Context, _ *internal_models.TenantContact, rc *internal_models.RoomContract) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.renewals = append(n.renewals, rc.Contract.ContractID)
}

func (n *recordingNotifier) SendPaymentReminder(_ context.Context, _ *internal_models.TenantContact, inv *internal_models.Invoice) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.reminders = append(n.reminders, inv.ID+":"+string(inv.Status))
}

func testConfig() *config.Config {
	return &config.Config{
		AppName:                   "tenant-service",
		AppUrl:                    "https://app.example",
		Currency:                  "usd",
		LDFlag_EnforceAmountMatch: true,
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// newTestStore returns a store holding one tenant with invoice INV-001
// (485.50, three items, Due Soon).
func newTestStore(t *testing.T) *memrepo.Store {
	t.Helper()
	s := memrepo.NewStore()

	s.Profiles.Put(internal_models.TenantProfile{
		ID:   testTenantID,
		Name: "Sarah Johnson",
		RoomInfo: internal_models.RoomInfo{
			RoomNumber:     "A-205",
			RoomType:       internal_models.RoomTypeSingle,
			MonthlyRent:    dec("450"),
			DueDate:        internal_models.NewDate(2025, time.March, 12),
			ContractStatus: internal_models.ContractStatusActive,
		},
	}, internal_models.TenantContact{
		Name:          "Sarah Johnson",
		PhoneNumber:   utils.Ptr("+15555550123"),
		LandlordName:  "Michael Chen",
		LandlordEmail: utils.Ptr("landlord@example.com"),
		LandlordPhone: utils.Ptr("+15555550199"),
	})

	s.Invoices.Put(&internal_models.Invoice{
		ID:          "INV-001",
		TenantID:    testTenantID,
		TotalAmount: dec("485.50"),
		DueDate:     internal_models.NewDate(2025, time.March, 12),
		Status:      internal_models.InvoiceStatusDueSoon,
		Items: []internal_models.InvoiceItem{
			{ID: "1", Description: "Monthly Rent", Amount: dec("450.00"), Type: internal_models.InvoiceItemRent},
			{ID: "2", Description: "Electricity", Amount: dec("25.50"), Type: internal_models.InvoiceItemElectricity},
			{ID: "3", Description: "Water", Amount: dec("10.00"), Type: internal_models.InvoiceItemWater},
		},
	})

	s.Usage.PutSummary(testTenantID, internal_models.ServiceUsage{
		Electricity: internal_models.ServiceUsageRecord{Amount: 125, Unit: "kWh", Change: 8, ChangeType: internal_models.ChangeIncrease},
		Water:       internal_models.ServiceUsageRecord{Amount: 8.5, Unit: "m³", Change: -3, ChangeType: internal_models.ChangeDecrease},
		Internet:    internal_models.ServiceUsageRecord{Amount: 45, Unit: "GB", Change: 0, ChangeType: internal_models.ChangeNeutral},
	})

	s.QuickActions.SetDefaults([]internal_models.QuickAction{
		{ID: "1", Title: "Report Issue", Kind: internal_models.QuickActionReportIssue},
		{ID: "2", Title: "View Invoices", Kind: internal_models.QuickActionViewInvoices},
		{ID: "3", Title: "Feedback", Kind: internal_models.QuickActionFeedback},
		{ID: "4", Title: "Contact Landlord", Kind: internal_models.QuickActionContactLandlord},
	})

	return s
}

func newTestPaymentService(s *memrepo.Store, gw PaymentGateway) *PaymentService {
	ps := NewPaymentService(testConfig(), s.Invoices, s.Payments, s.Updates, gw)
	ps.now = func() time.Time { return fixedNow }
	return ps
}

var errBoom = errors.New("boom")
