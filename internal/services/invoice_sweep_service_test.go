package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	internal_models "github.com/tropay/tenant-service/internal/models"
)

func TestNextInvoiceStatus(t *testing.T) {
	inv := func(status internal_models.InvoiceStatus, dueInDays int) *internal_models.Invoice {
		return &internal_models.Invoice{
			Status:  status,
			DueDate: internal_models.DateOf(fixedNow.AddDate(0, 0, dueInDays)),
		}
	}

	tests := []struct {
		name    string
		inv     *internal_models.Invoice
		want    internal_models.InvoiceStatus
		changed bool
	}{
		{"pending far out", inv(internal_models.InvoiceStatusPending, 10), internal_models.InvoiceStatusPending, false},
		{"pending within window", inv(internal_models.InvoiceStatusPending, 3), internal_models.InvoiceStatusDueSoon, true},
		{"pending due today", inv(internal_models.InvoiceStatusPending, 0), internal_models.InvoiceStatusDueSoon, true},
		{"pending past due", inv(internal_models.InvoiceStatusPending, -1), internal_models.InvoiceStatusOverdue, true},
		{"due soon past due", inv(internal_models.InvoiceStatusDueSoon, -1), internal_models.InvoiceStatusOverdue, true},
		{"due soon still due", inv(internal_models.InvoiceStatusDueSoon, 2), internal_models.InvoiceStatusDueSoon, false},
		{"already overdue", inv(internal_models.InvoiceStatusOverdue, -5), internal_models.InvoiceStatusOverdue, false},
		{"paid past due", inv(internal_models.InvoiceStatusPaid, -5), internal_models.InvoiceStatusPaid, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, changed := NextInvoiceStatus(tc.inv, fixedNow)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.changed, changed)
		})
	}
}

func TestRunSweep(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	s.Invoices.Put(&internal_models.Invoice{
		ID: "INV-P", TenantID: testTenantID, TotalAmount: dec("10"),
		DueDate: internal_models.NewDate(2025, time.March, 12), Status: internal_models.InvoiceStatusPending,
	})
	s.Invoices.Put(&internal_models.Invoice{
		ID: "INV-O", TenantID: testTenantID, TotalAmount: dec("20"),
		DueDate: internal_models.NewDate(2025, time.March, 5), Status: internal_models.InvoiceStatusDueSoon,
	})
	s.Invoices.Put(&internal_models.Invoice{
		ID: "INV-F", TenantID: testTenantID, TotalAmount: dec("30"),
		DueDate: internal_models.NewDate(2025, time.April, 30), Status: internal_models.InvoiceStatusPending,
	})

	gw := &fakeGateway{}
	ps := newTestPaymentService(s, gw)
	_, err := ps.InitiatePayment(ctx, testTenantID, "INV-001", dec("485.50"), "")
	require.NoError(t, err)
	ps.now = func() time.Time { return fixedNow.Add(48 * time.Hour) }

	n := &recordingNotifier{}
	sweep := NewInvoiceSweepService(s.Invoices, s.Profiles, s.Updates, ps, n)
	sweep.now = func() time.Time { return fixedNow }

	res, err := sweep.RunSweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, SweepResult{DueSoon: 1, Overdue: 1, PaymentsExpired: 1}, res)

	status := func(id string) internal_models.InvoiceStatus {
		inv, err := s.Invoices.GetByID(ctx, id)
		require.NoError(t, err)
		return inv.Status
	}
	assert.Equal(t, internal_models.InvoiceStatusDueSoon, status("INV-P"))
	assert.Equal(t, internal_models.InvoiceStatusOverdue, status("INV-O"))
	assert.Equal(t, internal_models.InvoiceStatusPending, status("INV-F"))
	assert.Equal(t, internal_models.InvoiceStatusDueSoon, status("INV-001"))

	assert.ElementsMatch(t, []string{"INV-P:Due Soon", "INV-O:Overdue"}, n.reminders)

	updates, err := s.Updates.ListForTenant(ctx, testTenantID, 10)
	require.NoError(t, err)
	assert.Len(t, updates, 2)
	for _, u := range updates {
		assert.Equal(t, "Payment Reminder", u.Title)
	}

	// A second run has nothing left to move.
	res, err = sweep.RunSweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, SweepResult{}, res)
}
