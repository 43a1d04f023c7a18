package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tropay/tenant-service/internal/constants"
	internal_models "github.com/tropay/tenant-service/internal/models"
	internal_repositories "github.com/tropay/tenant-service/internal/repositories"
	"github.com/tropay/tenant-service/shared/go-utils"
)

// SweepResult summarizes one run of the invoice sweep.
type SweepResult struct {
	DueSoon         int
	Overdue         int
	PaymentsExpired int
}

// InvoiceSweepService moves invoices through Pending -> Due Soon -> Overdue
// as their due dates approach, and reminds the tenant on each move.
type InvoiceSweepService struct {
	invoiceRepo    internal_repositories.InvoiceRepository
	profileRepo    internal_repositories.ProfileRepository
	updateRepo     internal_repositories.RecentUpdateRepository
	paymentService *PaymentService
	notifier       Notifier
	now            func() time.Time
}

func NewInvoiceSweepService(
	invoiceRepo internal_repositories.InvoiceRepository,
	profileRepo internal_repositories.ProfileRepository,
	updateRepo internal_repositories.RecentUpdateRepository,
	paymentService *PaymentService,
	notifier Notifier,
) *InvoiceSweepService {
	return &InvoiceSweepService{
		invoiceRepo:    invoiceRepo,
		profileRepo:    profileRepo,
		updateRepo:     updateRepo,
		paymentService: paymentService,
		notifier:       notifier,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// NextInvoiceStatus returns the status inv should have at now, and whether
// it differs from the current one.
func NextInvoiceStatus(inv *internal_models.Invoice, now time.Time) (internal_models.InvoiceStatus, bool) {
	if !inv.IsOpen() {
		return inv.Status, false
	}
	days := inv.DueDate.DaysUntil(now)
	switch {
	case days < 0 && inv.Status != internal_models.InvoiceStatusOverdue:
		return internal_models.InvoiceStatusOverdue, true
	case days >= 0 && days <= constants.DueSoonWindowDays && inv.Status == internal_models.InvoiceStatusPending:
		return internal_models.InvoiceStatusDueSoon, true
	default:
		return inv.Status, false
	}
}

// RunSweep advances every open invoice and cancels stale payment intents.
// A failure on one invoice is logged and does not stop the others.
func (s *InvoiceSweepService) RunSweep(ctx context.Context) (SweepResult, error) {
	var res SweepResult
	now := s.now()

	open, err := s.invoiceRepo.ListOpen(ctx)
	if err != nil {
		utils.Logger.WithError(err).Error("Invoice sweep could not list open invoices")
		return res, err
	}

	for _, inv := range open {
		next, changed := NextInvoiceStatus(inv, now)
		if !changed {
			continue
		}
		var updated *internal_models.Invoice
		err := s.invoiceRepo.UpdateWithRetry(ctx, inv.ID, func(cur *internal_models.Invoice) error {
			// Re-check against the fresh row; a payment may have landed.
			status, ok := NextInvoiceStatus(cur, now)
			if !ok {
				return nil
			}
			cur.Status = status
			updated = cur
			return nil
		})
		if err != nil {
			utils.Logger.WithError(err).Errorf("Invoice sweep failed to move %s to %s", inv.ID, next)
			continue
		}
		if updated == nil {
			continue
		}

		switch updated.Status {
		case internal_models.InvoiceStatusDueSoon:
			res.DueSoon++
		case internal_models.InvoiceStatusOverdue:
			res.Overdue++
		}
		s.remind(ctx, updated, now)
	}

	expired, err := s.paymentService.ExpireStalePayments(ctx, constants.StalePaymentIntentAge)
	if err != nil {
		utils.Logger.WithError(err).Error("Invoice sweep could not expire stale payments")
		return res, err
	}
	res.PaymentsExpired = expired

	utils.Logger.Infof("Invoice sweep done: %d due soon, %d overdue, %d stale payments cancelled",
		res.DueSoon, res.Overdue, res.PaymentsExpired)
	return res, nil
}

func (s *InvoiceSweepService) remind(ctx context.Context, inv *internal_models.Invoice, now time.Time) {
	status := internal_models.UpdateStatusPending
	update := &internal_models.RecentUpdate{
		ID:          uuid.NewString(),
		TenantID:    inv.TenantID,
		Type:        internal_models.UpdateTypePayment,
		Title:       constants.PaymentReminderTitle,
		Description: fmt.Sprintf("Invoice %s for %s is %s (due %s).", inv.ID, inv.TotalAmount.StringFixed(2), inv.Status, inv.DueDate),
		Timestamp:   now,
		Status:      &status,
	}
	if err := s.updateRepo.Create(ctx, update); err != nil {
		utils.Logger.WithError(err).Warnf("Failed to record reminder for invoice %s", inv.ID)
	}

	contact, err := s.profileRepo.GetContact(ctx, inv.TenantID)
	if err != nil {
		utils.Logger.WithError(err).Warnf("Failed to load contact for tenant %s", inv.TenantID)
		return
	}
	s.notifier.SendPaymentReminder(ctx, contact, inv)
}
