package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tropay/tenant-service/internal/config"
	"github.com/tropay/tenant-service/internal/constants"
	internal_models "github.com/tropay/tenant-service/internal/models"
	internal_repositories "github.com/tropay/tenant-service/internal/repositories"
	internal_utils "github.com/tropay/tenant-service/internal/utils"
	"github.com/tropay/tenant-service/shared/go-utils"
	"golang.org/x/sync/singleflight"
)

// idempotencyNamespace seeds UUIDv5 keys derived from (tenant, invoice, amount).
var idempotencyNamespace = uuid.MustParse("6f1c3a52-8d4e-4b8a-9c57-2f0e7d9b1a34")

var ErrIdempotencyKeyReuse = errors.New("idempotency_key_reuse")

var errAlreadyCompleted = errors.New("payment already completed")

// PaymentRedirect is what the client needs to hand off to the gateway.
type PaymentRedirect struct {
	PaymentID  uuid.UUID                         `json:"payment_id"`
	PaymentURL string                            `json:"payment_url"`
	Status     internal_models.PaymentStatusType `json:"status"`
}

type PaymentService struct {
	cfg         *config.Config
	invoiceRepo internal_repositories.InvoiceRepository
	intentRepo  internal_repositories.PaymentIntentRepository
	updateRepo  internal_repositories.RecentUpdateRepository
	gateway     PaymentGateway
	inflight    singleflight.Group
	now         func() time.Time
}

func NewPaymentService(
	cfg *config.Config,
	invoiceRepo internal_repositories.InvoiceRepository,
	intentRepo internal_repositories.PaymentIntentRepository,
	updateRepo internal_repositories.RecentUpdateRepository,
	gateway PaymentGateway,
) *PaymentService {
	return &PaymentService{
		cfg:         cfg,
		invoiceRepo: invoiceRepo,
		intentRepo:  intentRepo,
		updateRepo:  updateRepo,
		gateway:     gateway,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// DeriveIdempotencyKey is the key used when the client sends none. Equal
// inputs always give the same key.
func DeriveIdempotencyKey(tenantID, invoiceID string, amount decimal.Decimal) string {
	name := tenantID + "|" + invoiceID + "|" + amount.StringFixed(2)
	return uuid.NewSHA1(idempotencyNamespace, []byte(name)).String()
}

// InitiatePayment validates the invoice and opens a hosted checkout session
// for it. A repeat call with the same idempotency key returns the pending
// intent created by the first call without contacting the gateway.
func (s *PaymentService) InitiatePayment(
	ctx context.Context,
	tenantID, invoiceID string,
	amount decimal.Decimal,
	idempotencyKey string,
) (*PaymentRedirect, error) {
	if !amount.IsPositive() {
		return nil, internal_utils.NewValidationError("amount", internal_utils.ErrInvalidAmount)
	}

	inv, err := s.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		utils.Logger.WithError(err).Errorf("Failed to load invoice %s", invoiceID)
		return nil, err
	}
	if inv == nil || inv.TenantID != tenantID {
		return nil, internal_utils.NewNotFoundError("invoice", invoiceID)
	}
	if inv.Status == internal_models.InvoiceStatusPaid {
		return nil, internal_utils.NewConflictError(internal_utils.ErrInvoicePaid)
	}
	if !inv.Reconciles() {
		utils.Logger.Warnf("Invoice %s items total %s but invoice total is %s",
			inv.ID, inv.ItemsTotal().StringFixed(2), inv.TotalAmount.StringFixed(2))
		return nil, internal_utils.NewConflictError(internal_utils.ErrInvoiceUnreconciled)
	}
	if s.cfg.LDFlag_EnforceAmountMatch && !amount.Equal(inv.TotalAmount) {
		return nil, internal_utils.NewValidationError("amount", internal_utils.ErrAmountMismatch)
	}

	if idempotencyKey == "" {
		idempotencyKey = DeriveIdempotencyKey(tenantID, invoiceID, amount)
	}
	scopedKey := tenantID + ":" + idempotencyKey

	ch := s.inflight.DoChan(scopedKey, func() (any, error) {
		// Detached so a duplicate request still gets the session when the
		// first caller goes away.
		initCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), constants.PaymentInitiationTimeout)
		defer cancel()
		return s.initiate(initCtx, inv, amount, scopedKey)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*PaymentRedirect), nil
	}
}

func (s *PaymentService) initiate(
	ctx context.Context,
	inv *internal_models.Invoice,
	amount decimal.Decimal,
	scopedKey string,
) (*PaymentRedirect, error) {
	existing, err := s.intentRepo.GetActiveByIdempotencyKey(ctx, scopedKey)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return redirectFor(existing, inv.ID, amount)
	}

	now := s.now()
	intent := &internal_models.PaymentIntent{
		ID:             uuid.New(),
		TenantID:       inv.TenantID,
		InvoiceID:      inv.ID,
		Amount:         amount,
		Currency:       s.cfg.Currency,
		Status:         internal_models.PaymentStatusPending,
		IdempotencyKey: scopedKey,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	sess, err := s.gateway.CreateSession(ctx, GatewaySessionRequest{
		PaymentID:      intent.ID.String(),
		TenantID:       inv.TenantID,
		InvoiceID:      inv.ID,
		Amount:         amount,
		Currency:       intent.Currency,
		IdempotencyKey: scopedKey + ":" + intent.ID.String(),
		Description:    fmt.Sprintf("Invoice %s", inv.ID),
	})
	if err != nil {
		utils.Logger.WithError(err).Errorf("Gateway rejected payment session for invoice %s", inv.ID)
		return nil, &internal_utils.PaymentInitiationError{InvoiceID: inv.ID, Err: err}
	}
	intent.GatewaySessionID = &sess.ID
	intent.PaymentURL = &sess.URL

	if err := s.intentRepo.Create(ctx, intent); err != nil {
		if errors.Is(err, internal_repositories.ErrDuplicateKey) {
			// Another instance won the race; hand back its intent.
			winner, getErr := s.intentRepo.GetActiveByIdempotencyKey(ctx, scopedKey)
			if getErr == nil && winner != nil {
				return redirectFor(winner, inv.ID, amount)
			}
		}
		utils.Logger.WithError(err).Errorf("Failed to persist payment intent for invoice %s", inv.ID)
		return nil, err
	}

	utils.Logger.Infof("Created payment intent %s for invoice %s (session %s)", intent.ID, inv.ID, sess.ID)
	return &PaymentRedirect{PaymentID: intent.ID, PaymentURL: sess.URL, Status: intent.Status}, nil
}

func redirectFor(p *internal_models.PaymentIntent, invoiceID string, amount decimal.Decimal) (*PaymentRedirect, error) {
	if p.InvoiceID != invoiceID || !p.Amount.Equal(amount) {
		return nil, internal_utils.NewConflictError(ErrIdempotencyKeyReuse)
	}
	return &PaymentRedirect{PaymentID: p.ID, PaymentURL: utils.Val(p.PaymentURL), Status: p.Status}, nil
}

func (s *PaymentService) GetPayment(ctx context.Context, tenantID string, id uuid.UUID) (*internal_models.PaymentIntent, error) {
	p, err := s.intentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil || p.TenantID != tenantID {
		return nil, internal_utils.NewNotFoundError("payment", id.String())
	}
	return p, nil
}

func (s *PaymentService) ListPayments(ctx context.Context, tenantID string, page utils.Page) ([]*internal_models.PaymentIntent, int, error) {
	return s.intentRepo.ListForTenant(ctx, tenantID, page)
}

// CancelPayment expires the gateway session of a pending intent.
func (s *PaymentService) CancelPayment(ctx context.Context, tenantID string, id uuid.UUID) (*internal_models.PaymentIntent, error) {
	p, err := s.GetPayment(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if p.Status != internal_models.PaymentStatusPending {
		return nil, internal_utils.NewConflictError(internal_utils.ErrPaymentNotPending)
	}
	if p.GatewaySessionID != nil {
		if err := s.gateway.ExpireSession(ctx, *p.GatewaySessionID); err != nil {
			utils.Logger.WithError(err).Errorf("Failed to expire gateway session for payment %s", id)
			return nil, fmt.Errorf("%w: %v", utils.ErrExternalServiceFailure, err)
		}
	}

	err = s.intentRepo.UpdateWithRetry(ctx, id, func(cur *internal_models.PaymentIntent) error {
		if cur.Status != internal_models.PaymentStatusPending {
			return internal_utils.NewConflictError(internal_utils.ErrPaymentNotPending)
		}
		cur.Status = internal_models.PaymentStatusCancelled
		cur.FailureReason = utils.Ptr("cancelled_by_tenant")
		p = cur
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// HandleCheckoutCompleted marks the intent completed and its invoice paid.
// Replays of the same event are no-ops.
func (s *PaymentService) HandleCheckoutCompleted(ctx context.Context, sessionID, transactionID string) error {
	p, err := s.intentRepo.GetBySessionID(ctx, sessionID)
	if err != nil {
		return err
	}
	if p == nil {
		utils.Logger.Warnf("Checkout session %s has no matching payment intent", sessionID)
		return nil
	}
	if p.Status == internal_models.PaymentStatusCompleted {
		return nil
	}

	now := s.now()
	err = s.intentRepo.UpdateWithRetry(ctx, p.ID, func(cur *internal_models.PaymentIntent) error {
		// Rechecked on every versioned read so concurrent redeliveries complete once.
		if cur.Status == internal_models.PaymentStatusCompleted {
			return errAlreadyCompleted
		}
		cur.Status = internal_models.PaymentStatusCompleted
		cur.CompletedAt = &now
		cur.FailureReason = nil
		if transactionID != "" {
			cur.TransactionID = utils.Ptr(transactionID)
		}
		return nil
	})
	if errors.Is(err, errAlreadyCompleted) {
		return nil
	}
	if err != nil {
		return err
	}

	err = s.invoiceRepo.UpdateWithRetry(ctx, p.InvoiceID, func(inv *internal_models.Invoice) error {
		inv.Status = internal_models.InvoiceStatusPaid
		return nil
	})
	if err != nil {
		utils.Logger.WithError(err).Errorf("Payment %s completed but invoice %s could not be marked paid", p.ID, p.InvoiceID)
		return err
	}

	status := internal_models.UpdateStatusResolved
	update := &internal_models.RecentUpdate{
		ID:          uuid.NewString(),
		TenantID:    p.TenantID,
		Type:        internal_models.UpdateTypePayment,
		Title:       constants.PaymentReceivedTitle,
		Description: fmt.Sprintf("Payment of %s for invoice %s was received.", p.Amount.StringFixed(2), p.InvoiceID),
		Timestamp:   now,
		Status:      &status,
	}
	if err := s.updateRepo.Create(ctx, update); err != nil {
		utils.Logger.WithError(err).Warnf("Failed to record payment update for %s", p.ID)
	}
	utils.Logger.Infof("Payment %s completed; invoice %s paid", p.ID, p.InvoiceID)
	return nil
}

// HandleCheckoutClosed moves a pending intent to status after the gateway
// reports the session expired or failed.
func (s *PaymentService) HandleCheckoutClosed(
	ctx context.Context,
	sessionID string,
	status internal_models.PaymentStatusType,
	reason string,
) error {
	p, err := s.intentRepo.GetBySessionID(ctx, sessionID)
	if err != nil {
		return err
	}
	if p == nil {
		utils.Logger.Warnf("Checkout session %s has no matching payment intent", sessionID)
		return nil
	}
	return s.closeIntent(ctx, p.ID, status, reason)
}

func (s *PaymentService) closeIntent(ctx context.Context, id uuid.UUID, status internal_models.PaymentStatusType, reason string) error {
	return s.intentRepo.UpdateWithRetry(ctx, id, func(cur *internal_models.PaymentIntent) error {
		if cur.IsTerminal() {
			return nil
		}
		cur.Status = status
		if reason != "" {
			cur.FailureReason = utils.Ptr(reason)
		}
		return nil
	})
}

// ExpireStalePayments cancels intents that stayed pending longer than
// maxAge. It returns how many were cancelled.
func (s *PaymentService) ExpireStalePayments(ctx context.Context, maxAge time.Duration) (int, error) {
	stale, err := s.intentRepo.ListStalePending(ctx, s.now().Add(-maxAge))
	if err != nil {
		return 0, err
	}
	cancelled := 0
	for _, p := range stale {
		if p.GatewaySessionID != nil {
			if err := s.gateway.ExpireSession(ctx, *p.GatewaySessionID); err != nil {
				utils.Logger.WithError(err).Warnf("Failed to expire gateway session for stale payment %s", p.ID)
			}
		}
		if err := s.closeIntent(ctx, p.ID, internal_models.PaymentStatusCancelled, "expired"); err != nil {
			utils.Logger.WithError(err).Errorf("Failed to cancel stale payment %s", p.ID)
			continue
		}
		cancelled++
	}
	return cancelled, nil
}
