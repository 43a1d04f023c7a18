package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tropay/tenant-service/internal/constants"
	internal_models "github.com/tropay/tenant-service/internal/models"
	internal_repositories "github.com/tropay/tenant-service/internal/repositories"
	internal_utils "github.com/tropay/tenant-service/internal/utils"
	"github.com/tropay/tenant-service/shared/go-utils"
)

type RoomContractService struct {
	contractRepo internal_repositories.RoomContractRepository
	profileRepo  internal_repositories.ProfileRepository
	updateRepo   internal_repositories.RecentUpdateRepository
	notifier     Notifier
	now          func() time.Time
}

func NewRoomContractService(
	contractRepo internal_repositories.RoomContractRepository,
	profileRepo internal_repositories.ProfileRepository,
	updateRepo internal_repositories.RecentUpdateRepository,
	notifier Notifier,
) *RoomContractService {
	return &RoomContractService{
		contractRepo: contractRepo,
		profileRepo:  profileRepo,
		updateRepo:   updateRepo,
		notifier:     notifier,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// GetRoomContract returns the tenant's room and contract plus the notice to
// show alongside them, if any.
func (s *RoomContractService) GetRoomContract(
	ctx context.Context,
	tenantID string,
) (*internal_models.RoomContract, *internal_models.ImportantNotice, error) {
	rc, err := s.contractRepo.GetForTenant(ctx, tenantID)
	if err != nil {
		return nil, nil, err
	}
	if rc == nil {
		return nil, nil, internal_utils.NewNotFoundError("room_contract", tenantID)
	}
	return rc, ContractNotice(rc, s.now()), nil
}

// ContractNotice derives the important notice for a contract as of now.
func ContractNotice(rc *internal_models.RoomContract, now time.Time) *internal_models.ImportantNotice {
	days := rc.Contract.EndDate.DaysUntil(now)

	switch {
	case rc.Contract.Status == internal_models.ContractStatusExpired || (rc.Contract.Status == internal_models.ContractStatusActive && days < 0):
		return &internal_models.ImportantNotice{
			ID:          "contract-expired-" + rc.Contract.ContractID,
			Title:       "Contract expired",
			Description: fmt.Sprintf("Your contract ended on %s. Contact your landlord to renew.", rc.Contract.EndDate),
			Type:        internal_models.NoticeWarning,
		}
	case rc.Contract.Status == internal_models.ContractStatusActive && days <= constants.ContractExpiryNoticeDays:
		return &internal_models.ImportantNotice{
			ID:            "contract-expiring-" + rc.Contract.ContractID,
			Title:         "Contract Renewal",
			Description:   fmt.Sprintf("Your contract expires in %d days. Please contact your landlord to discuss renewal.", days),
			Type:          internal_models.NoticeWarning,
			DaysRemaining: utils.Ptr(days),
		}
	case rc.Contract.Status == internal_models.ContractStatusPending:
		return &internal_models.ImportantNotice{
			ID:          "contract-pending-" + rc.Contract.ContractID,
			Title:       "Contract pending",
			Description: "Your contract is awaiting signature.",
			Type:        internal_models.NoticeInfo,
		}
	default:
		return nil
	}
}

// RequestRenewal records a renewal request and tells the landlord.
func (s *RoomContractService) RequestRenewal(ctx context.Context, tenantID string) (*internal_models.RenewalRequest, error) {
	rc, err := s.contractRepo.GetForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if rc == nil {
		return nil, internal_utils.NewNotFoundError("room_contract", tenantID)
	}
	if rc.Contract.Status == internal_models.ContractStatusTerminated {
		return nil, internal_utils.NewConflictError(internal_utils.ErrNoContract)
	}

	now := s.now()
	req := &internal_models.RenewalRequest{
		ID:         uuid.New(),
		TenantID:   tenantID,
		ContractID: rc.Contract.ContractID,
		CreatedAt:  now,
	}
	if err := s.contractRepo.CreateRenewalRequest(ctx, req); err != nil {
		utils.Logger.WithError(err).Errorf("Failed to record renewal request for tenant %s", tenantID)
		return nil, err
	}

	status := internal_models.UpdateStatusPending
	update := &internal_models.RecentUpdate{
		ID:          uuid.NewString(),
		TenantID:    tenantID,
		Type:        internal_models.UpdateTypeNotification,
		Title:       "Renewal requested",
		Description: fmt.Sprintf("Renewal of contract %s was sent to your landlord.", rc.Contract.ContractID),
		Timestamp:   now,
		Status:      &status,
	}
	if err := s.updateRepo.Create(ctx, update); err != nil {
		utils.Logger.WithError(err).Warnf("Failed to record renewal update for tenant %s", tenantID)
	}

	contact, err := s.profileRepo.GetContact(ctx, tenantID)
	if err != nil {
		utils.Logger.WithError(err).Warnf("Failed to load contact for tenant %s", tenantID)
	}
	s.notifier.NotifyLandlordOfRenewal(ctx, contact, rc)
	return req, nil
}
