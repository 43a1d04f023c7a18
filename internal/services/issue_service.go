package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tropay/tenant-service/internal/dtos"
	internal_models "github.com/tropay/tenant-service/internal/models"
	internal_repositories "github.com/tropay/tenant-service/internal/repositories"
	internal_utils "github.com/tropay/tenant-service/internal/utils"
	"github.com/tropay/tenant-service/shared/go-utils"
)

const ticketNumberAttempts = 3

type IssueService struct {
	issueRepo   internal_repositories.IssueRepository
	profileRepo internal_repositories.ProfileRepository
	updateRepo  internal_repositories.RecentUpdateRepository
	notifier    Notifier
	now         func() time.Time
}

func NewIssueService(
	issueRepo internal_repositories.IssueRepository,
	profileRepo internal_repositories.ProfileRepository,
	updateRepo internal_repositories.RecentUpdateRepository,
	notifier Notifier,
) *IssueService {
	return &IssueService{
		issueRepo:   issueRepo,
		profileRepo: profileRepo,
		updateRepo:  updateRepo,
		notifier:    notifier,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// NewTicketNumber formats ISSUE-<yyyymmdd>-<6 hex>.
func NewTicketNumber(now time.Time) string {
	return fmt.Sprintf("ISSUE-%s-%s", now.UTC().Format("20060102"), strings.ToUpper(utils.RandomHex(6)))
}

// CreateIssue files a maintenance issue. The request must already be
// validated.
func (s *IssueService) CreateIssue(ctx context.Context, tenantID string, req dtos.CreateIssueRequest) (*internal_models.Issue, error) {
	now := s.now()
	issue := &internal_models.Issue{
		ID:          uuid.New(),
		TenantID:    tenantID,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Priority:    internal_models.IssuePriority(req.Priority),
		Category:    req.Category,
		Status:      internal_models.IssueStatusSubmitted,
		Images:      append([]string{}, req.Images...),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var err error
	for attempt := 0; attempt < ticketNumberAttempts; attempt++ {
		issue.TicketNumber = NewTicketNumber(now)
		if err = s.issueRepo.Create(ctx, issue); !errors.Is(err, internal_repositories.ErrDuplicateKey) {
			break
		}
	}
	if err != nil {
		utils.Logger.WithError(err).Errorf("Failed to create issue for tenant %s", tenantID)
		return nil, err
	}

	status := internal_models.UpdateStatusPending
	update := &internal_models.RecentUpdate{
		ID:          uuid.NewString(),
		TenantID:    tenantID,
		Type:        internal_models.UpdateTypeIssue,
		Title:       "Issue submitted",
		Description: fmt.Sprintf("%s: %s", issue.TicketNumber, issue.Title),
		Timestamp:   now,
		Status:      &status,
	}
	if err := s.updateRepo.Create(ctx, update); err != nil {
		utils.Logger.WithError(err).Warnf("Failed to record issue update for %s", issue.TicketNumber)
	}

	contact, err := s.profileRepo.GetContact(ctx, tenantID)
	if err != nil {
		utils.Logger.WithError(err).Warnf("Failed to load contact for tenant %s", tenantID)
	}
	s.notifier.NotifyLandlordOfIssue(ctx, contact, issue)

	utils.Logger.Infof("Tenant %s filed issue %s", tenantID, issue.TicketNumber)
	return issue, nil
}

func (s *IssueService) GetIssue(ctx context.Context, tenantID string, id uuid.UUID) (*internal_models.Issue, error) {
	issue, err := s.issueRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if issue == nil || issue.TenantID != tenantID {
		return nil, internal_utils.NewNotFoundError("issue", id.String())
	}
	return issue, nil
}

func (s *IssueService) ListIssues(
	ctx context.Context,
	tenantID string,
	status internal_models.IssueStatusType,
	page utils.Page,
) ([]*internal_models.Issue, int, error) {
	switch status {
	case "", internal_models.IssueStatusSubmitted, internal_models.IssueStatusInProgress,
		internal_models.IssueStatusResolved, internal_models.IssueStatusClosed:
	default:
		return nil, 0, internal_utils.NewValidationError("status", fmt.Errorf("unknown issue status %q", status))
	}
	return s.issueRepo.ListForTenant(ctx, tenantID, status, page)
}

type FeedbackService struct {
	feedbackRepo internal_repositories.FeedbackRepository
	now          func() time.Time
}

func NewFeedbackService(feedbackRepo internal_repositories.FeedbackRepository) *FeedbackService {
	return &FeedbackService{
		feedbackRepo: feedbackRepo,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *FeedbackService) SubmitFeedback(ctx context.Context, tenantID string, req dtos.CreateFeedbackRequest) (*internal_models.Feedback, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, internal_utils.NewValidationError("rating", errors.New("rating must be between 1 and 5"))
	}
	f := &internal_models.Feedback{
		ID:          uuid.New(),
		TenantID:    tenantID,
		Type:        req.Type,
		Rating:      req.Rating,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Category:    req.Category,
		Status:      internal_models.FeedbackStatusSubmitted,
		CreatedAt:   s.now(),
	}
	if err := s.feedbackRepo.Create(ctx, f); err != nil {
		utils.Logger.WithError(err).Errorf("Failed to store feedback for tenant %s", tenantID)
		return nil, err
	}
	return f, nil
}

func (s *FeedbackService) ListFeedback(ctx context.Context, tenantID string, page utils.Page) ([]*internal_models.Feedback, int, error) {
	return s.feedbackRepo.ListForTenant(ctx, tenantID, page)
}
