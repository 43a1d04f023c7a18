package services

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tropay/tenant-service/internal/dtos"
	internal_models "github.com/tropay/tenant-service/internal/models"
	internal_utils "github.com/tropay/tenant-service/internal/utils"
	"github.com/tropay/tenant-service/shared/go-utils"
)

var ticketPattern = regexp.MustCompile(`^ISSUE-20250310-[0-9A-F]{6}$`)

func TestNewTicketNumber(t *testing.T) {
	a := NewTicketNumber(fixedNow)
	b := NewTicketNumber(fixedNow)
	assert.Regexp(t, ticketPattern, a)
	assert.NotEqual(t, a, b)
}

func TestCreateIssue(t *testing.T) {
	s := newTestStore(t)
	n := &recordingNotifier{}
	svc := NewIssueService(s.Issues, s.Profiles, s.Updates, n)
	svc.now = func() time.Time { return fixedNow }
	ctx := context.Background()

	issue, err := svc.CreateIssue(ctx, testTenantID, dtos.CreateIssueRequest{
		Title:       "  Leaking tap ",
		Description: "Kitchen tap drips all night",
		Priority:    "medium",
		Category:    "plumbing",
	})
	require.NoError(t, err)
	assert.Regexp(t, ticketPattern, issue.TicketNumber)
	assert.Equal(t, "Leaking tap", issue.Title)
	assert.Equal(t, internal_models.IssueStatusSubmitted, issue.Status)
	assert.Equal(t, internal_models.IssuePriorityMedium, issue.Priority)
	assert.NotNil(t, issue.Images)

	assert.Equal(t, []string{issue.TicketNumber}, n.issues)

	updates, err := s.Updates.ListForTenant(ctx, testTenantID, 10)
	require.NoError(t, err)
	require.Len(t, updates, 1)
	assert.Equal(t, internal_models.UpdateTypeIssue, updates[0].Type)
	assert.Contains(t, updates[0].Description, issue.TicketNumber)

	got, err := svc.GetIssue(ctx, testTenantID, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, issue.TicketNumber, got.TicketNumber)

	_, err = svc.GetIssue(ctx, "tenant-2", issue.ID)
	var nf *internal_utils.NotFoundError
	assert.ErrorAs(t, err, &nf)

	_, err = svc.GetIssue(ctx, testTenantID, uuid.New())
	assert.ErrorAs(t, err, &nf)
}

func TestListIssues(t *testing.T) {
	s := newTestStore(t)
	svc := NewIssueService(s.Issues, s.Profiles, s.Updates, &recordingNotifier{})
	ctx := context.Background()

	for _, title := range []string{"First issue", "Second issue", "Third issue"} {
		_, err := svc.CreateIssue(ctx, testTenantID, dtos.CreateIssueRequest{
			Title: title, Description: "d", Priority: "low", Category: "other",
		})
		require.NoError(t, err)
	}

	list, total, err := svc.ListIssues(ctx, testTenantID, "", utils.Page{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, list, 2)

	list, total, err = svc.ListIssues(ctx, testTenantID, internal_models.IssueStatusResolved, utils.Page{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, list)

	_, _, err = svc.ListIssues(ctx, testTenantID, "bogus", utils.Page{Page: 1, Limit: 20})
	var vErr *internal_utils.ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestSubmitFeedback(t *testing.T) {
	s := newTestStore(t)
	svc := NewFeedbackService(s.Feedback)
	ctx := context.Background()

	for _, rating := range []int{0, 6} {
		_, err := svc.SubmitFeedback(ctx, testTenantID, dtos.CreateFeedbackRequest{
			Type: "general", Rating: rating, Title: "t", Description: "d",
		})
		var vErr *internal_utils.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "rating", vErr.Field)
	}

	f, err := svc.SubmitFeedback(ctx, testTenantID, dtos.CreateFeedbackRequest{
		Type: "service", Rating: 5, Title: " Great ", Description: "Quick fix", Category: utils.Ptr("repairs"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Great", f.Title)
	assert.Equal(t, internal_models.FeedbackStatusSubmitted, f.Status)

	list, total, err := svc.ListFeedback(ctx, testTenantID, utils.Page{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, f.ID, list[0].ID)
}
