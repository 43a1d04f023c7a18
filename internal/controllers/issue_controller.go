package controllers

import (
	"net/http"

	"github.com/tropay/tenant-service/internal/dtos"
	internal_models "github.com/tropay/tenant-service/internal/models"
	"github.com/tropay/tenant-service/internal/services"
	"github.com/tropay/tenant-service/shared/go-utils"
)

type IssueController struct {
	issueService    *services.IssueService
	feedbackService *services.FeedbackService
}

func NewIssueController(is *services.IssueService, fs *services.FeedbackService) *IssueController {
	return &IssueController{issueService: is, feedbackService: fs}
}

// POST /api/v1/tenant/issues
func (c *IssueController) CreateIssueHandler(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantIDOrAbort(w, r)
	if !ok {
		return
	}

	var req dtos.CreateIssueRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	issue, err := c.issueService.CreateIssue(r.Context(), tenantID, req)
	if err != nil {
		respondServiceError(w, err, "Could not submit issue")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dtos.NewIssueDTO(issue))
}

// GET /api/v1/tenant/issues
func (c *IssueController) ListIssuesHandler(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantIDOrAbort(w, r)
	if !ok {
		return
	}

	page := utils.PageFromRequest(r)
	status := internal_models.IssueStatusType(r.URL.Query().Get("status"))
	list, total, err := c.issueService.ListIssues(r.Context(), tenantID, status, page)
	if err != nil {
		respondServiceError(w, err, "Could not list issues")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.NewListResponse(dtos.NewIssueDTOs(list), page, total))
}

// GET /api/v1/tenant/issues/{id}
func (c *IssueController) GetIssueHandler(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantIDOrAbort(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	issue, err := c.issueService.GetIssue(r.Context(), tenantID, id)
	if err != nil {
		respondServiceError(w, err, "Could not load issue")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.NewIssueDTO(issue))
}

// POST /api/v1/tenant/feedback
func (c *IssueController) SubmitFeedbackHandler(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantIDOrAbort(w, r)
	if !ok {
		return
	}

	var req dtos.CreateFeedbackRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	f, err := c.feedbackService.SubmitFeedback(r.Context(), tenantID, req)
	if err != nil {
		respondServiceError(w, err, "Could not submit feedback")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, f)
}

// GET /api/v1/tenant/feedback
func (c *IssueController) ListFeedbackHandler(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantIDOrAbort(w, r)
	if !ok {
		return
	}

	page := utils.PageFromRequest(r)
	list, total, err := c.feedbackService.ListFeedback(r.Context(), tenantID, page)
	if err != nil {
		respondServiceError(w, err, "Could not list feedback")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.NewListResponse(list, page, total))
}
