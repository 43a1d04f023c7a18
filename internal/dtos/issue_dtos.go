package dtos

import (
	internal_models "github.com/tropay/tenant-service/internal/models"
	internal_utils "github.com/tropay/tenant-service/internal/utils"
)

type CreateIssueRequest struct {
	Title       string   `json:"title" validate:"required,min=3,max=120"`
	Description string   `json:"description" validate:"required,max=2000"`
	Priority    string   `json:"priority" validate:"required,oneof=low medium high"`
	Category    string   `json:"category" validate:"required,oneof=maintenance electrical plumbing noise security other"`
	Images      []string `json:"images" validate:"max=5,dive,url"`
}

type IssueDTO struct {
	*internal_models.Issue
	StatusCategory internal_utils.Category `json:"status_category"`
}

func NewIssueDTO(i *internal_models.Issue) IssueDTO {
	return IssueDTO{
		Issue:          i,
		StatusCategory: internal_utils.Classify(string(i.Status), internal_utils.DomainIssue),
	}
}

func NewIssueDTOs(list []*internal_models.Issue) []IssueDTO {
	out := make([]IssueDTO, 0, len(list))
	for _, i := range list {
		out = append(out, NewIssueDTO(i))
	}
	return out
}

type CreateFeedbackRequest struct {
	Type        string  `json:"type" validate:"required,oneof=general service maintenance suggestion"`
	Rating      int     `json:"rating" validate:"required,min=1,max=5"`
	Title       string  `json:"title" validate:"required,max=120"`
	Description string  `json:"description" validate:"required,max=2000"`
	Category    *string `json:"category,omitempty" validate:"omitempty,max=50"`
}
