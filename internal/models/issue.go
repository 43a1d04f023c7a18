package models

import (
	"time"

	"github.com/google/uuid"
)

type IssuePriority string

const (
	IssuePriorityLow    IssuePriority = "low"
	IssuePriorityMedium IssuePriority = "medium"
	IssuePriorityHigh   IssuePriority = "high"
)

type IssueStatusType string

const (
	IssueStatusSubmitted  IssueStatusType = "submitted"
	IssueStatusInProgress IssueStatusType = "in-progress"
	IssueStatusResolved   IssueStatusType = "resolved"
	IssueStatusClosed     IssueStatusType = "closed"
)

type Issue struct {
	ID           uuid.UUID       `json:"id"`
	TenantID     string          `json:"tenant_id"`
	TicketNumber string          `json:"ticket_number"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Priority     IssuePriority   `json:"priority"`
	Category     string          `json:"category"`
	Status       IssueStatusType `json:"status"`
	Images       []string        `json:"images"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	ResolvedAt   *time.Time      `json:"resolved_at,omitempty"`
}
