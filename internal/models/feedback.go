package models

import (
	"time"

	"github.com/google/uuid"
)

type FeedbackStatusType string

const (
	FeedbackStatusSubmitted FeedbackStatusType = "submitted"
	FeedbackStatusReviewed  FeedbackStatusType = "reviewed"
	FeedbackStatusResponded FeedbackStatusType = "responded"
)

type Feedback struct {
	ID          uuid.UUID          `json:"id"`
	TenantID    string             `json:"tenant_id"`
	Type        string             `json:"type"`
	Rating      int                `json:"rating"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Category    *string            `json:"category,omitempty"`
	Status      FeedbackStatusType `json:"status"`
	CreatedAt   time.Time          `json:"created_at"`
}
