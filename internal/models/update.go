package models

import "time"

type UpdateType string

const (
	UpdateTypePayment      UpdateType = "payment"
	UpdateTypeIssue        UpdateType = "issue"
	UpdateTypeNotification UpdateType = "notification"
	UpdateTypeMaintenance  UpdateType = "maintenance"
)

type UpdateStatus string

const (
	UpdateStatusResolved   UpdateStatus = "resolved"
	UpdateStatusPending    UpdateStatus = "pending"
	UpdateStatusInProgress UpdateStatus = "in-progress"
)

// RecentUpdate is created by backend events and never mutated afterwards.
type RecentUpdate struct {
	ID          string        `json:"id"`
	TenantID    string        `json:"-"`
	Type        UpdateType    `json:"type"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Timestamp   time.Time     `json:"timestamp"`
	Status      *UpdateStatus `json:"status,omitempty"`
}
