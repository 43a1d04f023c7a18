package models

import "context"

type QuickActionKind string

const (
	QuickActionReportIssue     QuickActionKind = "report_issue"
	QuickActionViewInvoices    QuickActionKind = "view_invoices"
	QuickActionFeedback        QuickActionKind = "feedback"
	QuickActionContactLandlord QuickActionKind = "contact_landlord"
)

// QuickActionResult tells the client where a quick action leads.
type QuickActionResult struct {
	ActionID string          `json:"action_id"`
	Kind     QuickActionKind `json:"kind"`
	Target   string          `json:"target"`
	Message  string          `json:"message,omitempty"`
}

// QuickAction is a dashboard shortcut. Trigger is rebound on every
// aggregation and is never serialized.
type QuickAction struct {
	ID      string                                               `json:"id"`
	Title   string                                               `json:"title"`
	Icon    string                                               `json:"icon"`
	Color   string                                               `json:"color"`
	Kind    QuickActionKind                                      `json:"kind"`
	Trigger func(ctx context.Context) (*QuickActionResult, error) `json:"-"`
}
