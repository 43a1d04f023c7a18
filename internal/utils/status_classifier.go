package utils

import "github.com/tropay/tenant-service/internal/models"

// Category is the presentation bucket a status maps to.
type Category string

const (
	CategorySuccess Category = "success"
	CategoryWarning Category = "warning"
	CategoryError   Category = "error"
	CategoryInfo    Category = "info"
	CategoryNeutral Category = "neutral"
)

// Domain selects which status vocabulary Classify interprets.
type Domain string

const (
	DomainRoom     Domain = "room"
	DomainContract Domain = "contract"
	DomainInvoice  Domain = "invoice"
	DomainIssue    Domain = "issue"
	DomainNotice   Domain = "notice"
)

var statusCategories = map[Domain]map[string]Category{
	DomainRoom: {
		string(models.RoomStatusOccupied):    CategorySuccess,
		string(models.RoomStatusAvailable):   CategoryInfo,
		string(models.RoomStatusMaintenance): CategoryError,
	},
	DomainContract: {
		string(models.ContractStatusActive):     CategorySuccess,
		string(models.ContractStatusExpired):    CategoryError,
		string(models.ContractStatusPending):    CategoryWarning,
		string(models.ContractStatusTerminated): CategoryError,
	},
	DomainInvoice: {
		string(models.InvoiceStatusDueSoon): CategoryWarning,
		string(models.InvoiceStatusOverdue): CategoryError,
		string(models.InvoiceStatusPaid):    CategorySuccess,
		string(models.InvoiceStatusPending): CategoryNeutral,
	},
	DomainIssue: {
		string(models.UpdateStatusResolved):   CategorySuccess,
		string(models.UpdateStatusPending):    CategoryWarning,
		string(models.UpdateStatusInProgress): CategoryInfo,
		string(models.IssueStatusSubmitted):   CategoryInfo,
		string(models.IssueStatusClosed):      CategoryNeutral,
	},
	DomainNotice: {
		string(models.NoticeWarning): CategoryWarning,
		string(models.NoticeInfo):    CategoryInfo,
		string(models.NoticeSuccess): CategorySuccess,
	},
}

// Classify maps a status literal to its presentation category. Matching is
// exact; anything outside the domain's vocabulary is neutral.
func Classify(status string, domain Domain) Category {
	if c, ok := statusCategories[domain][status]; ok {
		return c
	}
	return CategoryNeutral
}

// IconForUpdateType picks the icon shown next to a recent update.
func IconForUpdateType(t models.UpdateType) string {
	switch t {
	case models.UpdateTypePayment:
		return "exclamationmark.triangle.fill"
	case models.UpdateTypeIssue:
		return "checkmark.circle.fill"
	case models.UpdateTypeNotification:
		return "bell.fill"
	case models.UpdateTypeMaintenance:
		return "gear"
	default:
		return "bell.fill"
	}
}

// ColorForUpdateType picks the accent color for a recent update.
func ColorForUpdateType(t models.UpdateType) string {
	switch t {
	case models.UpdateTypePayment:
		return "#F59E0B"
	case models.UpdateTypeIssue:
		return "#10B981"
	case models.UpdateTypeNotification:
		return "#3B82F6"
	default:
		return "#6B7280"
	}
}

// IconForNotice picks the icon for an important notice.
func IconForNotice(t models.NoticeType) string {
	switch t {
	case models.NoticeWarning:
		return "exclamationmark.triangle.fill"
	case models.NoticeSuccess:
		return "checkmark.circle.fill"
	default:
		return "bell.fill"
	}
}
