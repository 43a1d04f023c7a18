package services

import (
	"context"

	internal_models "github.com/tropay/tenant-service/internal/models"
	internal_repositories "github.com/tropay/tenant-service/internal/repositories"
	internal_utils "github.com/tropay/tenant-service/internal/utils"
)

// ActionDispatcher resolves what a quick action does for a tenant.
type ActionDispatcher interface {
	Dispatch(ctx context.Context, tenantID string, action *internal_models.QuickAction) (*internal_models.QuickActionResult, error)
}

// NavigationDispatcher answers quick actions with an in-app route, or a
// tel: link for contacting the landlord.
type NavigationDispatcher struct {
	profileRepo internal_repositories.ProfileRepository
}

func NewNavigationDispatcher(profileRepo internal_repositories.ProfileRepository) *NavigationDispatcher {
	return &NavigationDispatcher{profileRepo: profileRepo}
}

var quickActionTargets = map[internal_models.QuickActionKind]string{
	internal_models.QuickActionReportIssue:  "/issues/new",
	internal_models.QuickActionViewInvoices: "/payments",
	internal_models.QuickActionFeedback:     "/feedback/new",
}

func (d *NavigationDispatcher) Dispatch(
	ctx context.Context,
	tenantID string,
	action *internal_models.QuickAction,
) (*internal_models.QuickActionResult, error) {
	res := &internal_models.QuickActionResult{ActionID: action.ID, Kind: action.Kind}

	if action.Kind == internal_models.QuickActionContactLandlord {
		contact, err := d.profileRepo.GetContact(ctx, tenantID)
		if err != nil {
			return nil, err
		}
		if contact == nil || contact.LandlordPhone == nil {
			res.Target = "/contact"
			res.Message = "No landlord phone number on file"
			return res, nil
		}
		res.Target = "tel:" + *contact.LandlordPhone
		res.Message = "Call " + contact.LandlordName
		return res, nil
	}

	target, ok := quickActionTargets[action.Kind]
	if !ok {
		return nil, internal_utils.NewValidationError("kind", internal_utils.ErrUnknownQuickAction)
	}
	res.Target = target
	return res, nil
}
