package services

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/tropay/tenant-service/internal/config"
	"github.com/tropay/tenant-service/internal/constants"
	internal_models "github.com/tropay/tenant-service/internal/models"
	"github.com/tropay/tenant-service/shared/go-utils"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Notifier delivers best-effort messages to tenants and landlords. Failures
// are logged, never returned.
type Notifier interface {
	NotifyLandlordOfIssue(ctx context.Context, contact *internal_models.TenantContact, issue *internal_models.Issue)
	NotifyLandlordOfRenewal(ctx context.Context, contact *internal_models.TenantContact, rc *internal_models.RoomContract)
	SendPaymentReminder(ctx context.Context, contact *internal_models.TenantContact, inv *internal_models.Invoice)
}

const issueEmailHTML = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
<p><strong>%s</strong> reported a new issue.</p>
<ul>
  <li><strong>Ticket:</strong> %s</li>
  <li><strong>Title:</strong> %s</li>
  <li><strong>Priority:</strong> %s</li>
  <li><strong>Category:</strong> %s</li>
</ul>
<p>%s</p>
</body>
</html>`

const renewalEmailHTML = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
<p><strong>%s</strong> asked to renew contract <strong>%s</strong> for room %s.</p>
<p>The current contract ends on %s.</p>
</body>
</html>`

type NotificationService struct {
	cfg       *config.Config
	sendEmail func(msg *mail.SGMailV3) error
	sendSMS   func(params *twilioApi.CreateMessageParams) error
}

func NewNotificationService(cfg *config.Config) *NotificationService {
	s := &NotificationService{cfg: cfg}

	if cfg.SendgridAPIKey != "" {
		sg := sendgrid.NewSendClient(cfg.SendgridAPIKey)
		s.sendEmail = func(msg *mail.SGMailV3) error {
			resp, err := sg.Send(msg)
			if err != nil {
				return err
			}
			if resp.StatusCode >= 300 {
				return fmt.Errorf("sendgrid status %d: %s", resp.StatusCode, resp.Body)
			}
			return nil
		}
	} else {
		utils.Logger.Warn("SENDGRID_API_KEY not set; landlord emails are disabled")
	}

	if cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" {
		tw := twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.TwilioAccountSID,
			Password: cfg.TwilioAuthToken,
		})
		s.sendSMS = func(params *twilioApi.CreateMessageParams) error {
			_, err := tw.Api.CreateMessage(params)
			return err
		}
	} else {
		utils.Logger.Warn("Twilio credentials not set; SMS reminders are disabled")
	}
	return s
}

func (s *NotificationService) email(toName, toAddr, subject, plain, html string) {
	if s.sendEmail == nil {
		utils.Logger.Debugf("Email sender disabled, skipping %q to %s", subject, toAddr)
		return
	}
	from := mail.NewEmail(s.cfg.OrganizationName, s.cfg.LDFlag_SendgridFromEmail)
	to := mail.NewEmail(toName, toAddr)
	msg := mail.NewSingleEmail(from, subject, to, plain, html)
	if s.cfg.LDFlag_SendgridSandboxMode {
		ms := mail.NewMailSettings()
		ms.SetSandboxMode(mail.NewSetting(true))
		msg.MailSettings = ms
	}
	if err := s.sendEmail(msg); err != nil {
		utils.Logger.WithError(err).Errorf("Failed to send %q email to %s", subject, toAddr)
	}
}

func (s *NotificationService) NotifyLandlordOfIssue(_ context.Context, contact *internal_models.TenantContact, issue *internal_models.Issue) {
	if contact == nil || contact.LandlordEmail == nil {
		utils.Logger.Warnf("No landlord email on file, skipping issue notification for %s", issue.TicketNumber)
		return
	}
	subject := fmt.Sprintf(constants.EmailSubjectNewIssue, issue.TicketNumber, contact.Name)
	plain := fmt.Sprintf("%s reported %s (%s priority, %s): %s\n\n%s",
		contact.Name, issue.TicketNumber, issue.Priority, issue.Category, issue.Title, issue.Description)
	html := fmt.Sprintf(issueEmailHTML,
		contact.Name, issue.TicketNumber, issue.Title, issue.Priority, issue.Category, issue.Description)
	s.email(contact.LandlordName, *contact.LandlordEmail, subject, plain, html)
}

func (s *NotificationService) NotifyLandlordOfRenewal(_ context.Context, contact *internal_models.TenantContact, rc *internal_models.RoomContract) {
	if contact == nil || contact.LandlordEmail == nil {
		utils.Logger.Warnf("No landlord email on file, skipping renewal notification for %s", rc.Contract.ContractID)
		return
	}
	subject := fmt.Sprintf(constants.EmailSubjectRenewalRequest, contact.Name)
	plain := fmt.Sprintf("%s asked to renew contract %s for room %s. The current contract ends on %s.",
		contact.Name, rc.Contract.ContractID, rc.Room.RoomNumber, rc.Contract.EndDate)
	html := fmt.Sprintf(renewalEmailHTML,
		contact.Name, rc.Contract.ContractID, rc.Room.RoomNumber, rc.Contract.EndDate)
	s.email(contact.LandlordName, *contact.LandlordEmail, subject, plain, html)
}

func (s *NotificationService) SendPaymentReminder(_ context.Context, contact *internal_models.TenantContact, inv *internal_models.Invoice) {
	if contact == nil || contact.PhoneNumber == nil {
		return
	}
	if s.sendSMS == nil {
		utils.Logger.Debugf("Twilio client is nil, skipping reminder for invoice %s", inv.ID)
		return
	}
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(*contact.PhoneNumber)
	params.SetFrom(s.cfg.LDFlag_TwilioFromPhone)
	params.SetBody(fmt.Sprintf(constants.SMSPaymentReminder,
		inv.ID, inv.TotalAmount.StringFixed(2), inv.Status, inv.DueDate))
	if err := s.sendSMS(params); err != nil {
		utils.Logger.WithError(err).Warnf("Failed to send payment reminder SMS for invoice %s", inv.ID)
	}
}
