package mailer

import "github.com/stayloop/hotel-bookings/pkg/config"

// Service sends the two account-lifecycle emails. Delivery is best
// effort: callers log failures and hand the payload to the notification
// queue rather than aborting the parent operation.
type Service interface {
	SendConfirmationEmail(toEmail, toName, code string) error
	SendPasswordResetEmail(toEmail, resetURL string) error
}

// New picks the backend from config: dev mode logs instead of sending,
// a MailerSend key selects the API client, otherwise plain SMTP.
func New(cfg config.EmailConfig) Service {
	if cfg.DevMode {
		return NewDevMailer()
	}
	if cfg.MailerSendKey != "" {
		return NewMailerSend(cfg.MailerSendKey, cfg.SMTPFrom)
	}
	return NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPUseTLS)
}
