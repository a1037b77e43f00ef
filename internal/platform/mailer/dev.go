package mailer

import (
	"github.com/stayloop/hotel-bookings/pkg/logger"
)

// DevMailer logs instead of sending so the confirmation code and reset
// link are visible in local development.
type DevMailer struct{}

func NewDevMailer() *DevMailer {
	return &DevMailer{}
}

func (d *DevMailer) SendConfirmationEmail(toEmail, toName, code string) error {
	logger.Info("[DEV MAIL] confirmation email",
		"to", toEmail,
		"name", toName,
		"code", code,
	)
	return nil
}

func (d *DevMailer) SendPasswordResetEmail(toEmail, resetURL string) error {
	logger.Info("[DEV MAIL] password reset email",
		"to", toEmail,
		"reset_url", resetURL,
	)
	return nil
}
