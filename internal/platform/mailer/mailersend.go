package mailer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mailersend/mailersend-go"
)

type MailerSendClient struct {
	client *mailersend.Mailersend
	from   mailersend.From
}

func NewMailerSend(apiKey, fromEmail string) *MailerSendClient {
	return &MailerSendClient{
		client: mailersend.NewMailersend(apiKey),
		from: mailersend.From{
			Name:  "Stayloop Bookings",
			Email: fromEmail,
		},
	}
}

func (m *MailerSendClient) SendConfirmationEmail(toEmail, toName, code string) error {
	subject := "Confirm your email"
	html := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Thank you for registering! Please confirm your email by entering the following 6-digit code:</p>
		<h2>%s</h2>
		<p>If you did not request this, please ignore this email.</p>
	`, toName, code)
	text := fmt.Sprintf("Thank you for registering! Your confirmation code is: %s", code)

	return m.sendEmail(toEmail, toName, subject, text, html)
}

func (m *MailerSendClient) SendPasswordResetEmail(toEmail, resetURL string) error {
	subject := "Password reset"
	html := fmt.Sprintf(`
		<p>You requested a password reset. Click the link below to choose a new password:</p>
		<p><a href="%s">Reset password</a></p>
		<p>The link expires in 1 hour. If you did not request this, please ignore this email.</p>
	`, resetURL)
	text := fmt.Sprintf("You requested a password reset. Click the link to reset your password: %s", resetURL)

	return m.sendEmail(toEmail, "", subject, text, html)
}

func (m *MailerSendClient) sendEmail(toEmail, toName, subject, text, html string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	msg := m.client.Email.NewMessage()
	msg.SetFrom(m.from)
	msg.SetRecipients([]mailersend.Recipient{{Name: toName, Email: toEmail}})
	msg.SetSubject(subject)

	if strings.TrimSpace(text) != "" {
		msg.SetText(text)
	}
	if strings.TrimSpace(html) != "" {
		msg.SetHTML(html)
	}

	_, err := m.client.Email.Send(ctx, msg)
	return err
}
