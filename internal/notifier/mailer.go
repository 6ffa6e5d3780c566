package notifier

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"medbook/pkg/logger"
)

// Mailer delivers one notification email.
type Mailer interface {
	Send(ctx context.Context, toName, toEmail, subject, body string) error
}

type SendGridMailer struct {
	client    *sendgrid.Client
	fromEmail string
	log       *logger.Logger
}

func NewSendGridMailer(apiKey, fromEmail string, log *logger.Logger) *SendGridMailer {
	return &SendGridMailer{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		log:       log,
	}
}

func (m *SendGridMailer) Send(ctx context.Context, toName, toEmail, subject, body string) error {
	from := mail.NewEmail("MedBook", m.fromEmail)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, body, "")

	resp, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send: unexpected status %d: %s", resp.StatusCode, resp.Body)
	}

	m.log.Debug("Email sent", "to", toEmail, "subject", subject, "status", resp.StatusCode)
	return nil
}
