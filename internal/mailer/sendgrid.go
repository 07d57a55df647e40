package mailer

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Sender delivers a plain-text email.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

type SendGridSender struct {
	fromEmail string
	fromName  string
	client    *sendgrid.Client
}

func NewSendGridSender(apiKey, fromEmail, fromName string) *SendGridSender {
	return &SendGridSender{
		fromEmail: fromEmail,
		fromName:  fromName,
		client:    sendgrid.NewSendClient(apiKey),
	}
}

func (p *SendGridSender) Send(ctx context.Context, to, subject, body string) error {
	message := mail.NewSingleEmail(mail.NewEmail(p.fromName, p.fromEmail), subject, mail.NewEmail("", to), body, "")

	response, err := p.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid error: %w", err)
	}
	if response.StatusCode >= 300 {
		return fmt.Errorf("sendgrid returned status %d: %s", response.StatusCode, response.Body)
	}
	return nil
}

// LogSender writes mails to the debug log. Used when no SendGrid key is configured.
type LogSender struct{}

func (LogSender) Send(_ context.Context, to, subject, body string) error {
	log.Debug().Str("to", to).Str("subject", subject).Str("body", body).Msg("mail not sent, no provider configured")
	return nil
}
