package email

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Sender delivers transactional emails. Both operations report delivery
// as a boolean: failures are logged here, never raised, and the caller
// decides whether a failed send fails the request.
type Sender interface {
	SendWelcomeEmail(email, name string) bool
	SendTransactionEmail(email, name string, amount float64, plan string) bool
}

type sendGridSender struct {
	client    *sendgrid.Client
	fromEmail string
	appName   string
	logger    zerolog.Logger
}

// NewSendGridSender creates a Sender backed by the SendGrid API.
func NewSendGridSender(apiKey, fromEmail, appName string, logger zerolog.Logger) Sender {
	return &sendGridSender{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		appName:   appName,
		logger:    logger,
	}
}

func (s *sendGridSender) SendWelcomeEmail(to, name string) bool {
	subject := fmt.Sprintf("Welcome to %s!", s.appName)
	text := fmt.Sprintf("Hi %s,\n\nWelcome to %s! We're excited to have you on board.", name, s.appName)
	html := fmt.Sprintf("<strong>Hi %s,</strong><br><br>Welcome to %s! We're excited to have you on board.", name, s.appName)

	return s.send(to, subject, text, html)
}

func (s *sendGridSender) SendTransactionEmail(to, name string, amount float64, plan string) bool {
	date := time.Now().Format("January 2, 2006")
	subject := fmt.Sprintf("Your %s Transaction Receipt", s.appName)
	text := fmt.Sprintf(
		"Hi %s,\n\nThank you for your purchase!\n\nPlan: %s\nAmount: %.2f\nDate: %s",
		name, plan, amount, date,
	)
	html := fmt.Sprintf(
		"<strong>Hi %s,</strong><p>Thank you for your purchase!</p><p><strong>Plan:</strong> %s</p><p><strong>Amount:</strong> %.2f</p><p><strong>Date:</strong> %s</p>",
		name, plan, amount, date,
	)

	return s.send(to, subject, text, html)
}

func (s *sendGridSender) send(to, subject, text, html string) bool {
	from := mail.NewEmail(s.appName, s.fromEmail)
	msg := mail.NewSingleEmail(from, subject, mail.NewEmail(to, to), text, html)

	resp, err := s.client.Send(msg)
	if err != nil {
		s.logger.Error().Err(err).Str("to", to).Str("subject", subject).Msg("error sending email")
		return false
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.logger.Error().
			Int("status", resp.StatusCode).
			Str("to", to).
			Str("subject", subject).
			Str("response", resp.Body).
			Msg("sendgrid rejected email")
		return false
	}
	return true
}
