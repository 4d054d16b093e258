package service

import (
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"fleetbook/internal/config"
)

// EmailSender delivers one email message.
type EmailSender interface {
	SendEmail(toEmail, toName, subject, body string) error
}

// SMSSender delivers one text message.
type SMSSender interface {
	SendSMS(toNumber, body string) error
}

// PushSender hands a push message to the delivery infrastructure for the
// given device tokens.
type PushSender interface {
	SendPush(tokens []string, title, body string, data map[string]string) error
}

type sendGridSender struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewSendGridSender(cfg *config.Config) EmailSender {
	return &sendGridSender{
		apiKey:    cfg.SendGridAPIKey,
		fromEmail: cfg.SendGridFromEmail,
		fromName:  cfg.SendGridFromName,
	}
}

func (s *sendGridSender) SendEmail(toEmail, toName, subject, body string) error {
	if s.apiKey == "" || s.fromEmail == "" {
		return fmt.Errorf("sendgrid not configured")
	}
	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, body, "")

	client := sendgrid.NewSendClient(s.apiKey)
	resp, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid returned status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

type twilioSender struct {
	client *twilio.RestClient
	from   string
}

func NewTwilioSender(cfg *config.Config) SMSSender {
	return &twilioSender{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.TwilioAccountSID,
			Password: cfg.TwilioAuthToken,
		}),
		from: cfg.TwilioFromNumber,
	}
}

func (s *twilioSender) SendSMS(toNumber, body string) error {
	if s.from == "" {
		return fmt.Errorf("twilio not configured")
	}
	params := &openapi.CreateMessageParams{}
	params.SetTo(toNumber)
	params.SetFrom(s.from)
	params.SetBody(body)

	if _, err := s.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("twilio send: %w", err)
	}
	return nil
}

// logPushSender records the dispatch; actual push delivery is owned by the
// deployment's push gateway, which replaces this implementation.
type logPushSender struct{}

func NewLogPushSender() PushSender {
	return logPushSender{}
}

func (logPushSender) SendPush(tokens []string, title, body string, data map[string]string) error {
	logrus.WithFields(logrus.Fields{
		"tokens": len(tokens),
		"title":  title,
	}).Info("push dispatch")
	return nil
}
