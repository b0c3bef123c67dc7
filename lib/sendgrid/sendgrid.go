package sendgrid

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	sendgridGo "github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Config for the sendgrid api
type Config struct {
	APIKey    string `mapstructure:"api_key"`
	FromEmail string `mapstructure:"from_email"`
	FromName  string `mapstructure:"from_name"`
}

// Sendgrid sends transactional emails. A zero value sender logs and drops emails.
type Sendgrid struct {
	cfg    Config
	client *sendgridGo.Client
}

// New sender for the given configuration
func New(cfg Config) Sendgrid {
	s := Sendgrid{cfg: cfg}
	if cfg.APIKey != "" {
		s.client = sendgridGo.NewSendClient(cfg.APIKey)
	}
	return s
}

// Enabled reports whether an api key was configured
func (s Sendgrid) Enabled() bool {
	return s.client != nil
}

// SendEmail sends a plain text and html email to a single recipient
func (s Sendgrid) SendEmail(toEmail, toName, subject, plainText, html string) error {
	if s.client == nil {
		log.Debug().Str("section", "sendgrid").Str("to", toEmail).Str("subject", subject).Msg("Sendgrid disabled, email dropped")
		return nil
	}
	from := mail.NewEmail(s.cfg.FromName, s.cfg.FromEmail)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, plainText, html)
	resp, err := s.client.Send(message)
	if err != nil {
		return errors.Wrap(err, "sendgrid send")
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid returned status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
