package mailer

import (
	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"
)

// Mailer delivers transactional mail. Delivery is fire-and-forget from the
// caller's point of view: a failing mailer must never abort the request that
// triggered it.
type Mailer interface {
	Send(to []string, subject, htmlBody string) error
}

// SMTPConfig holds the dialer settings for the SMTP mailer
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer implements Mailer over gomail
type SMTPMailer struct {
	cfg SMTPConfig
	log zerolog.Logger
}

// NewSMTPMailer creates an SMTPMailer
func NewSMTPMailer(cfg SMTPConfig, log zerolog.Logger) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, log: log.With().Str("component", "mailer").Logger()}
}

// Send delivers one HTML message
func (m *SMTPMailer) Send(to []string, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	if err := d.DialAndSend(msg); err != nil {
		m.log.Warn().Err(err).Str("subject", subject).Msg("mail delivery failed")
		return err
	}
	return nil
}

// Disabled is the degraded-mode Mailer used when SMTP is not configured. It
// logs each dropped message instead of silently discarding it.
type Disabled struct {
	log zerolog.Logger
}

// NewDisabled creates a Disabled mailer
func NewDisabled(log zerolog.Logger) *Disabled {
	return &Disabled{log: log.With().Str("component", "mailer").Logger()}
}

// Send drops the message and logs the skip
func (m *Disabled) Send(to []string, subject, htmlBody string) error {
	m.log.Warn().Strs("to", to).Str("subject", subject).Msg("mailer disabled, dropping message")
	return nil
}
