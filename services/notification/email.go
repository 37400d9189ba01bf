package notification

import (
	"fmt"

	"soothe/config"

	"gopkg.in/gomail.v2"
)

// Mailer sends transactional email over SMTP.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewMailer builds a Mailer from the loaded application config.
func NewMailer() *Mailer {
	cfg := config.AppConfig
	return &Mailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		from:   cfg.SMTPFrom,
	}
}

// Send delivers one plain-text email.
func (m *Mailer) Send(to, subject, body string) error {
	if to == "" {
		return fmt.Errorf("mailer: empty recipient address")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("mailer: failed to send to %s: %w", to, err)
	}
	return nil
}
