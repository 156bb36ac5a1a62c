// Package email delivers the rendered digest via SMTP. Delivery is a
// stateless send operation; a failure is reported to the caller and never
// aborts the run.
package email

import (
	"fmt"
	"time"

	gomail "gopkg.in/mail.v2"

	"aidigest/internal/config"
)

// Sender delivers digest emails via SMTP.
type Sender struct {
	cfg config.Email
}

// NewSender creates a sender with the given SMTP configuration.
func NewSender(cfg config.Email) *Sender {
	return &Sender{cfg: cfg}
}

// Configured reports whether the sender has enough configuration to attempt
// delivery.
func (s *Sender) Configured() bool {
	return s.cfg.Sender != "" && s.cfg.Recipient != "" && s.cfg.SMTPHost != ""
}

// Send delivers an HTML digest email.
func (s *Sender) Send(subject, htmlBody string) error {
	if !s.Configured() {
		return fmt.Errorf("email delivery not configured: sender, recipient and smtp_host are required")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.Sender)
	m.SetHeader("To", s.cfg.Recipient)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	dialer := gomail.NewDialer(s.cfg.SMTPHost, s.cfg.SMTPPort, s.cfg.Sender, s.cfg.Password)
	dialer.Timeout = 10 * time.Second

	if err := dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send digest to %s: %w", s.cfg.Recipient, err)
	}
	return nil
}
