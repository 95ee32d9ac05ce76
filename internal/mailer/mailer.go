// Package mailer delivers transactional email over SMTP. Only one
// message kind exists today: the password-reset link.
package mailer

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Config carries SMTP connection settings, loaded from the
// environment by the config package.
type Config struct {
	Host string
	Port string
	User string
	Pass string
	From string
}

// Mailer sends mail through one SMTP server.
type Mailer struct {
	cfg Config
}

// New returns a Mailer for the given SMTP settings.
func New(cfg Config) *Mailer {
	return &Mailer{cfg: cfg}
}

// SendResetLink emails a password-reset link to the given address.
func (m *Mailer) SendResetLink(to, link string) error {
	msg := BuildResetMessage(m.cfg.From, to, link)
	var auth smtp.Auth
	if m.cfg.User != "" {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
	}
	addr := m.cfg.Host + ":" + m.cfg.Port
	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, msg); err != nil {
		return fmt.Errorf("send reset mail: %w", err)
	}
	return nil
}

// BuildResetMessage renders the RFC 5322 message body for a reset
// email. Separated from delivery so the formatting is testable.
func BuildResetMessage(from, to, link string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: Password Reset Request\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString("You requested a password reset. Click the link below to reset your password:\r\n")
	b.WriteString("\r\n")
	b.WriteString(link + "\r\n")
	return []byte(b.String())
}
