package mail

import (
	"fmt"
	"log"
	"net/smtp"

	"github.com/kinstream/kinstream/config"
)

// Mailer delivers transactional mail, currently only password-reset links.
type Mailer interface {
	Send(to, subject, body string) error
}

// New returns an SMTP mailer, or a log-only mailer when no SMTP host is
// configured so local development works without a mail server.
func New(cfg config.SMTPConfig) Mailer {
	if cfg.Host == "" {
		return logMailer{}
	}
	return &smtpMailer{cfg: cfg}
}

type smtpMailer struct {
	cfg config.SMTPConfig
}

func (m *smtpMailer) Send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		m.cfg.From, to, subject, body)

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	addr := m.cfg.Host + ":" + m.cfg.Port
	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	return nil
}

type logMailer struct{}

func (logMailer) Send(to, subject, body string) error {
	log.Printf("mail (no SMTP configured) to=%s subject=%q\n%s", to, subject, body)
	return nil
}
