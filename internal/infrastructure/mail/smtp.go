package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/lexhaven/clientdesk/internal/core/ports"
)

// SMTPConfig carries the firm-wide fallback transport settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Ensure SMTPSender implements ports.MailSender.
var _ ports.MailSender = (*SMTPSender)(nil)

// SMTPSender delivers mail over plain SMTP. It is the fallback transport for
// dispatch runs by users without a connected mailbox.
type SMTPSender struct {
	cfg SMTPConfig
}

func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

// Configured reports whether the transport has enough settings to send.
func (s *SMTPSender) Configured() bool {
	return s.cfg.Host != "" && s.cfg.From != ""
}

func (s *SMTPSender) Send(_ context.Context, to, subject, htmlBody, textBody string) error {
	if !s.Configured() {
		return fmt.Errorf("smtp transport not configured")
	}

	const boundary = "clientdesk-alt"
	var b strings.Builder
	b.WriteString("From: " + s.cfg.From + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: multipart/alternative; boundary=" + boundary + "\r\n\r\n")
	b.WriteString("--" + boundary + "\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n" + textBody + "\r\n")
	b.WriteString("--" + boundary + "\r\nContent-Type: text/html; charset=utf-8\r\n\r\n" + htmlBody + "\r\n")
	b.WriteString("--" + boundary + "--\r\n")

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}
	return smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(b.String()))
}
