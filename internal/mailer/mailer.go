package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/sirupsen/logrus"

	"faqcenter/internal/config"
)

// SMTPMailer отправляет автоответы через обычный SMTP.
// Если SMTP выключен в конфиге, письмо только логируется - удобно для
// локальной разработки без почтового сервера.
type SMTPMailer struct {
	cfg *config.Config
}

func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	if !m.cfg.SMTP.Enabled {
		logrus.Infof("SMTP выключен, письмо для %s (%q) не отправлено", to, subject)
		return nil
	}

	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s\r\n", m.cfg.SMTP.From))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", to))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	addr := fmt.Sprintf("%s:%d", m.cfg.SMTP.Host, m.cfg.SMTP.Port)

	var auth smtp.Auth
	if m.cfg.SMTP.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.SMTP.Username, m.cfg.SMTP.Password, m.cfg.SMTP.Host)
	}

	err := smtp.SendMail(addr, auth, m.cfg.SMTP.From, []string{to}, []byte(msg.String()))
	if err != nil {
		return fmt.Errorf("ошибка отправки письма: %w", err)
	}

	return nil
}
