package service

import (
	"errors"
	"io"

	"clinical-scan-support/config"

	"gopkg.in/gomail.v2"
)

// Mailer is the outbound notification channel. Delivery over it is best
// effort: callers decide whether a send failure aborts anything.
type Mailer interface {
	SendPlain(to, subject, body string) error
	SendWithAttachment(to, subject, body, filename string, attachment []byte) error
}

// SMTPMailer sends mail through a configured SMTP relay via gomail.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(cfg config.SMTPConfig) (*SMTPMailer, error) {
	if cfg.User == "" || cfg.Password == "" {
		return nil, errors.New("SMTP credentials not configured: set SMTP_USER and SMTP_PASSWORD")
	}
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
	}, nil
}

func (m *SMTPMailer) SendPlain(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	return m.dialer.DialAndSend(msg)
}

func (m *SMTPMailer) SendWithAttachment(to, subject, body, filename string, attachment []byte) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	msg.Attach(filename, gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := w.Write(attachment)
		return err
	}))

	return m.dialer.DialAndSend(msg)
}
