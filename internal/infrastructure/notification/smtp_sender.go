package notification

import (
	"context"
	"errors"

	"gopkg.in/gomail.v2"

	"donation-platform.backend/internal/config"
)

const senderName = "Donation Platform"

var dialAndSend = func(d *gomail.Dialer, m ...*gomail.Message) error {
	return d.DialAndSend(m...)
}

// Sender delivers a rendered receipt
type Sender interface {
	Send(ctx context.Context, r *Receipt) error
}

// SMTPSender sends receipts through the configured SMTP relay.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPSender(cfg config.EmailConfig) *SMTPSender {
	from := cfg.From
	if from == "" {
		from = cfg.User
	}
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   from,
	}
}

func (s *SMTPSender) Send(ctx context.Context, r *Receipt) error {
	if r.To == "" {
		return errors.New("receipt has no recipient")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.from, senderName)
	m.SetHeader("To", r.To)
	m.SetHeader("Subject", r.Subject)
	m.SetBody("text/html", string(r.HTML))

	return dialAndSend(s.dialer, m)
}
