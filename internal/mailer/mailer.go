// Package mailer sends transactional emails.
package mailer

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"shoestore/internal/config"
	"shoestore/internal/logger"
)

// Message is a single outgoing email.
type Message struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// Mailer delivers messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// New returns an SMTP mailer, or a LogMailer when no SMTP host is configured.
func New(cfg config.MailConfig, log *zap.Logger) Mailer {
	if cfg.Host == "" {
		log.Warn("SMTP_HOST is not set, emails will only be logged")
		return NewLogMailer(log)
	}
	return NewSMTPMailer(cfg)
}

// Sender is the part of gomail's dialer used by SMTPMailer.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailer delivers mail through an SMTP server.
type SMTPMailer struct {
	from   string
	dialer Sender
}

// NewSMTPMailer creates an SMTPMailer from the mail config.
func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	return &SMTPMailer{
		from:   cfg.From,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

// NewSMTPMailerWithSender creates an SMTPMailer that hands messages to sender.
func NewSMTPMailerWithSender(from string, sender Sender) *SMTPMailer {
	return &SMTPMailer{from: from, dialer: sender}
}

// Send builds the MIME message and sends it.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	gm := gomail.NewMessage()
	gm.SetHeader("From", m.from)
	gm.SetHeader("To", msg.To)
	gm.SetHeader("Subject", msg.Subject)
	switch {
	case msg.HTMLBody != "" && msg.TextBody != "":
		gm.SetBody("text/plain", msg.TextBody)
		gm.AddAlternative("text/html", msg.HTMLBody)
	case msg.HTMLBody != "":
		gm.SetBody("text/html", msg.HTMLBody)
	default:
		gm.SetBody("text/plain", msg.TextBody)
	}

	if err := m.dialer.DialAndSend(gm); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", msg.To, err)
	}
	return nil
}

// LogMailer writes messages to the log instead of sending them.
type LogMailer struct {
	log *zap.Logger
}

// NewLogMailer creates a LogMailer.
func NewLogMailer(log *zap.Logger) *LogMailer {
	return &LogMailer{log: log.Named("mailer")}
}

func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	logger.FromContext(ctx, m.log).Info("email not sent, SMTP disabled",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.TextBody),
	)
	return nil
}
