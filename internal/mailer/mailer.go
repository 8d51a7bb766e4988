// Package mailer sends outbound notification email.
package mailer

import (
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Mailer sends a single HTML message.
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

// SMTPMailer delivers mail through an SMTP relay using gomail.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer creates a mailer for the given relay and sender address.
func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

// Send delivers a single HTML message. Each call dials a fresh SMTP session;
// notification volume here is far below the point where pooling matters.
func (m *SMTPMailer) Send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

// NopMailer drops messages, logging that delivery is disabled. Used when no
// SMTP relay is configured.
type NopMailer struct {
	log *zap.Logger
}

// NewNopMailer creates a NopMailer.
func NewNopMailer(log *zap.Logger) *NopMailer {
	return &NopMailer{log: log}
}

// Send logs and discards the message.
func (m *NopMailer) Send(to, subject, _ string) error {
	m.log.Info("mail delivery disabled, dropping message",
		zap.String("to", to),
		zap.String("subject", subject))
	return nil
}
