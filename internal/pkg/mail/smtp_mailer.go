package mail

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/shvarc/provider/internal/pkg/env"
	"gopkg.in/gomail.v2"
)

// Message is a plain text email.
type Message struct {
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
}

// Sender delivers email messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPMailer sends emails via SMTP
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

// NewSMTPMailerFromEnv reads the SMTP_* settings.
func NewSMTPMailerFromEnv() *SMTPMailer {
	host := env.GetEnv("SMTP_HOST", "localhost")
	port, err := strconv.Atoi(env.GetEnv("SMTP_PORT", "25"))
	if err != nil {
		log.Printf("Invalid SMTP_PORT, using 25: %v", err)
		port = 25
	}

	sender := env.GetEnv("SMTP_SENDER", "")
	if sender == "" {
		sender = "no-reply@localhost"
		log.Printf("SMTP_SENDER not set, using default sender: %s", sender)
	}

	return NewSMTPMailer(host, port, env.GetEnv("SMTP_USERNAME", ""), env.GetEnv("SMTP_PASSWORD", ""), sender)
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(msg.To) == 0 {
		return errors.New("mail: no recipients")
	}

	if err := m.dialer.DialAndSend(m.build(msg)); err != nil {
		log.Printf("SMTP send error: %v", err)
		return fmt.Errorf("send mail to %v: %w", msg.To, err)
	}

	log.Printf("Email sent to %v via %s:%d", msg.To, m.dialer.Host, m.dialer.Port)
	return nil
}

func (m *SMTPMailer) build(msg Message) *gomail.Message {
	gm := gomail.NewMessage()
	gm.SetHeader("From", m.from)
	gm.SetHeader("To", msg.To...)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/plain", msg.Body)
	return gm
}
