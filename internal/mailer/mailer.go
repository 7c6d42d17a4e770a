// Package mailer sends plain-text mail over SMTP.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"

	"foodapp/internal/config"
)

var (
	ErrDisabled       = errors.New("mail delivery is not configured")
	ErrInvalidMessage = errors.New("to, subject and text are required")
)

type Message struct {
	To      string `json:"to" binding:"required"`
	Subject string `json:"subject" binding:"required"`
	Text    string `json:"text" binding:"required"`
}

// Sender delivers composed messages. *gomail.Dialer satisfies it.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type Mailer struct {
	from   string
	sender Sender
}

// New returns a mailer for cfg. Without an SMTP host every send fails with
// ErrDisabled.
func New(cfg config.SMTPConfig) *Mailer {
	if !cfg.Enabled() {
		log.Info().Str("component", "mailer").Msg("SMTP not configured, mail disabled")
		return &Mailer{}
	}

	from := cfg.From
	if from == "" {
		from = cfg.User
	}
	return NewWithSender(from, gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password))
}

func NewWithSender(from string, sender Sender) *Mailer {
	return &Mailer{from: from, sender: sender}
}

func (m *Mailer) Enabled() bool {
	return m != nil && m.sender != nil
}

func (m *Mailer) Send(ctx context.Context, msg Message) error {
	if !m.Enabled() {
		return ErrDisabled
	}
	if strings.TrimSpace(msg.To) == "" || strings.TrimSpace(msg.Subject) == "" || msg.Text == "" {
		return ErrInvalidMessage
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	out := gomail.NewMessage()
	out.SetHeader("From", m.from)
	out.SetHeader("To", strings.TrimSpace(msg.To))
	out.SetHeader("Subject", msg.Subject)
	out.SetBody("text/plain", msg.Text)

	if err := m.sender.DialAndSend(out); err != nil {
		log.Error().Err(err).Str("component", "mailer").Msg("send failed")
		return fmt.Errorf("send mail: %w", err)
	}

	log.Info().Str("component", "mailer").Str("subject", msg.Subject).Msg("mail sent")
	return nil
}

func (m *Mailer) SendWelcome(ctx context.Context, to, username string) error {
	return m.Send(ctx, Message{
		To:      to,
		Subject: "Welcome to Our Food App",
		Text:    fmt.Sprintf("Hi %s,\n\nThank you for signing up! Enjoy exploring our food app.\n", username),
	})
}
