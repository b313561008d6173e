package mailer

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

// Message is a single outgoing email
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Sender delivers email
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Config holds SMTP settings
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// dialer is the subset of *gomail.Dialer used to deliver messages
type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPSender implements Sender over SMTP using gomail
type SMTPSender struct {
	from   string
	dialer dialer
}

// NewSMTPSender creates a new SMTP sender
func NewSMTPSender(cfg Config) *SMTPSender {
	return &SMTPSender{
		from:   cfg.From,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

// Send builds a multipart message and delivers it
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if strings.TrimSpace(msg.To) == "" {
		return fmt.Errorf("recipient is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	if msg.Text != "" {
		m.SetBody("text/plain", msg.Text)
		if msg.HTML != "" {
			m.AddAlternative("text/html", msg.HTML)
		}
	} else {
		m.SetBody("text/html", msg.HTML)
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", msg.To, err)
	}
	return nil
}

// LogSender writes messages to the log instead of delivering them. Used when
// SMTP is disabled.
type LogSender struct {
	logger *logrus.Logger
}

// NewLogSender creates a sender that only logs
func NewLogSender(logger *logrus.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send logs the message envelope
func (s *LogSender) Send(ctx context.Context, msg Message) error {
	s.logger.WithFields(logrus.Fields{
		"to":      msg.To,
		"subject": msg.Subject,
	}).Info("Email delivery disabled, message not sent")
	return nil
}
