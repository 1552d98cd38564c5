// Package mailer sends transactional email over SMTP.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/gomail.v2"

	"github.com/castledepotsmail-cyber/castle-depots-sub000/config"
)

var ErrMissingFields = errors.New("missing required fields")

// Message is one outbound email. To may hold several comma-separated addresses.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
	Text    string `json:"text"`
	From    string `json:"from"`
}

// Validate requires a recipient, a subject, and at least one body.
func (m Message) Validate() error {
	if strings.TrimSpace(m.To) == "" || strings.TrimSpace(m.Subject) == "" || (m.HTML == "" && m.Text == "") {
		return ErrMissingFields
	}
	return nil
}

// Sender delivers a message and returns its Message-ID.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// Dialer is the part of gomail.Dialer the SMTP sender uses.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type SMTPSender struct {
	dialer      Dialer
	defaultFrom string
	domain      string
	logger      *slog.Logger
}

// NewSMTPSender builds a sender from the email settings. From falls back to
// DefaultFrom, then to the SMTP user.
func NewSMTPSender(cfg config.EmailConfig, logger *slog.Logger) *SMTPSender {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	// UseTLS means implicit TLS (port 465); otherwise STARTTLS is negotiated.
	d.SSL = cfg.UseTLS

	from := cfg.DefaultFrom
	if from == "" {
		from = cfg.User
	}
	return newSMTPSender(d, from, logger)
}

func newSMTPSender(d Dialer, defaultFrom string, logger *slog.Logger) *SMTPSender {
	domain := "castledepots.co.ke"
	if at := strings.LastIndex(defaultFrom, "@"); at >= 0 && at < len(defaultFrom)-1 {
		domain = strings.Trim(defaultFrom[at+1:], "> ")
	}
	return &SMTPSender{dialer: d, defaultFrom: defaultFrom, domain: domain, logger: logger}
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) (string, error) {
	if err := msg.Validate(); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	id := fmt.Sprintf("<%s@%s>", uuid.NewString(), s.domain)
	m := s.build(msg, id)
	if err := s.dialer.DialAndSend(m); err != nil {
		return "", fmt.Errorf("send email: %w", err)
	}
	s.logger.Info("email sent", "message_id", id, "subject", msg.Subject)
	return id, nil
}

func (s *SMTPSender) build(msg Message, id string) *gomail.Message {
	from := msg.From
	if from == "" {
		from = s.defaultFrom
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", splitAddresses(msg.To)...)
	m.SetHeader("Subject", msg.Subject)
	m.SetHeader("Message-ID", id)

	switch {
	case msg.Text != "" && msg.HTML != "":
		m.SetBody("text/plain", msg.Text)
		m.AddAlternative("text/html", msg.HTML)
	case msg.HTML != "":
		m.SetBody("text/html", msg.HTML)
	default:
		m.SetBody("text/plain", msg.Text)
	}
	return m
}

func splitAddresses(to string) []string {
	var out []string
	for _, addr := range strings.Split(to, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}
