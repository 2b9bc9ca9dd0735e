// Package mailer delivers rendered email reports.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"
)

// ErrNoRecipients is returned when a message has nobody to go to.
var ErrNoRecipients = errors.New("mailer: at least one recipient is required")

// Message is one outgoing email.
type Message struct {
	To      []string
	From    string // Overrides the sender default when set
	Subject string
	HTML    string
	ReplyTo string
}

// Result describes an accepted send.
type Result struct {
	MessageID string
	SentAt    time.Time
}

// Sender delivers messages through an email provider.
type Sender interface {
	Send(ctx context.Context, msg Message) (Result, error)
}

// ResendSender sends through the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
	logger *zap.Logger
}

// NewResendSender creates a sender with the given API key and default from
// address.
func NewResendSender(apiKey, from string, logger *zap.Logger) *ResendSender {
	return &ResendSender{
		client: resend.NewClient(apiKey),
		from:   from,
		logger: logger.With(zap.String("component", "resend-mailer")),
	}
}

func (s *ResendSender) Send(ctx context.Context, msg Message) (Result, error) {
	if len(msg.To) == 0 {
		return Result{}, ErrNoRecipients
	}
	from := msg.From
	if from == "" {
		from = s.from
	}

	params := &resend.SendEmailRequest{
		From:    from,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
	}
	if msg.ReplyTo != "" {
		params.ReplyTo = msg.ReplyTo
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		s.logger.Error("Email send failed", zap.Strings("to", msg.To), zap.String("subject", msg.Subject), zap.Error(err))
		return Result{}, fmt.Errorf("resend send failed: %w", err)
	}

	s.logger.Info("Email sent", zap.String("message_id", sent.Id), zap.Strings("to", msg.To))
	return Result{MessageID: sent.Id, SentAt: time.Now()}, nil
}

// NoopSender logs messages instead of delivering them. Used when no API key
// is configured.
type NoopSender struct {
	logger *zap.Logger
}

func NewNoopSender(logger *zap.Logger) *NoopSender {
	return &NoopSender{logger: logger.With(zap.String("component", "noop-mailer"))}
}

func (s *NoopSender) Send(_ context.Context, msg Message) (Result, error) {
	if len(msg.To) == 0 {
		return Result{}, ErrNoRecipients
	}
	s.logger.Info("Email not delivered (noop sender)", zap.Strings("to", msg.To), zap.String("subject", msg.Subject))
	return Result{
		MessageID: fmt.Sprintf("noop-%d", time.Now().UnixNano()),
		SentAt:    time.Now(),
	}, nil
}
