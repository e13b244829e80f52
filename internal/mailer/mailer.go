package mailer

import (
	"context"
	"errors"
	"fmt"

	"authgate/internal/config"

	"github.com/rs/zerolog"
)

var ErrSendFailed = errors.New("send email failed")

// Message is a fully rendered outbound email.
type Message struct {
	To      string
	Subject string
	HTML    string
	Tag     string
}

// Sender delivers a message. Failures are reported to the caller, which
// decides whether the triggering operation should be rolled back; the auth
// flow deliberately does not.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// New selects the sender implementation from config.
func New(cfg config.MailerConfig, log zerolog.Logger) (Sender, error) {
	switch cfg.Provider {
	case "postmark":
		return NewPostmarkSender(cfg)
	case "dev", "":
		return NewDevSender(log), nil
	default:
		return nil, fmt.Errorf("unknown mailer provider %q", cfg.Provider)
	}
}

// DevSender logs outbound mail instead of delivering it. Useful for local
// development and tests.
type DevSender struct {
	log zerolog.Logger
}

func NewDevSender(log zerolog.Logger) *DevSender {
	return &DevSender{log: log}
}

func (s *DevSender) Send(_ context.Context, msg Message) error {
	s.log.Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Str("tag", msg.Tag).
		Str("html", msg.HTML).
		Msg("dev mailer: email not sent")
	return nil
}
