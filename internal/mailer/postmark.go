package mailer

import (
	"context"
	"fmt"

	"github.com/mrz1836/postmark"

	"authgate/internal/config"
)

type PostmarkSender struct {
	client *postmark.Client
	sender string
}

func NewPostmarkSender(cfg config.MailerConfig) (*PostmarkSender, error) {
	if cfg.ServerToken == "" {
		return nil, fmt.Errorf("postmark mailer: server token required")
	}
	if cfg.Sender == "" {
		return nil, fmt.Errorf("postmark mailer: sender address required")
	}

	return &PostmarkSender{
		client: postmark.NewClient(cfg.ServerToken, cfg.AccountToken),
		sender: cfg.Sender,
	}, nil
}

func (s *PostmarkSender) Send(ctx context.Context, msg Message) error {
	resp, err := s.client.SendEmail(ctx, postmark.Email{
		From:     s.sender,
		To:       msg.To,
		Subject:  msg.Subject,
		HTMLBody: msg.HTML,
		Tag:      msg.Tag,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}
	if resp.ErrorCode != 0 {
		return fmt.Errorf("%w: postmark error %d: %s", ErrSendFailed, resp.ErrorCode, resp.Message)
	}
	return nil
}
