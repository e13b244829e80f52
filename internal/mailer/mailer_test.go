package mailer

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"authgate/internal/config"
)

func TestVerifyEmailTemplate(t *testing.T) {
	subject, html := VerifyEmail("http://localhost:3000/confirm-account?code=abc123")

	assert.Equal(t, "Confirm your email address", subject)
	assert.Contains(t, html, "http://localhost:3000/confirm-account?code=abc123")
	assert.Contains(t, html, "45 minutes")
}

func TestNewSelectsProvider(t *testing.T) {
	log := zerolog.Nop()

	dev, err := New(config.MailerConfig{Provider: "dev"}, log)
	require.NoError(t, err)
	assert.IsType(t, &DevSender{}, dev)

	_, err = New(config.MailerConfig{Provider: "postmark"}, log)
	assert.Error(t, err) // missing tokens

	_, err = New(config.MailerConfig{Provider: "carrier-pigeon"}, log)
	assert.Error(t, err)
}

func TestDevSenderNeverFails(t *testing.T) {
	s := NewDevSender(zerolog.Nop())
	err := s.Send(context.Background(), Message{
		To:      "ada@example.com",
		Subject: "hello",
		HTML:    "<p>hi</p>",
	})
	assert.NoError(t, err)
}
