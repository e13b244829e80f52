package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	accessSecret  = "test-access-secret"
	refreshSecret = "test-refresh-secret"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := SignAccessToken(accessSecret, "user-1", "session-1", 15*time.Minute)
	require.NoError(t, err)

	claims, err := ParseAccessToken(token, accessSecret)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "session-1", claims.SessionID)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	token, err := SignRefreshToken(refreshSecret, "session-1", 7*24*time.Hour)
	require.NoError(t, err)

	claims, err := ParseRefreshToken(token, refreshSecret)
	require.NoError(t, err)
	assert.Equal(t, "session-1", claims.SessionID)
}

func TestParseAccessTokenExpired(t *testing.T) {
	token, err := SignAccessToken(accessSecret, "user-1", "session-1", 0)
	require.NoError(t, err)

	_, err = ParseAccessToken(token, accessSecret)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestParseAccessTokenFailures(t *testing.T) {
	valid, err := SignAccessToken(accessSecret, "user-1", "session-1", time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		secret string
	}{
		{name: "wrong secret", token: valid, secret: "other-secret"},
		{name: "malformed", token: "not.a.jwt", secret: accessSecret},
		{name: "empty", token: "", secret: accessSecret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAccessToken(tt.token, tt.secret)
			assert.ErrorIs(t, err, ErrTokenInvalid)
		})
	}
}

func TestTokenKindsDoNotCross(t *testing.T) {
	// A refresh token carries no uid claim, so it must not satisfy the
	// access parser even when signed with the access secret.
	refreshShaped, err := SignRefreshToken(accessSecret, "session-1", time.Minute)
	require.NoError(t, err)

	_, err = ParseAccessToken(refreshShaped, accessSecret)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	// Distinct secrets keep the kinds apart in the normal configuration.
	access, err := SignAccessToken(accessSecret, "user-1", "session-1", time.Minute)
	require.NoError(t, err)

	_, err = ParseRefreshToken(access, refreshSecret)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestGenerateCode(t *testing.T) {
	first, err := GenerateCode(32)
	require.NoError(t, err)
	second, err := GenerateCode(32)
	require.NoError(t, err)

	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
	assert.NotContains(t, first, "+")
	assert.NotContains(t, first, "/")
}
