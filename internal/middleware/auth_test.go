package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"authgate/internal/config"
	"authgate/internal/security"
)

const testAccessSecret = "middleware-access-secret"

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.AppConfig{
		Security: config.SecurityConfig{AccessSecret: testAccessSecret},
	}

	router := gin.New()
	router.GET("/protected", Auth(cfg), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userId":    c.GetString(ContextUserID),
			"sessionId": c.GetString(ContextSessionID),
		})
	})
	return router
}

func signTestToken(t *testing.T, userID, sessionID string, ttl time.Duration) string {
	t.Helper()
	token, err := security.SignAccessToken(testAccessSecret, userID, sessionID, ttl)
	require.NoError(t, err)
	return token
}

func TestAuthBearerToken(t *testing.T) {
	router := testRouter(t)
	token := signTestToken(t, "user-1", "session-1", time.Minute)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "user-1", body["userId"])
	assert.Equal(t, "session-1", body["sessionId"])
}

func TestAuthCookiePreferredOverHeader(t *testing.T) {
	router := testRouter(t)
	cookieToken := signTestToken(t, "cookie-user", "cookie-session", time.Minute)
	headerToken := signTestToken(t, "header-user", "header-session", time.Minute)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: cookieToken})
	req.Header.Set("Authorization", "Bearer "+headerToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "cookie-user", body["userId"])
}

func TestAuthMissingToken(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing_token")
}

func TestAuthExpiredVsInvalid(t *testing.T) {
	router := testRouter(t)

	expired := signTestToken(t, "user-1", "session-1", 0)

	tests := []struct {
		name     string
		token    string
		wantCode string
	}{
		{name: "expired", token: expired, wantCode: "token_expired"},
		{name: "garbage", token: "not.a.token", wantCode: "invalid_token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set("Authorization", "Bearer "+tt.token)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantCode)
		})
	}
}
