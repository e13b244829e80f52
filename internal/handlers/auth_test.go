package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"authgate/internal/models"
	"authgate/internal/service"
)

func TestUserResponseOmitsPasswordHash(t *testing.T) {
	user := models.User{
		ID:           "user-1",
		Name:         "Ada",
		Email:        "ada@example.com",
		PasswordHash: []byte("$argon2id$super-secret-hash"),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	raw, err := json.Marshal(toUserResponse(user))
	require.NoError(t, err)

	assert.NotContains(t, string(raw), "password")
	assert.NotContains(t, string(raw), "super-secret-hash")
	assert.Contains(t, string(raw), "ada@example.com")
}

func TestFailMapsServiceErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := HandlerSet{log: zerolog.Nop()}

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"conflict", service.ErrEmailTaken, http.StatusConflict, "email_taken"},
		{"bad code", service.ErrCodeInvalidOrExpired, http.StatusBadRequest, "code_invalid_or_expired"},
		{"unverifiable", service.ErrUnverifiable, http.StatusBadRequest, "unverifiable"},
		{"bad login", service.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
		{"unauthorized", service.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{"missing session", service.ErrSessionNotFound, http.StatusNotFound, "session_not_found"},
		{"internal", assert.AnError, http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

			h.fail(c, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantCode)
		})
	}
}

func TestFailNeverLeaksInternalError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := HandlerSet{log: zerolog.Nop()}

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

	h.fail(c, assert.AnError)

	assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
}
