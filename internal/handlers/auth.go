package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"authgate/internal/middleware"
	"authgate/internal/models"
	"authgate/internal/service"
)

type userResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	IsEmailVerified bool      `json:"isEmailVerified"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// toUserResponse is the only way a user leaves this API. The password hash
// has no field here, so it cannot serialize on any path.
func toUserResponse(user models.User) userResponse {
	return userResponse{
		ID:              user.ID,
		Name:            user.Name,
		Email:           user.Email,
		IsEmailVerified: user.IsEmailVerified,
		CreatedAt:       user.CreatedAt,
		UpdatedAt:       user.UpdatedAt,
	}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

func (h HandlerSet) RegisterUser(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_failed", "message": err.Error()})
		return
	}

	user, err := h.authService.Register(c.Request.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user":    toUserResponse(user),
	})
}

type verifyEmailRequest struct {
	Code string `json:"code" binding:"required"`
}

func (h HandlerSet) VerifyEmail(c *gin.Context) {
	var req verifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_failed", "message": err.Error()})
		return
	}

	user, err := h.authService.VerifyEmail(c.Request.Context(), req.Code)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Email verified successfully",
		"user":    toUserResponse(user),
	})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_failed", "message": err.Error()})
		return
	}

	result, err := h.authService.Login(c.Request.Context(), service.LoginInput{
		Email:     req.Email,
		Password:  req.Password,
		UserAgent: c.GetHeader("User-Agent"),
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	h.setAuthCookies(c, result.AccessToken, result.RefreshToken)

	c.JSON(http.StatusOK, gin.H{
		"message":      "User login successfully",
		"user":         toUserResponse(result.User),
		"accessToken":  result.AccessToken,
		"refreshToken": result.RefreshToken,
	})
}

func (h HandlerSet) Refresh(c *gin.Context) {
	refreshToken := middleware.RefreshTokenFromRequest(c)
	if refreshToken == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing_token", "message": "missing refresh token"})
		return
	}

	result, err := h.authService.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.setAccessCookie(c, result.AccessToken)
	if result.NewRefreshToken != "" {
		h.setRefreshCookie(c, result.NewRefreshToken)
	}

	resp := gin.H{
		"message":     "Refresh access token successfully",
		"accessToken": result.AccessToken,
	}
	if result.NewRefreshToken != "" {
		resp["refreshToken"] = result.NewRefreshToken
	}

	c.JSON(http.StatusOK, resp)
}

func (h HandlerSet) Logout(c *gin.Context) {
	sessionID := c.GetString(middleware.ContextSessionID)

	if err := h.authService.Logout(c.Request.Context(), sessionID); err != nil {
		h.fail(c, err)
		return
	}

	h.clearAuthCookies(c)

	c.JSON(http.StatusOK, gin.H{"message": "User logout successfully"})
}

func (h HandlerSet) Me(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)

	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": "unauthorized"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": toUserResponse(user)})
}

type sessionResponse struct {
	ID        string    `json:"id"`
	UserAgent string    `json:"userAgent"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
	Current   bool      `json:"current"`
}

func (h HandlerSet) ListSessions(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	currentSessionID := c.GetString(middleware.ContextSessionID)

	sessions, err := h.sessions.ListByUser(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err)
		return
	}

	resp := make([]sessionResponse, 0, len(sessions))
	for _, session := range sessions {
		resp = append(resp, sessionResponse{
			ID:        session.ID,
			UserAgent: session.UserAgent,
			CreatedAt: session.CreatedAt,
			ExpiresAt: session.ExpiresAt,
			Current:   session.ID == currentSessionID,
		})
	}

	c.JSON(http.StatusOK, gin.H{"sessions": resp})
}

func (h HandlerSet) RevokeSession(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	sessionID := c.Param("sessionId")

	session, err := h.sessions.GetByID(c.Request.Context(), sessionID)
	if err != nil {
		h.fail(c, service.ErrSessionNotFound)
		return
	}
	if session.UserID != userID {
		h.fail(c, service.ErrSessionNotFound)
		return
	}

	if err := h.authService.Logout(c.Request.Context(), sessionID); err != nil {
		h.fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h HandlerSet) setAuthCookies(c *gin.Context, accessToken string, refreshToken string) {
	h.setAccessCookie(c, accessToken)
	h.setRefreshCookie(c, refreshToken)
}

func (h HandlerSet) setAccessCookie(c *gin.Context, token string) {
	secure := h.cfg.Environment == "production"
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, token, int(h.cfg.Security.AccessTTL.Seconds()), "/", "", secure, true)
}

func (h HandlerSet) setRefreshCookie(c *gin.Context, token string) {
	secure := h.cfg.Environment == "production"
	c.SetSameSite(http.SameSiteLaxMode)
	// Scoped to the refresh route so the long-lived token is not replayed
	// on every request.
	c.SetCookie(middleware.RefreshTokenCookie, token, int(h.cfg.Security.RefreshTTL.Seconds()), "/api/v1/auth/refresh", "", secure, true)
}

func (h HandlerSet) clearAuthCookies(c *gin.Context) {
	secure := h.cfg.Environment == "production"
	c.SetCookie(middleware.AccessTokenCookie, "", -1, "/", "", secure, true)
	c.SetCookie(middleware.RefreshTokenCookie, "", -1, "/api/v1/auth/refresh", "", secure, true)
}
