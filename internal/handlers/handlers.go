package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"authgate/internal/config"
	"authgate/internal/mailer"
	"authgate/internal/middleware"
	"authgate/internal/repository"
	"authgate/internal/service"
)

type HandlerSet struct {
	log         zerolog.Logger
	cfg         *config.AppConfig
	authService *service.AuthService
	db          *pgxpool.Pool
	cache       *redis.Client
	users       *repository.UserRepository
	sessions    *repository.SessionRepository
}

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, cache *redis.Client, mail mailer.Sender, cfg *config.AppConfig) HandlerSet {
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	codeRepo := repository.NewVerificationCodeRepository(db)
	auth := service.NewAuthService(userRepo, sessionRepo, codeRepo, mail, cfg, log)

	return HandlerSet{
		log:         log,
		cfg:         cfg,
		authService: auth,
		db:          db,
		cache:       cache,
		users:       userRepo,
		sessions:    sessionRepo,
	}
}

func (h HandlerSet) Mount(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	v1 := router.Group("/v1")
	{
		auth := v1.Group("/auth")
		auth.POST("/register", h.RegisterUser)
		auth.POST("/verify/email", h.VerifyEmail)
		auth.POST("/login", h.Login)
		auth.GET("/refresh", h.Refresh)

		protected := v1.Group("/auth")
		protected.Use(middleware.Auth(h.cfg))
		protected.POST("/logout", h.Logout)
		protected.GET("/me", h.Me)
		protected.GET("/sessions", h.ListSessions)
		protected.DELETE("/sessions/:sessionId", h.RevokeSession)
	}
}

// fail maps service errors to transport responses. Unknown errors collapse
// to a generic 500 so store internals never reach the client.
func (h HandlerSet) fail(c *gin.Context, err error) {
	type mapping struct {
		err    error
		status int
		code   string
	}

	mappings := []mapping{
		{service.ErrEmailTaken, http.StatusConflict, "email_taken"},
		{service.ErrCodeInvalidOrExpired, http.StatusBadRequest, "code_invalid_or_expired"},
		{service.ErrUnverifiable, http.StatusBadRequest, "unverifiable"},
		{service.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
		{service.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{service.ErrSessionNotFound, http.StatusNotFound, "session_not_found"},
	}

	for _, m := range mappings {
		if errors.Is(err, m.err) {
			c.JSON(m.status, gin.H{"error": m.code, "message": m.err.Error()})
			return
		}
	}

	h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "internal server error"})
}
