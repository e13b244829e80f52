package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"authgate/internal/config"
	"authgate/internal/ids"
	"authgate/internal/mailer"
	"authgate/internal/models"
	"authgate/internal/repository"
	"authgate/internal/security"
)

var (
	ErrEmailTaken           = errors.New("user already exists with this email")
	ErrInvalidCredentials   = errors.New("invalid email or password provided")
	ErrCodeInvalidOrExpired = errors.New("invalid or expired verification code")
	ErrUnverifiable         = errors.New("unable to verify email address")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrSessionNotFound      = errors.New("session not found")
)

type UserStore interface {
	Create(ctx context.Context, user models.User) error
	FindByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	SetEmailVerified(ctx context.Context, id string) (models.User, error)
}

type SessionStore interface {
	Create(ctx context.Context, session models.Session) error
	GetByID(ctx context.Context, id string) (models.Session, error)
	Extend(ctx context.Context, id string, expiresAt time.Time) error
	DeleteByID(ctx context.Context, id string) error
	ListByUser(ctx context.Context, userID string) ([]models.Session, error)
}

type CodeStore interface {
	Create(ctx context.Context, code models.VerificationCode) error
	Redeem(ctx context.Context, code string, typ models.VerificationType, now time.Time) (string, error)
}

// AuthService owns the account and session lifecycle. Stores and the mailer
// are injected as interfaces; the clock is injected for tests.
type AuthService struct {
	users    UserStore
	sessions SessionStore
	codes    CodeStore
	mail     mailer.Sender
	cfg      *config.AppConfig
	log      zerolog.Logger
	now      func() time.Time
}

func NewAuthService(
	users UserStore,
	sessions SessionStore,
	codes CodeStore,
	mail mailer.Sender,
	cfg *config.AppConfig,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		codes:    codes,
		mail:     mail,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
}

// WithClock overrides the time source. Test hook.
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	s.now = now
	return s
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (models.User, error) {
	if _, err := s.users.FindByEmail(ctx, input.Email); err == nil {
		return models.User{}, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return models.User{}, err
	}

	passwordHash, err := security.HashPassword(input.Password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		ID:           ids.New(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: passwordHash,
	}

	// The unique index on email is the real guard: a concurrent register
	// slipping past the check above still surfaces as ErrEmailTaken here.
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return models.User{}, ErrEmailTaken
		}
		return models.User{}, err
	}

	code, err := s.issueVerification(ctx, user.ID, models.VerificationEmail)
	if err != nil {
		return models.User{}, err
	}

	s.sendVerificationEmail(ctx, user.Email, code.Code)

	return user, nil
}

func (s *AuthService) issueVerification(ctx context.Context, userID string, typ models.VerificationType) (models.VerificationCode, error) {
	codeStr, err := security.GenerateCode(32)
	if err != nil {
		return models.VerificationCode{}, err
	}

	code := models.VerificationCode{
		ID:        ids.New(),
		UserID:    userID,
		Code:      codeStr,
		Type:      typ,
		ExpiresAt: s.now().Add(s.cfg.Security.VerificationTTL),
	}

	if err := s.codes.Create(ctx, code); err != nil {
		return models.VerificationCode{}, err
	}
	return code, nil
}

// sendVerificationEmail is fire-and-forget: a delivery failure is logged but
// never rolls back the registration that triggered it.
func (s *AuthService) sendVerificationEmail(ctx context.Context, email string, code string) {
	url := s.cfg.ClientURL + "/confirm-account?code=" + code
	subject, html := mailer.VerifyEmail(url)

	if err := s.mail.Send(ctx, mailer.Message{
		To:      email,
		Subject: subject,
		HTML:    html,
		Tag:     "email-verification",
	}); err != nil {
		s.log.Error().Err(err).Str("email", email).Msg("verification email send failed")
	}
}

func (s *AuthService) VerifyEmail(ctx context.Context, code string) (models.User, error) {
	userID, err := s.codes.Redeem(ctx, code, models.VerificationEmail, s.now())
	if err != nil {
		if errors.Is(err, repository.ErrCodeNotFound) {
			return models.User{}, ErrCodeInvalidOrExpired
		}
		return models.User{}, err
	}

	user, err := s.users.SetEmailVerified(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return models.User{}, ErrUnverifiable
		}
		return models.User{}, err
	}
	return user, nil
}

type LoginInput struct {
	Email     string
	Password  string
	UserAgent string
}

type AuthResult struct {
	User         models.User
	AccessToken  string
	RefreshToken string
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Same failure as a bad password so callers cannot probe for
			// registered addresses.
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, err
	}

	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil || !ok {
		return AuthResult{}, ErrInvalidCredentials
	}

	userAgent := input.UserAgent
	if userAgent == "" {
		userAgent = "unknown"
	}

	session := models.Session{
		ID:        ids.New(),
		UserID:    user.ID,
		UserAgent: userAgent,
		ExpiresAt: s.now().Add(s.cfg.Security.RefreshTTL),
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return AuthResult{}, err
	}

	accessToken, err := security.SignAccessToken(s.cfg.Security.AccessSecret, user.ID, session.ID, s.cfg.Security.AccessTTL)
	if err != nil {
		return AuthResult{}, err
	}

	refreshToken, err := security.SignRefreshToken(s.cfg.Security.RefreshSecret, session.ID, s.cfg.Security.RefreshTTL)
	if err != nil {
		return AuthResult{}, err
	}

	s.log.Info().Str("user_id", user.ID).Str("session_id", session.ID).Msg("login successful")

	return AuthResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

type RefreshResult struct {
	AccessToken string
	// NewRefreshToken is empty unless the session was close enough to expiry
	// to be renewed; the caller keeps using the old token otherwise.
	NewRefreshToken string
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (RefreshResult, error) {
	claims, err := security.ParseRefreshToken(refreshToken, s.cfg.Security.RefreshSecret)
	if err != nil {
		return RefreshResult{}, ErrUnauthorized
	}

	session, err := s.sessions.GetByID(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return RefreshResult{}, ErrUnauthorized
		}
		return RefreshResult{}, err
	}

	now := s.now()
	if session.Expired(now) {
		return RefreshResult{}, ErrUnauthorized
	}

	var newRefreshToken string
	if session.ExpiresAt.Sub(now) <= s.cfg.Security.RenewalThreshold {
		expiresAt := now.Add(s.cfg.Security.RefreshTTL)
		if err := s.sessions.Extend(ctx, session.ID, expiresAt); err != nil {
			return RefreshResult{}, err
		}

		newRefreshToken, err = security.SignRefreshToken(s.cfg.Security.RefreshSecret, session.ID, s.cfg.Security.RefreshTTL)
		if err != nil {
			return RefreshResult{}, err
		}
	}

	accessToken, err := security.SignAccessToken(s.cfg.Security.AccessSecret, session.UserID, session.ID, s.cfg.Security.AccessTTL)
	if err != nil {
		return RefreshResult{}, err
	}

	return RefreshResult{
		AccessToken:     accessToken,
		NewRefreshToken: newRefreshToken,
	}, nil
}

func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.DeleteByID(ctx, sessionID); err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return ErrSessionNotFound
		}
		return err
	}
	return nil
}
