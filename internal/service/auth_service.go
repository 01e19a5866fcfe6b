package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"fintrack/internal/auth"
	"fintrack/internal/models"
	"fintrack/internal/storage"
)

var (
	ErrInvalidEmail     = errors.New("invalid email address")
	ErrInvalidNickname  = errors.New("nickname must be 2-32 characters")
	ErrNicknameTaken    = errors.New("nickname already taken")
	ErrInvalidResetLink = errors.New("invalid reset link")
	ErrResetLinkExpired = errors.New("reset link expired")
)

// TokenPair is an access/refresh token set issued on login.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// ResetMailer sends password-reset links. Implementations may be disabled
// (no SMTP configured), in which case sends fail.
type ResetMailer interface {
	Enabled() bool
	SendPasswordReset(ctx context.Context, to, link string) error
}

// AuthOptions carries the token lifetimes and reset-link base URL.
type AuthOptions struct {
	AccessTTL       time.Duration
	RefreshTTL      time.Duration
	GuestAccessTTL  time.Duration
	GuestRefreshTTL time.Duration
	ResetTTL        time.Duration
	FrontendURL     string
}

// AuthService handles registration, login (registered and guest), token
// refresh and the password-reset flow.
type AuthService struct {
	authenticator auth.Authenticator
	store         storage.Store
	accessTokens  *auth.JWTManager
	refreshTokens *auth.JWTManager
	mailer        ResetMailer
	opts          AuthOptions
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, store storage.Store, accessTokens, refreshTokens *auth.JWTManager, mailer ResetMailer, opts AuthOptions, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		store:         store,
		accessTokens:  accessTokens,
		refreshTokens: refreshTokens,
		mailer:        mailer,
		opts:          opts,
		logger:        logger,
	}
}

// Register creates a new user account.
func (s *AuthService) Register(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return ErrInvalidEmail
	}

	user, err := s.authenticator.Register(ctx, email, password)
	if err != nil {
		s.logger.Warn("Registration failed", "email", email, "error", err)
		return err
	}

	s.logger.Info("User registered", "user_id", user.ID, "email", email)
	return nil
}

// Login authenticates a registered user and issues a token pair.
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	user, err := s.authenticator.Authenticate(ctx, strings.TrimSpace(email), password)
	if err != nil {
		s.logger.Warn("Login failed", "email", email)
		return nil, auth.ErrInvalidCredentials
	}

	pair, err := s.issueTokens(user, s.opts.AccessTTL, s.opts.RefreshTTL)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User logged in", "user_id", user.ID)
	return pair, nil
}

// GuestLogin creates a short-lived guest account. Nicknames are unique
// case-insensitively among guests.
func (s *AuthService) GuestLogin(ctx context.Context, nickname string) (*TokenPair, *models.User, error) {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		nickname = "Guest"
	}
	if len(nickname) < 2 || len(nickname) > 32 {
		return nil, nil, ErrInvalidNickname
	}

	existing, err := s.store.GetGuestByNickname(ctx, nickname)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check nickname: %w", err)
	}
	if existing != nil {
		return nil, nil, ErrNicknameTaken
	}

	user := models.NewGuest(nickname, s.opts.GuestRefreshTTL)
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, nil, fmt.Errorf("failed to create guest: %w", err)
	}

	pair, err := s.issueTokens(user, s.opts.GuestAccessTTL, s.opts.GuestRefreshTTL)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("Guest logged in", "user_id", user.ID, "nickname", nickname)
	return pair, user, nil
}

// Refresh validates a refresh token and issues a fresh access token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.refreshTokens.Validate(refreshToken)
	if err != nil {
		return "", auth.ErrInvalidToken
	}

	user := &models.User{ID: claims.UserID, Email: claims.Email, IsGuest: claims.Guest}
	ttl := s.opts.AccessTTL
	if claims.Guest {
		ttl = s.opts.GuestAccessTTL
	}

	access, err := s.accessTokens.GenerateWithTTL(user, ttl)
	if err != nil {
		return "", fmt.Errorf("failed to generate access token: %w", err)
	}
	return access, nil
}

// ForgotPassword emails a reset link when the address belongs to a
// registered user. The outcome never reveals whether the email exists.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return ErrInvalidEmail
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		// Pretend success so callers cannot probe for accounts.
		return nil
	}

	token, err := s.accessTokens.GenerateWithTTL(user, s.opts.ResetTTL)
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	link := strings.TrimRight(s.opts.FrontendURL, "/") + "/reset-password?token=" + token
	if err := s.mailer.SendPasswordReset(ctx, email, link); err != nil {
		s.logger.Error("Reset email failed", "user_id", user.ID, "error", err)
		return fmt.Errorf("failed to send reset email: %w", err)
	}

	s.logger.Info("Reset email sent", "user_id", user.ID)
	return nil
}

// ResetPassword validates a reset token and stores a new password hash.
func (s *AuthService) ResetPassword(ctx context.Context, token, password string) error {
	if err := s.authenticator.ValidateCredential(password); err != nil {
		return err
	}

	claims, err := s.accessTokens.Validate(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrResetLinkExpired
		}
		return ErrInvalidResetLink
	}

	user, err := s.store.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return ErrInvalidResetLink
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	if err := s.store.UpdateUserPassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.logger.Info("Password reset", "user_id", user.ID)
	return nil
}

func (s *AuthService) issueTokens(user *models.User, accessTTL, refreshTTL time.Duration) (*TokenPair, error) {
	access, err := s.accessTokens.GenerateWithTTL(user, accessTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refresh, err := s.refreshTokens.GenerateWithTTL(user, refreshTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
