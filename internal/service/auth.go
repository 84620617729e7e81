package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/forgo/tourbook/api/internal/model"
	"github.com/forgo/tourbook/api/pkg/jwt"
)

// UserRepository defines the interface for user storage
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string, scope model.UserScope) (*model.User, error)
	GetByEmail(ctx context.Context, email string, scope model.UserScope) (*model.User, error)
	SetActive(ctx context.Context, id string, active bool) error
}

// TokenSigner signs and validates access tokens
type TokenSigner interface {
	Sign(claims jwt.Claims) (string, error)
	Validate(token string) (*jwt.Claims, error)
}

// AuthService handles authentication operations
type AuthService struct {
	userRepo    UserRepository
	credentials *CredentialService
	tokens      TokenSigner
	mailer      Mailer
	logger      *slog.Logger
}

// AuthServiceConfig holds configuration for the auth service
type AuthServiceConfig struct {
	UserRepo    UserRepository
	Credentials *CredentialService
	Tokens      TokenSigner
	Mailer      Mailer
	Logger      *slog.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(cfg AuthServiceConfig) *AuthService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	mailer := cfg.Mailer
	if mailer == nil {
		mailer = NewLogMailer(LogMailerConfig{Logger: logger})
	}
	return &AuthService{
		userRepo:    cfg.UserRepo,
		credentials: cfg.Credentials,
		tokens:      cfg.Tokens,
		mailer:      mailer,
		logger:      logger,
	}
}

// Signup creates a new account and signs the user in
func (s *AuthService) Signup(ctx context.Context, req *model.SignupRequest) (*model.AuthResponse, error) {
	if err := model.Validate(req); err != nil {
		return nil, err
	}

	user := &model.User{
		Name:   strings.TrimSpace(req.Name),
		Email:  normalizeEmail(req.Email),
		Role:   model.UserRoleUser,
		Active: true,
	}

	if err := s.credentials.SetPassword(user, req.Password, req.PasswordConfirm); err != nil {
		return nil, err
	}

	// A duplicate email surfaces as *database.DuplicateError
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.signIn(user)
}

// Login authenticates a user with email/password
func (s *AuthService) Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error) {
	if err := model.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(req.Email), model.ActiveUsers)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	ok, err := s.credentials.VerifyPassword(user, req.Password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	return s.signIn(user)
}

// Authenticate resolves a bearer token to its active user. It rejects
// tokens issued before the user's last password change.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*model.User, *jwt.Claims, error) {
	if token == "" {
		return nil, nil, ErrNotLoggedIn
	}

	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil, nil, err
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID, model.ActiveUsers)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, ErrUserNotFound
	}

	if s.credentials.ChangedPasswordAfter(user, claims.IssuedAtUnix()) {
		return nil, nil, ErrPasswordChanged
	}

	return user, claims, nil
}

// ForgotPassword issues a reset token for the active user with email and
// mails a link built by resetURL. If delivery fails the token is withdrawn.
func (s *AuthService) ForgotPassword(ctx context.Context, req *model.ForgotPasswordRequest, resetURL func(token string) string) error {
	if err := model.Validate(req); err != nil {
		return err
	}

	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(req.Email), model.ActiveUsers)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNoUserWithEmail
	}

	token, err := s.credentials.IssuePasswordResetToken(ctx, user)
	if err != nil {
		return err
	}

	if err := s.mailer.SendPasswordReset(ctx, user, resetURL(token)); err != nil {
		s.logger.Error("password reset email failed",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
		if clearErr := s.credentials.ClearResetToken(ctx, user); clearErr != nil {
			err = errors.Join(err, clearErr)
		}
		return fmt.Errorf("%w: %w", ErrResetEmailFailed, err)
	}

	return nil
}

// ResetPassword sets a new password using a reset token and signs the user in
func (s *AuthService) ResetPassword(ctx context.Context, token string, req *model.ResetPasswordRequest) (*model.AuthResponse, error) {
	if err := model.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.credentials.ConsumeResetToken(ctx, token, req.Password, req.PasswordConfirm)
	if err != nil {
		return nil, err
	}

	return s.signIn(user)
}

// UpdatePassword changes the password of an authenticated user and returns a
// fresh token, since tokens issued before the change stop working.
func (s *AuthService) UpdatePassword(ctx context.Context, user *model.User, req *model.UpdatePasswordRequest) (*model.AuthResponse, error) {
	if err := model.Validate(req); err != nil {
		return nil, err
	}

	if err := s.credentials.ChangePassword(ctx, user, req.PasswordCurrent, req.Password, req.PasswordConfirm); err != nil {
		return nil, err
	}

	return s.signIn(user)
}

// Deactivate soft-deletes the account. Deactivated users are hidden from
// every active-scoped lookup, so their tokens stop working too.
func (s *AuthService) Deactivate(ctx context.Context, user *model.User) error {
	if err := s.userRepo.SetActive(ctx, user.ID, false); err != nil {
		return err
	}
	user.Active = false
	return nil
}

func (s *AuthService) signIn(user *model.User) (*model.AuthResponse, error) {
	token, err := s.tokens.Sign(jwt.Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   string(user.Role),
	})
	if err != nil {
		return nil, err
	}
	return &model.AuthResponse{Token: token, User: user}, nil
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}
