package service

import (
	"context"
	"time"

	"github.com/forgo/tourbook/api/internal/model"
)

// CredentialStore persists user credentials
type CredentialStore interface {
	FindByResetToken(ctx context.Context, digest string, now time.Time, scope model.UserScope) (*model.User, error)
	SaveCredential(ctx context.Context, user *model.User) error
	// ConsumeResetCredential saves the credential of user only while the
	// stored reset token is still digest and unexpired at now. It reports
	// whether the write happened.
	ConsumeResetCredential(ctx context.Context, user *model.User, digest string, now time.Time) (bool, error)
}

// CredentialService owns the password lifecycle of a user: hashing, change
// tracking, and reset tokens.
type CredentialService struct {
	hasher PasswordHasher
	tokens *ResetTokenIssuer
	store  CredentialStore
	now    func() time.Time
}

// CredentialServiceConfig holds configuration for the credential service
type CredentialServiceConfig struct {
	Hasher PasswordHasher
	Tokens *ResetTokenIssuer
	Store  CredentialStore
	Now    func() time.Time // Default: time.Now
}

// NewCredentialService creates a new credential service
func NewCredentialService(cfg CredentialServiceConfig) *CredentialService {
	if cfg.Hasher == nil {
		cfg.Hasher = NewBcryptHasher(DefaultBcryptCost)
	}
	if cfg.Tokens == nil {
		cfg.Tokens = NewResetTokenIssuer(DefaultResetTokenTTL)
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &CredentialService{
		hasher: cfg.Hasher,
		tokens: cfg.Tokens,
		store:  cfg.Store,
		now:    cfg.Now,
	}
}

// SetPassword validates password against confirm and stores its digest on
// user. For an existing user the change time is set one second in the past so
// a token signed right after the change stays valid. user is untouched on error.
func (s *CredentialService) SetPassword(user *model.User, password, confirm string) error {
	if err := validatePassword(password, confirm); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}

	user.PasswordHash = hash
	if user.ID != "" {
		changed := s.now().Add(-time.Second)
		user.PasswordChangedAt = &changed
	}
	return nil
}

// VerifyPassword reports whether candidate matches the user's password.
func (s *CredentialService) VerifyPassword(user *model.User, candidate string) (bool, error) {
	if user.PasswordHash == "" {
		return false, nil
	}
	return s.hasher.Verify(candidate, user.PasswordHash)
}

// ChangedPasswordAfter reports whether the user changed their password after
// a token issued at issuedAt (Unix seconds).
func (s *CredentialService) ChangedPasswordAfter(user *model.User, issuedAt int64) bool {
	return user.ChangedPasswordAfter(issuedAt)
}

// IssuePasswordResetToken creates a reset token for user, persists its
// digest and expiry, and returns the plaintext. Any earlier token is replaced.
func (s *CredentialService) IssuePasswordResetToken(ctx context.Context, user *model.User) (string, error) {
	token, digest, expires, err := s.tokens.Generate(s.now())
	if err != nil {
		return "", err
	}

	user.PasswordResetToken = &digest
	user.PasswordResetExpires = &expires

	if err := s.store.SaveCredential(ctx, user); err != nil {
		return "", err
	}
	return token, nil
}

// ClearResetToken removes any pending reset token of user.
func (s *CredentialService) ClearResetToken(ctx context.Context, user *model.User) error {
	user.PasswordResetToken = nil
	user.PasswordResetExpires = nil
	return s.store.SaveCredential(ctx, user)
}

// ConsumeResetToken sets a new password for the active user holding an
// unexpired token. The write only succeeds while the token is still stored,
// so a token works once even under concurrent requests.
func (s *CredentialService) ConsumeResetToken(ctx context.Context, token, password, confirm string) (*model.User, error) {
	digest := DigestResetToken(token)
	now := s.now()

	user, err := s.store.FindByResetToken(ctx, digest, now, model.ActiveUsers)
	if err != nil {
		return nil, err
	}
	if user == nil || user.PasswordResetToken == nil || !VerifyResetToken(token, *user.PasswordResetToken) {
		return nil, ErrResetTokenInvalid
	}
	if user.PasswordResetExpires == nil || !user.PasswordResetExpires.After(now) {
		return nil, ErrResetTokenInvalid
	}

	if err := s.SetPassword(user, password, confirm); err != nil {
		return nil, err
	}
	user.PasswordResetToken = nil
	user.PasswordResetExpires = nil

	ok, err := s.store.ConsumeResetCredential(ctx, user, digest, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrResetTokenInvalid
	}
	return user, nil
}

// ChangePassword replaces the password of user after checking current.
func (s *CredentialService) ChangePassword(ctx context.Context, user *model.User, current, password, confirm string) error {
	ok, err := s.VerifyPassword(user, current)
	if err != nil {
		return err
	}
	if !ok {
		return ErrIncorrectPassword
	}

	if err := s.SetPassword(user, password, confirm); err != nil {
		return err
	}
	return s.store.SaveCredential(ctx, user)
}
