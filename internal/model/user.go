package model

import "time"

// UserRole represents the role of a user in the system
type UserRole string

const (
	UserRoleUser      UserRole = "user"       // Default role
	UserRoleGuide     UserRole = "guide"      // Leads tours
	UserRoleLeadGuide UserRole = "lead-guide" // Manages guides
	UserRoleAdmin     UserRole = "admin"      // Full access
)

// UserScope selects which users a finder may return. Every user finder takes
// one so that deactivated accounts are excluded unless a caller opts in.
type UserScope int

const (
	// ActiveUsers excludes deactivated accounts. It is the zero value.
	ActiveUsers UserScope = iota
	// AllUsers includes deactivated accounts.
	AllUsers
)

// Credential is the password state of a user.
type Credential struct {
	PasswordHash         string     `json:"-"` // Never expose password hash
	PasswordChangedAt    *time.Time `json:"password_changed_at,omitempty"`
	PasswordResetToken   *string    `json:"-"` // SHA-256 hex digest, never the plaintext
	PasswordResetExpires *time.Time `json:"-"`
}

// User represents a user account
type User struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Photo string   `json:"photo,omitempty"`
	Role  UserRole `json:"role"`
	Credential
	Active    bool      `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// IsAdmin returns true if the user has admin role
func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// ChangedPasswordAfter reports whether the password was changed after a token
// issued at issuedAt (Unix seconds). Users that never changed their password
// always return false.
func (u *User) ChangedPasswordAfter(issuedAt int64) bool {
	if u.PasswordChangedAt == nil {
		return false
	}
	return issuedAt < u.PasswordChangedAt.Unix()
}

// SignupRequest represents a signup request
type SignupRequest struct {
	Name            string `json:"name" validate:"required,max=100"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ForgotPasswordRequest asks for a password reset token by email
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest sets a new password using a reset token
type ResetPasswordRequest struct {
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required"`
}

// UpdatePasswordRequest changes the password of the authenticated user
type UpdatePasswordRequest struct {
	PasswordCurrent string `json:"password_current" validate:"required"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required"`
}

// TokenClaims represents extracted JWT claims
type TokenClaims struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	IssuedAt int64  `json:"iat"`
}

// AuthResponse is returned by signup, login and password changes
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
