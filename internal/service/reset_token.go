package service

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"time"

	"github.com/samber/oops"
)

const (
	// DefaultResetTokenTTL is how long a password reset token stays valid.
	DefaultResetTokenTTL = 10 * time.Minute

	resetTokenBytes = 32
)

// ResetTokenIssuer creates single-use password reset tokens. Only the SHA-256
// digest of a token is ever stored.
type ResetTokenIssuer struct {
	ttl time.Duration
}

// NewResetTokenIssuer creates an issuer. A ttl of 0 uses DefaultResetTokenTTL.
func NewResetTokenIssuer(ttl time.Duration) *ResetTokenIssuer {
	if ttl == 0 {
		ttl = DefaultResetTokenTTL
	}
	return &ResetTokenIssuer{ttl: ttl}
}

// Generate returns a new hex token, its digest and its expiry relative to now.
func (i *ResetTokenIssuer) Generate(now time.Time) (token, digest string, expires time.Time, err error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", time.Time{}, oops.Code("RESET_TOKEN_FAILED").Wrap(err)
	}

	token = hex.EncodeToString(buf)
	return token, DigestResetToken(token), now.Add(i.ttl), nil
}

// TTL returns the validity window of issued tokens.
func (i *ResetTokenIssuer) TTL() time.Duration {
	return i.ttl
}

// DigestResetToken returns the lowercase hex SHA-256 of token.
func DigestResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// VerifyResetToken checks a plaintext token against a stored digest.
// Uses constant-time comparison.
func VerifyResetToken(token, digest string) bool {
	return subtle.ConstantTimeCompare([]byte(DigestResetToken(token)), []byte(digest)) == 1
}
