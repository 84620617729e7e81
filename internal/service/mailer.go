package service

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/forgo/tourbook/api/internal/model"
)

const redactedToken = "REDACTED"

// Mailer delivers account emails
type Mailer interface {
	SendPasswordReset(ctx context.Context, user *model.User, resetURL string) error
}

// LogMailer writes emails to the log instead of sending them. The token
// in a reset link is redacted unless RevealLinks is set, which should
// only happen in development.
type LogMailer struct {
	logger      *slog.Logger
	revealLinks bool
}

// LogMailerConfig holds configuration for LogMailer
type LogMailerConfig struct {
	Logger      *slog.Logger
	RevealLinks bool
}

// NewLogMailer creates a LogMailer
func NewLogMailer(cfg LogMailerConfig) *LogMailer {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &LogMailer{logger: logger, revealLinks: cfg.RevealLinks}
}

// SendPasswordReset logs the reset link for user
func (m *LogMailer) SendPasswordReset(ctx context.Context, user *model.User, resetURL string) error {
	link := resetURL
	if !m.revealLinks {
		link = redactResetURL(resetURL)
	}
	m.logger.InfoContext(ctx, "password reset email",
		slog.String("to", user.Email),
		slog.String("reset_url", link),
	)
	return nil
}

// redactResetURL replaces the last path segment, where the token lives,
// and drops any query or fragment.
func redactResetURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return redactedToken
	}
	u.RawQuery = ""
	u.Fragment = ""
	u.RawPath = ""
	if i := strings.LastIndex(u.Path, "/"); i >= 0 && i < len(u.Path)-1 {
		u.Path = u.Path[:i+1] + redactedToken
	} else {
		u.Path = "/" + redactedToken
	}
	return u.String()
}
