package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/forgo/tourbook/api/internal/model"
	"github.com/forgo/tourbook/api/pkg/jwt"
)

// Authenticator resolves a bearer token to its active user
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.User, *jwt.Claims, error)
}

// ErrorResponder writes the response for a failed request
type ErrorResponder interface {
	Respond(w http.ResponseWriter, r *http.Request, err error)
}

// ClaimsKey is the context key for JWT claims
const ClaimsKey contextKey = "claims"

// UserKey is the context key for the authenticated user
const UserKey contextKey = "user"

// tokenCookie is read when no Authorization header is sent
const tokenCookie = "jwt"

// Protect returns a middleware that admits only requests carrying a valid
// token of an active user whose password has not changed since the token
// was issued. Every rejection goes through errs.
func Protect(auth Authenticator, errs ErrorResponder) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, claims, err := auth.Authenticate(r.Context(), bearerToken(r))
			if err != nil {
				errs.Respond(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, user.ID)
			ctx = context.WithValue(ctx, UserKey, user)
			ctx = context.WithValue(ctx, ClaimsKey, claims)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RestrictTo returns a middleware that admits only users with one of roles.
// It must run after Protect.
func RestrictTo(errs ErrorResponder, roles ...model.UserRole) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUser(r.Context())
			if user == nil {
				errs.Respond(w, r, model.NewUnauthorizedError("You are not logged in! Please log in to get access.", nil))
				return
			}
			for _, role := range roles {
				if user.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			errs.Respond(w, r, model.NewForbiddenError(nil))
		})
	}
}

// bearerToken returns the token from "Authorization: Bearer <token>" or,
// failing that, from the jwt cookie. It returns "" when neither is present.
func bearerToken(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if c, err := r.Cookie(tokenCookie); err == nil {
		return c.Value
	}
	return ""
}

// GetUserID extracts the user ID from context
func GetUserID(ctx context.Context) string {
	if id, ok := ctx.Value(UserIDKey).(string); ok {
		return id
	}
	return ""
}

// GetUser extracts the authenticated user from context
func GetUser(ctx context.Context) *model.User {
	if user, ok := ctx.Value(UserKey).(*model.User); ok {
		return user
	}
	return nil
}

// GetClaims extracts the JWT claims from context
func GetClaims(ctx context.Context) *jwt.Claims {
	if claims, ok := ctx.Value(ClaimsKey).(*jwt.Claims); ok {
		return claims
	}
	return nil
}

// WithUser returns a copy of ctx carrying user, as Protect would set it
func WithUser(ctx context.Context, user *model.User) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, user.ID)
	return context.WithValue(ctx, UserKey, user)
}
