package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/forgo/tourbook/api/internal/middleware"
	"github.com/forgo/tourbook/api/internal/model"
)

// AuthService is the account API the auth handler depends on
type AuthService interface {
	Signup(ctx context.Context, req *model.SignupRequest) (*model.AuthResponse, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error)
	ForgotPassword(ctx context.Context, req *model.ForgotPasswordRequest, resetURL func(token string) string) error
	ResetPassword(ctx context.Context, token string, req *model.ResetPasswordRequest) (*model.AuthResponse, error)
	UpdatePassword(ctx context.Context, user *model.User, req *model.UpdatePasswordRequest) (*model.AuthResponse, error)
	Deactivate(ctx context.Context, user *model.User) error
}

// AuthHandler handles account and password endpoints
type AuthHandler struct {
	auth          AuthService
	errors        *ErrorResponder
	cookieTTL     time.Duration
	secureCookies bool
}

// AuthHandlerConfig holds configuration for the auth handler
type AuthHandlerConfig struct {
	Auth   AuthService
	Errors *ErrorResponder
	// CookieTTL is the lifetime of the jwt cookie set on sign-in. Zero disables the cookie.
	CookieTTL     time.Duration
	SecureCookies bool
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(cfg AuthHandlerConfig) *AuthHandler {
	return &AuthHandler{
		auth:          cfg.Auth,
		errors:        cfg.Errors,
		cookieTTL:     cfg.CookieTTL,
		secureCookies: cfg.SecureCookies,
	}
}

// MessageResponse is a success response without data
type MessageResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type userData struct {
	User *model.User `json:"user"`
}

// Signup handles POST /api/v1/users/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req model.SignupRequest
	if err := DecodeJSON(r, &req); err != nil {
		h.errors.Respond(w, r, model.NewInvalidInputError("Invalid request body.", err))
		return
	}

	resp, err := h.auth.Signup(r.Context(), &req)
	if err != nil {
		h.errors.Respond(w, r, err)
		return
	}

	h.sendToken(w, http.StatusCreated, resp)
}

// Login handles POST /api/v1/users/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := DecodeJSON(r, &req); err != nil {
		h.errors.Respond(w, r, model.NewInvalidInputError("Invalid request body.", err))
		return
	}

	resp, err := h.auth.Login(r.Context(), &req)
	if err != nil {
		h.errors.Respond(w, r, err)
		return
	}

	h.sendToken(w, http.StatusOK, resp)
}

// ForgotPassword handles POST /api/v1/users/forgotPassword
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req model.ForgotPasswordRequest
	if err := DecodeJSON(r, &req); err != nil {
		h.errors.Respond(w, r, model.NewInvalidInputError("Invalid request body.", err))
		return
	}

	resetURL := func(token string) string {
		return requestBaseURL(r) + "/api/v1/users/resetPassword/" + token
	}
	if err := h.auth.ForgotPassword(r.Context(), &req, resetURL); err != nil {
		h.errors.Respond(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, MessageResponse{Status: statusSuccess, Message: "Token sent to email!"})
}

// ResetPassword handles PATCH /api/v1/users/resetPassword/{token}
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req model.ResetPasswordRequest
	if err := DecodeJSON(r, &req); err != nil {
		h.errors.Respond(w, r, model.NewInvalidInputError("Invalid request body.", err))
		return
	}

	resp, err := h.auth.ResetPassword(r.Context(), r.PathValue("token"), &req)
	if err != nil {
		h.errors.Respond(w, r, err)
		return
	}

	h.sendToken(w, http.StatusOK, resp)
}

// UpdatePassword handles PATCH /api/v1/users/updateMyPassword
func (h *AuthHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	if user == nil {
		h.errors.Respond(w, r, model.NewUnauthorizedError("You are not logged in! Please log in to get access.", nil))
		return
	}

	var req model.UpdatePasswordRequest
	if err := DecodeJSON(r, &req); err != nil {
		h.errors.Respond(w, r, model.NewInvalidInputError("Invalid request body.", err))
		return
	}

	resp, err := h.auth.UpdatePassword(r.Context(), user, &req)
	if err != nil {
		h.errors.Respond(w, r, err)
		return
	}

	h.sendToken(w, http.StatusOK, resp)
}

// Me handles GET /api/v1/users/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	if user == nil {
		h.errors.Respond(w, r, model.NewUnauthorizedError("You are not logged in! Please log in to get access.", nil))
		return
	}
	WriteData(w, http.StatusOK, userData{User: user})
}

// DeleteMe handles DELETE /api/v1/users/deleteMe
func (h *AuthHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	if user == nil {
		h.errors.Respond(w, r, model.NewUnauthorizedError("You are not logged in! Please log in to get access.", nil))
		return
	}

	if err := h.auth.Deactivate(r.Context(), user); err != nil {
		h.errors.Respond(w, r, err)
		return
	}

	WriteNoContent(w)
}

func (h *AuthHandler) sendToken(w http.ResponseWriter, status int, resp *model.AuthResponse) {
	if h.cookieTTL > 0 {
		http.SetCookie(w, &http.Cookie{
			Name:     "jwt",
			Value:    resp.Token,
			Path:     "/",
			Expires:  time.Now().Add(h.cookieTTL),
			HttpOnly: true,
			Secure:   h.secureCookies,
			SameSite: http.SameSiteLaxMode,
		})
	}
	WriteJSON(w, status, DataResponse{
		Status: statusSuccess,
		Token:  resp.Token,
		Data:   userData{User: resp.User},
	})
}

func requestBaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

// RegisterRoutes registers account routes. protect guards the routes that
// need a signed-in user.
func (h *AuthHandler) RegisterRoutes(mux *http.ServeMux, protect middleware.Middleware) {
	mux.HandleFunc("POST /api/v1/users/signup", h.Signup)
	mux.HandleFunc("POST /api/v1/users/login", h.Login)
	mux.HandleFunc("POST /api/v1/users/forgotPassword", h.ForgotPassword)
	mux.HandleFunc("PATCH /api/v1/users/resetPassword/{token}", h.ResetPassword)

	mux.Handle("GET /api/v1/users/me", protect(http.HandlerFunc(h.Me)))
	mux.Handle("PATCH /api/v1/users/updateMyPassword", protect(http.HandlerFunc(h.UpdatePassword)))
	mux.Handle("DELETE /api/v1/users/deleteMe", protect(http.HandlerFunc(h.DeleteMe)))
}
