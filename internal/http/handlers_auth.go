package httpx

import (
	"context"
	"log/slog"
	"net/http"

	domainauth "github.com/digieduhack/aula-api/internal/domain/auth"
	apperrors "github.com/digieduhack/aula-api/internal/errors"
	"github.com/digieduhack/aula-api/internal/service"
)

// AuthServiceInterface defines the interface for auth service operations.
type AuthServiceInterface interface {
	SignIn(ctx context.Context, email, password string) (*service.AuthResult, error)
	SignUp(ctx context.Context, in service.SignUpInput) (*service.AuthResult, error)
	SignOut(ctx context.Context, raw string) error
	Session(ctx context.Context, raw string) (*domainauth.Principal, error)
}

// AuthHandlers provides HTTP handlers for authentication operations.
type AuthHandlers struct {
	Svc     AuthServiceInterface
	Cookies *SessionCookies
	Logger  *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Username string `json:"username"`
}

type registerResponse struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// Login handles POST /api/v3/auth/login.
// On success the session cookie is set and the principal returned; on failure no cookie is written.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	res, err := h.Svc.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		WriteAppError(w, r, err)
		return
	}

	h.Cookies.Set(w, r, res.Token, res.ExpiresAt)
	WriteJSON(w, http.StatusOK, res.Principal)
}

// Register handles POST /api/v3/auth/register.
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	res, err := h.Svc.SignUp(r.Context(), service.SignUpInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Username: req.Username,
	})
	if err != nil {
		WriteAppError(w, r, err)
		return
	}

	h.Cookies.Set(w, r, res.Token, res.ExpiresAt)
	WriteJSON(w, http.StatusCreated, registerResponse{UserID: res.Principal.UserID, Email: res.Principal.Email})
}

// Session handles GET /api/v3/auth/session.
// No cookie is a normal anonymous answer; an invalid cookie is cleared and reported.
func (h *AuthHandlers) Session(w http.ResponseWriter, r *http.Request) {
	raw := h.Cookies.Read(r)
	if raw == "" {
		WriteJSON(w, http.StatusOK, map[string]any{"session": nil})
		return
	}

	p, err := h.Svc.Session(r.Context(), raw)
	if err != nil {
		if apperrors.IsSessionInvalid(err) {
			h.Cookies.Clear(w, r)
		}
		WriteAppError(w, r, err)
		return
	}
	if p == nil {
		WriteJSON(w, http.StatusOK, map[string]any{"session": nil})
		return
	}
	notePrincipal(r.Context(), p)
	WriteJSON(w, http.StatusOK, p)
}

// Logout handles POST /api/v3/auth/logout. The cookie is always cleared;
// revocation failures are logged and do not fail the request.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if raw := h.Cookies.Read(r); raw != "" {
		if err := h.Svc.SignOut(r.Context(), raw); err != nil {
			h.logger().WarnContext(r.Context(), "logout failed", "error", err)
		}
	}

	h.Cookies.Clear(w, r)
	WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Deprecated answers every method on a retired v2 auth endpoint with 410 Gone.
func Deprecated(name string) http.Handler {
	body := map[string]string{"error": "Deprecated endpoint. Use /api/v3/auth/" + name}
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, http.StatusGone, body)
	})
}
