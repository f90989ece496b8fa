package http

import (
	"context"
	"net/http"
	"time"

	"github.com/ferchini45-svg/carrito/internal/domain"
)

type Authenticator interface {
	Register(ctx context.Context, name, email, password string) (*domain.User, error)
	Login(ctx context.Context, sessionID, email, password string) (*domain.SessionUser, error)
	Logout(ctx context.Context, sessionID string) error
	CurrentUser(ctx context.Context, sessionID string) (*domain.SessionUser, error)
}

type AuthHandler struct {
	auth    Authenticator
	cookie  SessionCookie
	timeout time.Duration
}

func NewAuthHandler(auth Authenticator, cookie SessionCookie, timeout time.Duration) *AuthHandler {
	return &AuthHandler{auth: auth, cookie: cookie, timeout: timeout}
}

// POST /api/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := r.ParseForm(); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid_request", "invalid form body")
		return
	}

	u, err := h.auth.Register(ctx, r.FormValue("name"), r.FormValue("email"), r.FormValue("password"))
	if err != nil {
		handleDomainError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusCreated, map[string]interface{}{
		"ok":   true,
		"user": u.SessionUser(),
	})
}

// POST /api/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := r.ParseForm(); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid_request", "invalid form body")
		return
	}

	user, err := h.auth.Login(ctx, getSessionID(r.Context()), r.FormValue("email"), r.FormValue("password"))
	if err != nil {
		handleDomainError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]interface{}{
		"ok":   true,
		"user": user,
	})
}

// POST /api/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.auth.Logout(ctx, getSessionID(r.Context())); err != nil {
		handleDomainError(w, r, err)
		return
	}

	setSessionCookie(w, h.cookie, "", -1)
	respondJSON(w, r, http.StatusOK, map[string]interface{}{"ok": true})
}
