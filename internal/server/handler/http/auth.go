package http

import (
	"context"
	"net/http"

	"github.com/atinyakov/ShelterDesk/internal/models"
)

// AuthService defines the authentication operations
// required by the HTTP handlers.
type AuthService interface {
	// AdminLogin checks the console's admin credentials.
	AdminLogin(c models.Credentials) error
	// Signup registers a public site account and returns the reply message.
	Signup(ctx context.Context, in models.Signup) (string, error)
	// Login returns the account matching email and password.
	Login(ctx context.Context, email, password string) (models.User, error)
}

// AuthHandler handles the admin and public site login endpoints.
type AuthHandler struct {
	// AuthService performs the underlying authentication operations.
	AuthService AuthService
}

// AdminLogin handles POST /api/admin/login with {username, password}.
// A successful reply carries no message.
func (h *AuthHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var c models.Credentials
	if !decode(w, r, &c) {
		return
	}
	if err := h.AuthService.AdminLogin(c); err != nil {
		writeError(w, err)
		return
	}
	writeResult(w, http.StatusOK, true, "")
}

// Signup handles POST /api/users/signup with {name, email, password}.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var in models.Signup
	if !decode(w, r, &in) {
		return
	}
	msg, err := h.AuthService.Signup(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeResult(w, http.StatusCreated, true, msg)
}

// Login handles POST /api/users/login with {email, password} and returns
// the account without its password.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var c models.Credentials
	if !decode(w, r, &c) {
		return
	}
	u, err := h.AuthService.Login(r.Context(), c.Email, c.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models.LoginResult{
		Result: models.Result{Success: true, Message: "Login successful"},
		User:   &u,
	})
}
