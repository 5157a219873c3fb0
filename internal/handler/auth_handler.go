package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"bookswap/internal/apperrors"
	"bookswap/internal/service"
)

const sessionCookieName = "token"

type SignupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *Handlers) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, "Please provide name, email, and password", http.StatusBadRequest)
		return
	}

	user, token, err := h.AuthService.Signup(r.Context(), service.SignupRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrEmailTaken) {
			WriteError(w, "User with this email already exists", http.StatusBadRequest)
			return
		}
		h.serverError(w, err, "Server error during signup")
		return
	}

	h.setSessionCookie(w, token)
	WriteUser(w, user, http.StatusCreated)
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, "Please provide email and password", http.StatusBadRequest)
		return
	}

	user, token, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		// one message for unknown email and wrong password
		if errors.Is(err, apperrors.ErrInvalidCredentials) {
			WriteError(w, "Invalid email or password", http.StatusUnauthorized)
			return
		}
		h.serverError(w, err, "Server error during login")
		return
	}

	h.setSessionCookie(w, token)
	WriteUser(w, user, http.StatusOK)
}

// Logout instructs the browser to drop the cookie. The token itself stays
// cryptographically valid until expiry; there is no revocation list.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	h.clearSessionCookie(w)
	WriteMessage(w, "Logged out successfully", http.StatusOK)
}

func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	WriteUser(w, user, http.StatusOK)
}

func (h *Handlers) setSessionCookie(w http.ResponseWriter, token string) {
	sameSite := http.SameSiteLaxMode
	if !h.Cfg.Development() {
		// cross-site frontend needs SameSite=None, which requires Secure
		sameSite = http.SameSiteNoneMode
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   !h.Cfg.Development(),
		SameSite: sameSite,
		MaxAge:   int(h.Cfg.TokenDuration.Seconds()),
	})
}

func (h *Handlers) clearSessionCookie(w http.ResponseWriter) {
	sameSite := http.SameSiteLaxMode
	if !h.Cfg.Development() {
		sameSite = http.SameSiteNoneMode
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   !h.Cfg.Development(),
		SameSite: sameSite,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	})
}
