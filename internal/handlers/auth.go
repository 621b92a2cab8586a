package handlers

import (
	"errors"
	"net/http"

	"github.com/sekhonkennels/kennel-portal/internal/auth"
	"github.com/sekhonkennels/kennel-portal/internal/common"
	"github.com/sekhonkennels/kennel-portal/internal/interfaces"
)

// AuthHandler handles admin authentication requests.
type AuthHandler struct {
	logger        *common.Logger
	users         interfaces.UserStore
	sessions      *auth.Manager
	secureCookies bool
}

// NewAuthHandler creates a new auth handler. secureCookies should be
// true outside dev mode so the session cookie is HTTPS-only.
func NewAuthHandler(logger *common.Logger, users interfaces.UserStore, sessions *auth.Manager, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		logger:        logger,
		users:         users,
		sessions:      sessions,
		secureCookies: secureCookies,
	}
}

// Status handles GET /api/auth/status. It reports whether the caller
// holds a valid session and whether first-run setup has been completed.
func (h *AuthHandler) Status(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	count, err := h.users.Count(r.Context())
	if err != nil {
		h.logger.Error().Str("error", err.Error()).Msg("failed to count users")
		WriteError(w, http.StatusInternalServerError, CodeServerError, "Something went wrong. Try again later.")
		return
	}

	sess, renewed, err := h.sessions.CurrentSession(r.Context(), auth.SessionTokenFromRequest(r))
	if err != nil {
		h.logger.Error().Str("error", err.Error()).Msg("failed to resolve session")
		WriteError(w, http.StatusInternalServerError, CodeServerError, "Something went wrong. Try again later.")
		return
	}
	if renewed {
		auth.SetSessionCookie(w, auth.SessionTokenFromRequest(r),
			h.sessions.Lifetime(), h.secureCookies)
	}

	WriteJSON(w, http.StatusOK, map[string]bool{
		"authenticated":  sess != nil,
		"setup_complete": count > 0,
	})
}

type setupRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// Setup handles POST /api/auth/setup, the single-admin bootstrap. Once
// any user exists further setup attempts are rejected with a conflict.
func (h *AuthHandler) Setup(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req setupRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}
	if err := validateUsername(req.Username); err != nil {
		WriteError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}
	if err := validatePasswordComplexity(req.Password); err != nil {
		WriteError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}
	if req.Password != req.ConfirmPassword {
		WriteError(w, http.StatusBadRequest, CodeBadRequest, "Passwords do not match")
		return
	}

	count, err := h.users.Count(r.Context())
	if err != nil {
		h.logger.Error().Str("error", err.Error()).Msg("failed to count users")
		WriteError(w, http.StatusInternalServerError, CodeServerError, "Something went wrong. Try again later.")
		return
	}
	if count > 0 {
		WriteError(w, http.StatusConflict, CodeConflict, "Setup has already been completed.")
		return
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.logger.Error().Str("error", err.Error()).Msg("failed to hash password")
		WriteError(w, http.StatusInternalServerError, CodeServerError, "Something went wrong. Try again later.")
		return
	}

	user, err := h.users.Create(r.Context(), req.Username, passwordHash)
	if err != nil {
		h.logger.Error().Str("error", err.Error()).Msg("failed to create admin user")
		WriteError(w, http.StatusInternalServerError, CodeServerError, "Something went wrong. Try again later.")
		return
	}

	token, _, err := h.sessions.CreateSession(r.Context(), user.ID)
	if err != nil {
		h.logger.Error().Str("error", err.Error()).Msg("failed to create session")
		WriteError(w, http.StatusInternalServerError, CodeServerError, "Something went wrong. Try again later.")
		return
	}
	auth.SetSessionCookie(w, token, h.sessions.Lifetime(), h.secureCookies)

	h.logger.Info().Str("username", common.RedactName(user.Username)).Msg("admin setup complete")
	WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles POST /api/auth/login. The password check runs even when
// the username is unknown so response timing does not reveal which
// usernames exist.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req loginRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}
	if err := validateUsername(req.Username); err != nil {
		WriteError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}
	if err := validatePasswordLength(req.Password); err != nil {
		WriteError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}

	user, err := h.users.GetByUsername(r.Context(), req.Username)
	if err != nil && !errors.Is(err, interfaces.ErrNotFound) {
		h.logger.Error().Str("error", err.Error()).Msg("failed to look up user")
		WriteError(w, http.StatusInternalServerError, CodeServerError, "Something went wrong. Try again later.")
		return
	}

	var passwordHash string
	if user != nil {
		passwordHash = user.PasswordHash
	}
	if !auth.CheckPasswordOrDummy(req.Password, passwordHash) {
		WriteError(w, http.StatusUnauthorized, CodeInvalidCredentials, "Invalid credentials. Please try again.")
		return
	}

	token, _, err := h.sessions.CreateSession(r.Context(), user.ID)
	if err != nil {
		h.logger.Error().Str("error", err.Error()).Msg("failed to create session")
		WriteError(w, http.StatusInternalServerError, CodeServerError, "Something went wrong. Try again later.")
		return
	}
	auth.SetSessionCookie(w, token, h.sessions.Lifetime(), h.secureCookies)

	h.logger.Info().Str("username", common.RedactName(user.Username)).Msg("admin login")
	WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Logout handles POST /api/auth/logout. Logging out without a session
// still succeeds and clears the cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	if token := auth.SessionTokenFromRequest(r); token != "" {
		if err := h.sessions.DeleteSession(r.Context(), token); err != nil {
			h.logger.Warn().Str("error", err.Error()).Msg("failed to delete session on logout")
		}
	}
	auth.ClearSessionCookie(w, h.secureCookies)

	WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
