package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/SatyaTirumalasetty/fractOwn-sub001/internal/auth/service"
	"github.com/SatyaTirumalasetty/fractOwn-sub001/pkg/httpx"
	"github.com/SatyaTirumalasetty/fractOwn-sub001/pkg/slogx"
)

// AdminHandler handles back-office authentication.
type AdminHandler struct {
	AdminService *service.AdminService
}

// HandleLogin handles POST /v1/admin/login
//
//	@Summary		Admin login
//	@Description	Verifies username and password and issues a session token. Unknown
//	@Description	usernames and wrong passwords fail identically.
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			request	body		AdminLoginBody	true	"Credentials"
//	@Success		200		{object}	LoginResponse
//	@Failure		401		{object}	ErrorResponse	"Invalid credentials"
//	@Failure		429		{object}	ErrorResponse	"Too many attempts"
//	@Router			/v1/admin/login [post].
func (h *AdminHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req AdminLoginBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	token, err := h.AdminService.Login(ctx, req.Username, req.Password)
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid username or password")
		return
	case err != nil:
		log.Error("admin login failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Login failed")
		return
	}

	ttl := h.AdminService.Sessions.AdminTTL
	if ttl <= 0 {
		ttl = service.DefaultAdminSessionTTL
	}
	httpx.WriteJSON(w, http.StatusOK, LoginResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: time.Now().UTC().Add(ttl).Format(time.RFC3339),
	})
}

// HandleResetPassword handles POST /v1/admin/password/reset
//
//	@Summary		Reset admin password
//	@Description	Sets a new password after verifying a TOTP code or backup code. All
//	@Description	existing sessions for the admin are revoked. Unknown usernames,
//	@Description	accounts without MFA and wrong codes all fail identically.
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			request	body	PasswordResetBody	true	"Username, code and new password"
//	@Success		204		"Password updated"
//	@Failure		400		{object}	ErrorResponse	"Password too short"
//	@Failure		401		{object}	ErrorResponse	"Invalid username or code"
//	@Failure		429		{object}	ErrorResponse	"Too many attempts"
//	@Router			/v1/admin/password/reset [post].
func (h *AdminHandler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req PasswordResetBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	err := h.AdminService.ResetPassword(ctx, req.Username, req.Code, req.NewPassword)
	switch {
	case errors.Is(err, service.ErrPasswordTooShort):
		httpx.WriteError(w, http.StatusBadRequest, "password_too_short", "Password must be at least 8 characters")
		return
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidTOTPCode),
		errors.Is(err, service.ErrInvalidBackupCode):
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_code", "Invalid username or code")
		return
	case err != nil:
		log.Error("password reset failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Password reset failed")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
