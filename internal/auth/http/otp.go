package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/SatyaTirumalasetty/fractOwn-sub001/internal/auth/domain"
	"github.com/SatyaTirumalasetty/fractOwn-sub001/internal/auth/service"
	"github.com/SatyaTirumalasetty/fractOwn-sub001/pkg/httpx"
	"github.com/SatyaTirumalasetty/fractOwn-sub001/pkg/slogx"
)

// OTPHandler handles the phone-number login flow.
type OTPHandler struct {
	OTPService *service.OTPService
}

func userResponse(u domain.User) *UserResponse {
	return &UserResponse{
		ID:          u.ID,
		PhoneNumber: u.PhoneNumber,
		DisplayName: u.DisplayName,
		CountryCode: u.CountryCode,
		Email:       u.Email,
		IsVerified:  u.IsVerified,
	}
}

// HandleRequest handles POST /v1/otp/request
//
//	@Summary		Request a one-time code
//	@Description	Sends a 6-digit code to the phone number. Re-requesting replaces any
//	@Description	pending code for the number. The response does not reveal whether the
//	@Description	number has an account.
//	@Tags			OTP
//	@Accept			json
//	@Produce		json
//	@Param			request	body		OTPRequestBody	true	"Phone number and optional email"
//	@Success		202		{object}	map[string]string
//	@Failure		400		{object}	ErrorResponse	"Missing phone number"
//	@Failure		429		{object}	ErrorResponse	"Too many requests"
//	@Router			/v1/otp/request [post].
func (h *OTPHandler) HandleRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req OTPRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	if err := h.OTPService.RequestCode(ctx, req.PhoneNumber, req.Email); err != nil {
		if errors.Is(err, service.ErrPhoneRequired) {
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "phone_number is required")
			return
		}
		log.Error("failed to issue one-time code", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to issue code")
		return
	}

	// Accepted regardless of delivery outcome.
	httpx.WriteJSON(w, http.StatusAccepted, map[string]string{"status": "sent"})
}

// HandleVerify handles POST /v1/otp/verify
//
//	@Summary		Verify a one-time code
//	@Description	Verifies the code for the phone number and issues a session token. First
//	@Description	logins must carry a display_name so an account can be created. Wrong,
//	@Description	expired and replayed codes all fail identically.
//	@Tags			OTP
//	@Accept			json
//	@Produce		json
//	@Param			request	body		OTPVerifyBody	true	"Phone number, code and profile fields"
//	@Success		200		{object}	LoginResponse
//	@Failure		400		{object}	ErrorResponse	"Missing display name for a new account"
//	@Failure		401		{object}	ErrorResponse	"Invalid or expired code"
//	@Router			/v1/otp/verify [post].
func (h *OTPHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req OTPVerifyBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	user, token, err := h.OTPService.VerifyCode(ctx, req.PhoneNumber, req.Code, req.DisplayName, req.CountryCode)
	switch {
	case errors.Is(err, service.ErrInvalidOrExpiredCode):
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_or_expired_code", "The code is invalid or has expired")
		return
	case errors.Is(err, service.ErrNameRequired):
		httpx.WriteError(w, http.StatusBadRequest, "name_required", "display_name is required for a new account")
		return
	case err != nil:
		log.Error("failed to verify one-time code", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to verify code")
		return
	}

	ttl := h.OTPService.UserTTL
	if ttl <= 0 {
		ttl = service.DefaultUserSessionTTL
	}
	httpx.WriteJSON(w, http.StatusOK, LoginResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: time.Now().UTC().Add(ttl).Format(time.RFC3339),
		User:      userResponse(user),
	})
}
