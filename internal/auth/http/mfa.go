package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/SatyaTirumalasetty/fractOwn-sub001/internal/auth/service"
	"github.com/SatyaTirumalasetty/fractOwn-sub001/pkg/httpx"
	"github.com/SatyaTirumalasetty/fractOwn-sub001/pkg/slogx"
)

const backupCodesWarning = "Store these codes securely. They are shown only once and each works only once."

// MFAHandler handles TOTP enrollment and backup codes for admin accounts.
type MFAHandler struct {
	MFAService *service.MFAService
}

// HandleEnroll handles POST /v1/mfa/totp/enroll
//
//	@Summary		Enroll in TOTP MFA
//	@Description	Generates a TOTP secret for the authenticated admin and returns it with
//	@Description	an otpauth URL for QR rendering. A previously confirmed credential stays
//	@Description	active until the new secret is confirmed with a code.
//	@Tags			MFA
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	TOTPEnrollResponse	"TOTP secret and QR code"
//	@Failure		401	{object}	ErrorResponse		"Invalid or missing session token"
//	@Failure		500	{object}	ErrorResponse		"Internal server error"
//	@Router			/v1/mfa/totp/enroll [post].
func (h *MFAHandler) HandleEnroll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	adminID, _ := httpx.SubjectFromCtx(ctx)
	if adminID == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "Missing session subject")
		return
	}

	enrollData, err := h.MFAService.EnrollTOTP(ctx, adminID)
	if err != nil {
		log.Error("failed to enroll TOTP", "admin_id", adminID, "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to generate secret")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, TOTPEnrollResponse{
		Secret:  enrollData.Secret,
		QRCode:  enrollData.QRCode,
		Issuer:  enrollData.Issuer,
		Account: enrollData.Account,
	})
}

// HandleVerify handles POST /v1/mfa/totp/verify
//
//	@Summary		Confirm TOTP enrollment
//	@Description	Verifies a code against the pending secret, enables MFA and returns
//	@Description	backup codes. The codes are shown exactly once.
//	@Tags			MFA
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		TOTPCodeBody		true	"TOTP code"
//	@Success		200		{object}	BackupCodesResponse	"Backup codes (shown once)"
//	@Failure		400		{object}	ErrorResponse		"Invalid TOTP code or no pending enrollment"
//	@Failure		401		{object}	ErrorResponse		"Invalid or missing session token"
//	@Failure		500		{object}	ErrorResponse		"Internal server error"
//	@Router			/v1/mfa/totp/verify [post].
func (h *MFAHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	adminID, _ := httpx.SubjectFromCtx(ctx)
	if adminID == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "Missing session subject")
		return
	}

	var req TOTPCodeBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	backupCodes, err := h.MFAService.VerifyTOTP(ctx, adminID, req.Code)
	switch {
	case errors.Is(err, service.ErrMFANotEnrolled):
		httpx.WriteError(w, http.StatusBadRequest, "mfa_not_enrolled", "Generate a secret before verifying")
		return
	case errors.Is(err, service.ErrInvalidTOTPCode):
		httpx.WriteError(w, http.StatusBadRequest, "invalid_totp_code", "The TOTP code is invalid")
		return
	case err != nil:
		log.Error("failed to verify TOTP", "admin_id", adminID, "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to enable MFA")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, BackupCodesResponse{
		BackupCodes: backupCodes,
		Warning:     backupCodesWarning,
	})
}

// HandleRegenerateBackupCodes handles POST /v1/mfa/backup-codes
//
//	@Summary		Regenerate backup codes
//	@Description	Replaces all backup codes after verifying a current TOTP code.
//	@Tags			MFA
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		TOTPCodeBody		true	"TOTP code"
//	@Success		200		{object}	BackupCodesResponse	"New backup codes (shown once)"
//	@Failure		400		{object}	ErrorResponse		"Invalid TOTP code or MFA not enabled"
//	@Failure		401		{object}	ErrorResponse		"Invalid or missing session token"
//	@Failure		500		{object}	ErrorResponse		"Internal server error"
//	@Router			/v1/mfa/backup-codes [post].
func (h *MFAHandler) HandleRegenerateBackupCodes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	adminID, _ := httpx.SubjectFromCtx(ctx)
	if adminID == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "Missing session subject")
		return
	}

	var req TOTPCodeBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	backupCodes, err := h.MFAService.RegenerateBackupCodes(ctx, adminID, req.Code)
	switch {
	case errors.Is(err, service.ErrMFANotEnabled):
		httpx.WriteError(w, http.StatusBadRequest, "mfa_not_enabled", "MFA is not enabled")
		return
	case errors.Is(err, service.ErrInvalidTOTPCode):
		httpx.WriteError(w, http.StatusBadRequest, "invalid_totp_code", "The TOTP code is invalid")
		return
	case err != nil:
		log.Error("failed to regenerate backup codes", "admin_id", adminID, "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to regenerate backup codes")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, BackupCodesResponse{
		BackupCodes: backupCodes,
		Warning:     backupCodesWarning,
	})
}

// HandleDisable handles DELETE /v1/mfa/totp
//
//	@Summary		Disable TOTP MFA
//	@Description	Removes the TOTP credential and all backup codes. Requires a current
//	@Description	TOTP code or an unused backup code.
//	@Tags			MFA
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		TOTPCodeBody	true	"TOTP code or backup code"
//	@Success		204		"MFA disabled"
//	@Failure		400		{object}	ErrorResponse	"Invalid code or MFA not enabled"
//	@Failure		401		{object}	ErrorResponse	"Invalid or missing session token"
//	@Failure		500		{object}	ErrorResponse	"Internal server error"
//	@Router			/v1/mfa/totp [delete].
func (h *MFAHandler) HandleDisable(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	adminID, _ := httpx.SubjectFromCtx(ctx)
	if adminID == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "Missing session subject")
		return
	}

	var req TOTPCodeBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	err := h.MFAService.Disable(ctx, adminID, req.Code)
	switch {
	case errors.Is(err, service.ErrMFANotEnabled):
		httpx.WriteError(w, http.StatusBadRequest, "mfa_not_enabled", "MFA is not enabled")
		return
	case errors.Is(err, service.ErrInvalidTOTPCode), errors.Is(err, service.ErrInvalidBackupCode):
		httpx.WriteError(w, http.StatusBadRequest, "invalid_code", "The code is invalid")
		return
	case err != nil:
		log.Error("failed to disable MFA", "admin_id", adminID, "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to disable MFA")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
