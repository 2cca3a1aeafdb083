package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/SatyaTirumalasetty/fractOwn-sub001/internal/auth/domain"
	"github.com/SatyaTirumalasetty/fractOwn-sub001/internal/auth/store"
	"github.com/SatyaTirumalasetty/fractOwn-sub001/pkg/cryptox"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// backupCodeCount is the number of backup codes issued when TOTP is confirmed.
const backupCodeCount = 8

var (
	ErrInvalidTOTPCode   = errors.New("invalid TOTP code")
	ErrInvalidBackupCode = errors.New("invalid backup code")
	ErrMFANotEnabled     = errors.New("MFA not enabled for this admin")
	ErrMFANotEnrolled    = errors.New("MFA not enrolled - generate a secret first")
)

type MFAService struct {
	Store  store.Store
	Issuer string // Issuer name for TOTP (e.g., "fractOwn")
}

// EnrollTOTP generates a TOTP secret for the admin and returns it along with
// an otpauth provisioning URL. The secret lands in the pending slot: a
// credential that is already enabled stays valid until the new secret is
// confirmed with a code.
func (s *MFAService) EnrollTOTP(ctx context.Context, adminID string) (domain.MFAEnrollResponse, error) {
	admin, err := s.Store.Admins().GetAdminByID(ctx, adminID)
	if err != nil {
		return domain.MFAEnrollResponse{}, fmt.Errorf("failed to load admin: %w", err)
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.Issuer,
		AccountName: admin.Username,
		Period:      30,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return domain.MFAEnrollResponse{}, fmt.Errorf("failed to generate TOTP key: %w", err)
	}

	if err := s.Store.Admins().UpdateMFAPendingSecret(ctx, adminID, key.Secret()); err != nil {
		return domain.MFAEnrollResponse{}, fmt.Errorf("failed to store MFA secret: %w", err)
	}

	return domain.MFAEnrollResponse{
		Secret:  key.Secret(),
		QRCode:  key.URL(),
		Issuer:  s.Issuer,
		Account: admin.Username,
	}, nil
}

// VerifyTOTP verifies a code against the pending secret and, if valid,
// promotes it to the confirmed slot and issues fresh backup codes. The
// plaintext codes are returned exactly once; only their hashes are stored.
// totp.Validate tolerates one adjacent 30s time step to absorb clock drift.
func (s *MFAService) VerifyTOTP(ctx context.Context, adminID string, code string) ([]string, error) {
	admin, err := s.Store.Admins().GetAdminByID(ctx, adminID)
	if err != nil {
		return nil, fmt.Errorf("failed to load admin: %w", err)
	}

	if admin.MFAPendingSecret == nil || *admin.MFAPendingSecret == "" {
		return nil, ErrMFANotEnrolled
	}

	if !totp.Validate(code, *admin.MFAPendingSecret) {
		return nil, ErrInvalidTOTPCode
	}

	backupCodes, err := generateBackupCodes()
	if err != nil {
		return nil, err
	}

	// Promote the secret and replace backup codes in a transaction
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Admins().EnableMFA(ctx, adminID); err != nil {
			return fmt.Errorf("failed to enable MFA: %w", err)
		}

		if err := tx.BackupCodes().DeleteAllBackupCodes(ctx, adminID); err != nil {
			return fmt.Errorf("failed to clear old backup codes: %w", err)
		}
		for _, code := range backupCodes {
			hash := cryptox.FingerprintToken(code)
			if err := tx.BackupCodes().CreateBackupCode(ctx, adminID, hash); err != nil {
				return fmt.Errorf("failed to store backup code: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return backupCodes, nil
}

// RegenerateBackupCodes generates new backup codes after verifying a TOTP code.
func (s *MFAService) RegenerateBackupCodes(ctx context.Context, adminID string, totpCode string) ([]string, error) {
	admin, err := s.Store.Admins().GetAdminByID(ctx, adminID)
	if err != nil {
		return nil, fmt.Errorf("failed to load admin: %w", err)
	}
	if !admin.MFAIsEnabled() {
		return nil, ErrMFANotEnabled
	}
	if !totp.Validate(totpCode, *admin.MFASecret) {
		return nil, ErrInvalidTOTPCode
	}

	backupCodes, err := generateBackupCodes()
	if err != nil {
		return nil, err
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.BackupCodes().DeleteAllBackupCodes(ctx, adminID); err != nil {
			return fmt.Errorf("failed to delete old backup codes: %w", err)
		}
		for _, code := range backupCodes {
			hash := cryptox.FingerprintToken(code)
			if err := tx.BackupCodes().CreateBackupCode(ctx, adminID, hash); err != nil {
				return fmt.Errorf("failed to store backup code: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return backupCodes, nil
}

// Disable removes the TOTP credential and all backup codes. It requires a
// current TOTP code or an unused backup code: stripping the second factor
// must re-prove possession of it.
func (s *MFAService) Disable(ctx context.Context, adminID string, code string) error {
	admin, err := s.Store.Admins().GetAdminByID(ctx, adminID)
	if err != nil {
		return fmt.Errorf("failed to load admin: %w", err)
	}
	if !admin.MFAIsEnabled() {
		return ErrMFANotEnabled
	}

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := verifyAdminFactor(ctx, tx, admin, code); err != nil {
			return err
		}

		if err := tx.BackupCodes().DeleteAllBackupCodes(ctx, adminID); err != nil {
			return fmt.Errorf("failed to delete backup codes: %w", err)
		}
		if err := tx.Admins().DisableMFA(ctx, adminID); err != nil {
			return fmt.Errorf("failed to disable MFA: %w", err)
		}
		return nil
	})
}

// verifyAdminFactor accepts either a live 6-digit TOTP code or a stored
// backup code. Backup-code matching consumes the code in the same statement,
// so it must run inside the caller's transaction: a backup code authorizes
// exactly one operation even under concurrent attempts.
func verifyAdminFactor(ctx context.Context, st store.Store, admin domain.Admin, code string) error {
	if admin.MFASecret == nil || *admin.MFASecret == "" {
		return ErrMFANotEnabled
	}

	if len(code) == cryptox.OTPDigits && isDigits(code) {
		if totp.Validate(code, *admin.MFASecret) {
			return nil
		}
		return ErrInvalidTOTPCode
	}

	consumed, err := st.BackupCodes().ConsumeBackupCode(ctx, admin.ID, cryptox.FingerprintToken(code))
	if err != nil {
		return err
	}
	if !consumed {
		return ErrInvalidBackupCode
	}
	return nil
}

func generateBackupCodes() ([]string, error) {
	codes := make([]string, backupCodeCount)
	for i := 0; i < backupCodeCount; i++ {
		code, err := cryptox.GenerateBackupCode()
		if err != nil {
			return nil, fmt.Errorf("failed to generate backup code: %w", err)
		}
		codes[i] = code
	}
	return codes, nil
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}
