package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/SatyaTirumalasetty/fractOwn-sub001/internal/auth/domain"
	"github.com/SatyaTirumalasetty/fractOwn-sub001/internal/auth/store"
	"github.com/SatyaTirumalasetty/fractOwn-sub001/pkg/cryptox"
	"github.com/SatyaTirumalasetty/fractOwn-sub001/pkg/idx"
)

// MinPasswordLength is the minimum accepted admin password length.
const MinPasswordLength = 8

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrPasswordTooShort   = errors.New("password too short")
)

// dummyHash is compared against when the username does not exist, so a login
// attempt takes the same time whether or not the admin is real.
var (
	dummyHash     string
	dummyHashOnce sync.Once
)

func getDummyHash() string {
	dummyHashOnce.Do(func() {
		h, err := cryptox.HashPassword("dummy-password-for-timing")
		if err != nil {
			slog.Error("Failed to generate dummy hash", "error", err)
			h = ""
		}
		dummyHash = h
	})
	return dummyHash
}

type AdminService struct {
	Store    store.Store
	Sessions *SessionService
}

// Login verifies an admin's username and password and issues a session token.
// Unknown usernames and wrong passwords both return ErrInvalidCredentials.
func (s *AdminService) Login(ctx context.Context, username, password string) (string, error) {
	admin, err := s.Store.Admins().GetAdminByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Burn the same work as a real comparison.
			_ = cryptox.VerifyPassword(password, getDummyHash())
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to load admin: %w", err)
	}

	if err := cryptox.VerifyPassword(password, admin.PasswordHash); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := s.Sessions.Issue(ctx, admin.ID, domain.SubjectAdmin)
	if err != nil {
		return "", err
	}
	return token, nil
}

// ResetPassword sets a new password for an admin after verifying a TOTP code
// or backup code. All existing admin sessions are revoked in the same
// transaction so a stolen session cannot outlive the credential it rode in on.
func (s *AdminService) ResetPassword(ctx context.Context, username, code, newPassword string) error {
	if len(newPassword) < MinPasswordLength {
		return ErrPasswordTooShort
	}

	admin, err := s.Store.Admins().GetAdminByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidCredentials
		}
		return fmt.Errorf("failed to load admin: %w", err)
	}
	if !admin.MFAIsEnabled() {
		// Same error as an unknown username: this endpoint is
		// unauthenticated, and a distinct response would reveal which
		// admin accounts exist without MFA.
		return ErrInvalidCredentials
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := verifyAdminFactor(ctx, tx, admin, code); err != nil {
			return err
		}
		if err := tx.Admins().UpdateAdminPasswordHash(ctx, admin.ID, hash); err != nil {
			return fmt.Errorf("failed to update password: %w", err)
		}
		if err := tx.Sessions().DeleteSessionsForSubject(ctx, admin.ID); err != nil {
			return fmt.Errorf("failed to revoke sessions: %w", err)
		}
		return nil
	})
}

// EnsureAdmin creates the initial admin account if no admins exist yet.
// It is a no-op when the table already has a row or when username is empty.
func (s *AdminService) EnsureAdmin(ctx context.Context, username, password string) error {
	if username == "" {
		return nil
	}

	empty, err := s.Store.Admins().IsEmpty(ctx)
	if err != nil {
		return fmt.Errorf("failed to check admins table: %w", err)
	}
	if !empty {
		return nil
	}

	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	admin := domain.Admin{
		ID:           idx.New().String(),
		Username:     username,
		PasswordHash: hash,
	}
	if err := s.Store.Admins().CreateAdmin(ctx, admin); err != nil {
		return fmt.Errorf("failed to create initial admin: %w", err)
	}

	slog.Info("Created initial admin account", "username", username)
	return nil
}
