package service

import (
	"context"
	"testing"
	"time"

	"github.com/SatyaTirumalasetty/fractOwn-sub001/internal/auth/domain"
	"github.com/SatyaTirumalasetty/fractOwn-sub001/internal/auth/store"
	"github.com/SatyaTirumalasetty/fractOwn-sub001/pkg/cryptox"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"
)

func newAdminService(st store.Store) *AdminService {
	return &AdminService{Store: st, Sessions: &SessionService{Store: st}}
}

func TestAdminLogin(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newAdminService(st)

	admin := newTestAdmin(t, st, "login-admin", "correct-horse-battery")

	t.Run("valid credentials issue a session", func(t *testing.T) {
		token, err := svc.Login(ctx, "login-admin", "correct-horse-battery")
		require.NoError(t, err)
		require.NotEmpty(t, token)

		subject, err := svc.Sessions.Validate(ctx, token)
		require.NoError(t, err)
		require.Equal(t, admin.ID, subject.SubjectID)
		require.Equal(t, domain.SubjectAdmin, subject.SubjectType)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "login-admin", "wrong-password")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown username", func(t *testing.T) {
		_, err := svc.Login(ctx, "no-such-admin", "correct-horse-battery")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestAdminResetPassword(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newAdminService(st)
	mfa := &MFAService{Store: st, Issuer: "fractOwn"}

	admin := newTestAdmin(t, st, "reset-admin", "original-password")
	secret, backupCodes := enrollAndEnable(t, mfa, admin.ID)

	t.Run("rejects short passwords", func(t *testing.T) {
		err := svc.ResetPassword(ctx, "reset-admin", "123456", "short")
		require.ErrorIs(t, err, ErrPasswordTooShort)
	})

	t.Run("rejects unknown usernames", func(t *testing.T) {
		err := svc.ResetPassword(ctx, "no-such-admin", "123456", "replacement-password")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("rejects wrong codes without touching the password", func(t *testing.T) {
		err := svc.ResetPassword(ctx, "reset-admin", "000000", "replacement-password")
		require.ErrorIs(t, err, ErrInvalidTOTPCode)

		_, err = svc.Login(ctx, "reset-admin", "original-password")
		require.NoError(t, err)
	})

	t.Run("TOTP code resets password and revokes sessions", func(t *testing.T) {
		stolen, err := svc.Login(ctx, "reset-admin", "original-password")
		require.NoError(t, err)

		code, err := totp.GenerateCode(secret, time.Now())
		require.NoError(t, err)
		require.NoError(t, svc.ResetPassword(ctx, "reset-admin", code, "replacement-password"))

		_, err = svc.Login(ctx, "reset-admin", "original-password")
		require.ErrorIs(t, err, ErrInvalidCredentials)

		_, err = svc.Login(ctx, "reset-admin", "replacement-password")
		require.NoError(t, err)

		_, err = svc.Sessions.Validate(ctx, stolen)
		require.ErrorIs(t, err, ErrSessionInvalid)
	})

	t.Run("backup code works once", func(t *testing.T) {
		require.NoError(t, svc.ResetPassword(ctx, "reset-admin", backupCodes[0], "third-password!"))

		_, err := svc.Login(ctx, "reset-admin", "third-password!")
		require.NoError(t, err)

		err = svc.ResetPassword(ctx, "reset-admin", backupCodes[0], "fourth-password!")
		require.ErrorIs(t, err, ErrInvalidBackupCode)
	})
}

func TestAdminResetPasswordRequiresMFA(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newAdminService(st)

	newTestAdmin(t, st, "no-mfa-admin", "original-password")

	// An admin without MFA must be indistinguishable from an unknown
	// username, otherwise the endpoint leaks which accounts exist.
	errNoMFA := svc.ResetPassword(ctx, "no-mfa-admin", "123456", "replacement-password")
	require.ErrorIs(t, errNoMFA, ErrInvalidCredentials)

	errUnknown := svc.ResetPassword(ctx, "ghost-admin", "123456", "replacement-password")
	require.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	require.Equal(t, errUnknown, errNoMFA)

	// The password is untouched.
	_, err := svc.Login(ctx, "no-mfa-admin", "original-password")
	require.NoError(t, err)
}

func TestEnsureAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the first admin", func(t *testing.T) {
		st := newTestStore(t)
		svc := newAdminService(st)

		require.NoError(t, svc.EnsureAdmin(ctx, "bootstrap", "bootstrap-password"))

		admin, err := st.Admins().GetAdminByUsername(ctx, "bootstrap")
		require.NoError(t, err)
		require.NoError(t, cryptox.VerifyPassword("bootstrap-password", admin.PasswordHash))
	})

	t.Run("no-op when an admin already exists", func(t *testing.T) {
		st := newTestStore(t)
		svc := newAdminService(st)
		newTestAdmin(t, st, "existing", "existing-password")

		require.NoError(t, svc.EnsureAdmin(ctx, "bootstrap", "bootstrap-password"))

		_, err := st.Admins().GetAdminByUsername(ctx, "bootstrap")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("no-op without a configured username", func(t *testing.T) {
		st := newTestStore(t)
		svc := newAdminService(st)

		require.NoError(t, svc.EnsureAdmin(ctx, "", ""))

		empty, err := st.Admins().IsEmpty(ctx)
		require.NoError(t, err)
		require.True(t, empty)
	})

	t.Run("rejects short bootstrap passwords", func(t *testing.T) {
		st := newTestStore(t)
		svc := newAdminService(st)

		err := svc.EnsureAdmin(ctx, "bootstrap", "short")
		require.ErrorIs(t, err, ErrPasswordTooShort)
	})
}
