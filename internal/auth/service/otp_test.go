package service

import (
	"context"
	"testing"
	"time"

	"github.com/SatyaTirumalasetty/fractOwn-sub001/internal/auth/domain"
	"github.com/SatyaTirumalasetty/fractOwn-sub001/internal/auth/notify"
	"github.com/SatyaTirumalasetty/fractOwn-sub001/internal/auth/store"
	"github.com/SatyaTirumalasetty/fractOwn-sub001/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newOTPService(st store.Store) (*OTPService, *notify.CaptureGateway) {
	gw := &notify.CaptureGateway{}
	return &OTPService{Store: st, Gateway: gw}, gw
}

func TestRequestCodeDeliversSixDigitCode(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc, gw := newOTPService(st)

	require.NoError(t, svc.RequestCode(ctx, "+919000000001", ""))

	msg, ok := gw.Last()
	require.True(t, ok)
	require.Equal(t, "+919000000001", msg.Destination)
	require.Len(t, msg.Code, 6)
	for _, c := range msg.Code {
		require.GreaterOrEqual(t, c, '0')
		require.LessOrEqual(t, c, '9')
	}
}

func TestRequestCodeRequiresPhone(t *testing.T) {
	st := newTestStore(t)
	svc, _ := newOTPService(st)

	err := svc.RequestCode(context.Background(), "", "")
	require.ErrorIs(t, err, ErrPhoneRequired)
}

func TestRequestCodeSupersedesPreviousCode(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc, gw := newOTPService(st)

	phone := "+919000000002"
	require.NoError(t, svc.RequestCode(ctx, phone, ""))
	first, _ := gw.Last()

	require.NoError(t, svc.RequestCode(ctx, phone, ""))
	second, _ := gw.Last()

	// The first code is dead once a second one is issued.
	_, _, err := svc.VerifyCode(ctx, phone, first.Code, "New User", "+91")
	require.ErrorIs(t, err, ErrInvalidOrExpiredCode)

	_, _, err = svc.VerifyCode(ctx, phone, second.Code, "New User", "+91")
	require.NoError(t, err)
}

func TestVerifyCodeCreatesUserAndSession(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc, gw := newOTPService(st)
	sessions := &SessionService{Store: st}

	phone := "+919000000003"
	require.NoError(t, svc.RequestCode(ctx, phone, ""))
	msg, _ := gw.Last()

	user, token, err := svc.VerifyCode(ctx, phone, msg.Code, "Asha Rao", "+91")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, phone, user.PhoneNumber)
	require.Equal(t, "Asha Rao", user.DisplayName)
	require.True(t, user.IsVerified)
	require.True(t, user.IsActive)

	subject, err := sessions.Validate(ctx, token)
	require.NoError(t, err)
	require.Equal(t, user.ID, subject.SubjectID)
	require.Equal(t, domain.SubjectUser, subject.SubjectType)
}

func TestVerifyCodeRejectsReplay(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc, gw := newOTPService(st)

	phone := "+919000000004"
	require.NoError(t, svc.RequestCode(ctx, phone, ""))
	msg, _ := gw.Last()

	_, _, err := svc.VerifyCode(ctx, phone, msg.Code, "First Login", "+91")
	require.NoError(t, err)

	_, _, err = svc.VerifyCode(ctx, phone, msg.Code, "First Login", "+91")
	require.ErrorIs(t, err, ErrInvalidOrExpiredCode)
}

func TestVerifyCodeRejectsWrongAndExpiredCodes(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc, gw := newOTPService(st)

	t.Run("wrong code", func(t *testing.T) {
		phone := "+919000000005"
		require.NoError(t, svc.RequestCode(ctx, phone, ""))
		msg, _ := gw.Last()

		wrong := "000000"
		if msg.Code == wrong {
			wrong = "000001"
		}
		_, _, err := svc.VerifyCode(ctx, phone, wrong, "Someone", "+91")
		require.ErrorIs(t, err, ErrInvalidOrExpiredCode)
	})

	t.Run("expired code", func(t *testing.T) {
		phone := "+919000000006"
		now := time.Now().UTC()
		require.NoError(t, st.OneTimeCodes().CreateOneTimeCode(ctx, domain.OneTimeCode{
			ID:          idx.New().String(),
			PhoneNumber: phone,
			Code:        "123456",
			ExpiresAt:   now.Add(-time.Second),
			CreatedAt:   now.Add(-DefaultOTPTTL),
		}))

		_, _, err := svc.VerifyCode(ctx, phone, "123456", "Someone", "+91")
		require.ErrorIs(t, err, ErrInvalidOrExpiredCode)
	})

	t.Run("missing inputs", func(t *testing.T) {
		_, _, err := svc.VerifyCode(ctx, "", "123456", "", "")
		require.ErrorIs(t, err, ErrInvalidOrExpiredCode)

		_, _, err = svc.VerifyCode(ctx, "+919000000007", "", "", "")
		require.ErrorIs(t, err, ErrInvalidOrExpiredCode)
	})
}

func TestVerifyCodeNewUserNeedsName(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc, gw := newOTPService(st)

	phone := "+919000000008"
	require.NoError(t, svc.RequestCode(ctx, phone, ""))
	msg, _ := gw.Last()

	_, _, err := svc.VerifyCode(ctx, phone, msg.Code, "", "+91")
	require.ErrorIs(t, err, ErrNameRequired)

	// The rejection rolled back, so the code is still good for a retry
	// that carries a name.
	user, token, err := svc.VerifyCode(ctx, phone, msg.Code, "Ravi Kumar", "+91")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, "Ravi Kumar", user.DisplayName)
}

func TestVerifyCodeExistingUserKeepsProfile(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc, gw := newOTPService(st)

	phone := "+919000000009"
	existing := newTestUser(t, st, phone)

	require.NoError(t, svc.RequestCode(ctx, phone, ""))
	msg, _ := gw.Last()

	// No display name needed on a returning login, even if one is sent.
	user, token, err := svc.VerifyCode(ctx, phone, msg.Code, "", "")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, existing.ID, user.ID)
	require.Equal(t, existing.DisplayName, user.DisplayName)
}

func TestRequestCodeCapturesEmailForExistingUser(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc, _ := newOTPService(st)

	phone := "+919000000010"
	existing := newTestUser(t, st, phone)

	require.NoError(t, svc.RequestCode(ctx, phone, "asha@example.com"))

	user, err := st.Users().GetUserByID(ctx, existing.ID)
	require.NoError(t, err)
	require.Equal(t, "asha@example.com", user.Email)

	// Unknown phone with an email is still fine; no account is created.
	require.NoError(t, svc.RequestCode(ctx, "+919000000011", "new@example.com"))
	_, err = st.Users().GetUserByPhone(ctx, "+919000000011")
	require.ErrorIs(t, err, store.ErrNotFound)
}
