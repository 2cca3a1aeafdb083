package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SatyaTirumalasetty/fractOwn-sub001/internal/auth/domain"
	"github.com/SatyaTirumalasetty/fractOwn-sub001/internal/auth/notify"
	"github.com/SatyaTirumalasetty/fractOwn-sub001/internal/auth/store"
	"github.com/SatyaTirumalasetty/fractOwn-sub001/pkg/cryptox"
	"github.com/SatyaTirumalasetty/fractOwn-sub001/pkg/idx"
	"github.com/SatyaTirumalasetty/fractOwn-sub001/pkg/slogx"
)

// DefaultOTPTTL is how long a one-time code stays valid after issuance.
const DefaultOTPTTL = 5 * time.Minute

var (
	// ErrInvalidOrExpiredCode covers wrong code, expired code and
	// already-used code. The cases are deliberately indistinguishable so
	// callers cannot learn which factor failed.
	ErrInvalidOrExpiredCode = errors.New("invalid_or_expired_code")

	// ErrNameRequired means the phone number has no account yet and the
	// verify request did not carry a display name to create one.
	ErrNameRequired = errors.New("name_required_for_new_user")

	ErrPhoneRequired = errors.New("phone_number_required")
)

type OTPService struct {
	Store   store.Store
	Gateway notify.Gateway
	CodeTTL time.Duration // defaults to DefaultOTPTTL
	UserTTL time.Duration // session lifetime for OTP logins
}

func (s *OTPService) codeTTL() time.Duration {
	if s.CodeTTL > 0 {
		return s.CodeTTL
	}
	return DefaultOTPTTL
}

func (s *OTPService) userTTL() time.Duration {
	if s.UserTTL > 0 {
		return s.UserTTL
	}
	return DefaultUserSessionTTL
}

// RequestCode issues a fresh one-time code for the phone number. Any previous
// pending code for the number is superseded: delete and insert run in one
// transaction so at most one unconsumed code exists per phone at any read
// point. Delivery failure is not an error; the code row is stored either way
// and the client can re-request.
func (s *OTPService) RequestCode(ctx context.Context, phoneNumber, email string) error {
	if phoneNumber == "" {
		return ErrPhoneRequired
	}

	code, err := cryptox.GenerateOTP()
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	otc := domain.OneTimeCode{
		ID:          idx.New().String(),
		PhoneNumber: phoneNumber,
		Code:        code,
		ExpiresAt:   now.Add(s.codeTTL()),
		CreatedAt:   now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.OneTimeCodes().DeleteCodesForPhone(ctx, phoneNumber); err != nil {
			return fmt.Errorf("failed to clear stale codes: %w", err)
		}
		if err := tx.OneTimeCodes().CreateOneTimeCode(ctx, otc); err != nil {
			return fmt.Errorf("failed to store code: %w", err)
		}

		// Capture the email on an existing account when offered.
		if email != "" {
			user, err := tx.Users().GetUserByPhone(ctx, phoneNumber)
			if err == nil {
				if err := tx.Users().UpdateUserEmail(ctx, user.ID, email); err != nil {
					return fmt.Errorf("failed to update email: %w", err)
				}
			} else if !errors.Is(err, store.ErrNotFound) {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Delivery is outside the transaction and never fails the request: the
	// stored row is the source of truth and can be re-sent.
	if !s.Gateway.SendCode(ctx, phoneNumber, code) {
		slogx.FromContext(ctx).Warn("otp delivery failed, code remains valid", "phone", phoneNumber)
	}

	return nil
}

// VerifyCode checks a submitted code and, on success, marks it used, upserts
// the user and issues a session. All of that runs in one transaction so a
// client retry after commit sees an already-used code rather than minting a
// second account or session.
func (s *OTPService) VerifyCode(
	ctx context.Context,
	phoneNumber, code, displayName, countryCode string,
) (domain.User, string, error) {
	if phoneNumber == "" || code == "" {
		return domain.User{}, "", ErrInvalidOrExpiredCode
	}

	var (
		user  domain.User
		token string
	)

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		now := time.Now().UTC()

		otc, err := tx.OneTimeCodes().GetActiveOneTimeCode(ctx, phoneNumber, code, now)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvalidOrExpiredCode
			}
			return err
		}

		if err := tx.OneTimeCodes().MarkOneTimeCodeUsed(ctx, otc.ID); err != nil {
			return fmt.Errorf("failed to mark code used: %w", err)
		}

		user, err = tx.Users().GetUserByPhone(ctx, phoneNumber)
		switch {
		case errors.Is(err, store.ErrNotFound):
			if displayName == "" {
				return ErrNameRequired
			}
			user = domain.User{
				ID:          idx.New().String(),
				PhoneNumber: phoneNumber,
				DisplayName: displayName,
				CountryCode: countryCode,
				IsVerified:  true,
				IsActive:    true,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := tx.Users().CreateUser(ctx, user); err != nil {
				return fmt.Errorf("failed to create user: %w", err)
			}
		case err != nil:
			return err
		default:
			if err := tx.Users().MarkUserVerified(ctx, user.ID); err != nil {
				return fmt.Errorf("failed to mark user verified: %w", err)
			}
			user.IsVerified = true
			user.IsActive = true
		}

		token, err = issueSession(ctx, tx, user.ID, domain.SubjectUser, s.userTTL())
		return err
	})
	if err != nil {
		return domain.User{}, "", err
	}

	return user, token, nil
}
