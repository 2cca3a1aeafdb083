package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SatyaTirumalasetty/fractOwn-sub001/internal/auth/domain"
	"github.com/SatyaTirumalasetty/fractOwn-sub001/internal/auth/store"
	"github.com/SatyaTirumalasetty/fractOwn-sub001/pkg/cryptox"
	"github.com/SatyaTirumalasetty/fractOwn-sub001/pkg/idx"
)

const (
	// DefaultUserSessionTTL is the fixed lifetime of a session issued on OTP login.
	DefaultUserSessionTTL = 24 * time.Hour
	// DefaultAdminSessionTTL is the fixed lifetime of an admin session.
	DefaultAdminSessionTTL = 12 * time.Hour
)

// ErrSessionInvalid is returned for every session validation failure: never
// issued, expired, revoked, or bound to an inactive subject. The cases are
// deliberately indistinguishable to the caller.
var ErrSessionInvalid = errors.New("session_invalid")

type SessionService struct {
	Store    store.Store
	UserTTL  time.Duration
	AdminTTL time.Duration
}

// issueSession mints an opaque 256-bit token, persists its fingerprint
// against the subject and returns the token. The plaintext token exists only
// in this return value; storage holds the hash.
//
// st may be a Tx so issuance can share a transaction with the operation that
// authenticated the subject (e.g. marking an OTP used).
func issueSession(
	ctx context.Context,
	st store.Store,
	subjectID, subjectType string,
	ttl time.Duration,
) (string, error) {
	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}

	session := domain.Session{
		ID:          idx.New().String(),
		TokenHash:   cryptox.FingerprintToken(token),
		SubjectID:   subjectID,
		SubjectType: subjectType,
		ExpiresAt:   time.Now().UTC().Add(ttl),
	}
	if err := st.Sessions().CreateSession(ctx, session); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}

	return token, nil
}

// ttlFor returns the configured lifetime for a subject type.
func (s *SessionService) ttlFor(subjectType string) time.Duration {
	switch subjectType {
	case domain.SubjectAdmin:
		if s.AdminTTL > 0 {
			return s.AdminTTL
		}
		return DefaultAdminSessionTTL
	default:
		if s.UserTTL > 0 {
			return s.UserTTL
		}
		return DefaultUserSessionTTL
	}
}

// Issue creates a session for the given subject. No sliding expiration: the
// lifetime is fixed at issuance.
func (s *SessionService) Issue(ctx context.Context, subjectID, subjectType string) (string, error) {
	return issueSession(ctx, s.Store, subjectID, subjectType, s.ttlFor(subjectType))
}

// Validate resolves a token to its subject. For user sessions the user must
// still be active. All failures collapse to ErrSessionInvalid except genuine
// storage faults, which are surfaced so the caller can retry.
func (s *SessionService) Validate(ctx context.Context, token string) (domain.SessionSubject, error) {
	if token == "" {
		return domain.SessionSubject{}, ErrSessionInvalid
	}

	session, err := s.Store.Sessions().GetSessionByTokenHash(ctx, cryptox.FingerprintToken(token), time.Now().UTC())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.SessionSubject{}, ErrSessionInvalid
		}
		return domain.SessionSubject{}, err
	}

	if session.SubjectType == domain.SubjectUser {
		user, err := s.Store.Users().GetUserByID(ctx, session.SubjectID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return domain.SessionSubject{}, ErrSessionInvalid
			}
			return domain.SessionSubject{}, err
		}
		if !user.IsActive {
			return domain.SessionSubject{}, ErrSessionInvalid
		}
	}

	return domain.SessionSubject{
		SubjectID:   session.SubjectID,
		SubjectType: session.SubjectType,
		ExpiresAt:   session.ExpiresAt,
	}, nil
}

// Revoke deletes the session row. Revoking a token that was never issued or
// is already gone is not an error.
func (s *SessionService) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.Store.Sessions().DeleteSessionByTokenHash(ctx, cryptox.FingerprintToken(token))
}
