package store

import (
	"context"
	"errors"
	"time"

	"github.com/SatyaTirumalasetty/fractOwn-sub001/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite,
// postgres) implement this. It exposes sub-repositories to keep concerns tidy
// and testable, and to actively stop callers from accidentally nesting
// transactions.
type Store interface {
	Users() Users
	Admins() Admins
	OneTimeCodes() OneTimeCodes
	BackupCodes() BackupCodes
	Sessions() Sessions

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// Use it for multi-step operations that must be atomic (e.g., OTP verify
	// plus session issuance). The caller MUST call Commit() or Rollback() on
	// the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// This is the recommended way to handle transactions as it automatically
	// handles commit/rollback logic.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources (optional for sqlite).
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByPhone returns a user by phone number.
	GetUserByPhone(ctx context.Context, phoneNumber string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	CreateUser(ctx context.Context, u domain.User) error

	// MarkUserVerified flips is_verified and is_active true and bumps updated_at.
	MarkUserVerified(ctx context.Context, userID string) error

	// UpdateUserEmail sets the email and bumps updated_at.
	UpdateUserEmail(ctx context.Context, userID string, email string) error
}

type Admins interface {
	// GetAdminByID returns an admin by id.
	GetAdminByID(ctx context.Context, id string) (domain.Admin, error)

	// GetAdminByUsername is used during password login and password reset.
	GetAdminByUsername(ctx context.Context, username string) (domain.Admin, error)

	// CreateAdmin inserts a new admin (id is ULID).
	CreateAdmin(ctx context.Context, a domain.Admin) error

	// UpdateAdminPasswordHash sets the password_hash (argon2) and bumps updated_at.
	UpdateAdminPasswordHash(ctx context.Context, adminID string, newHash string) error

	// UpdateMFAPendingSecret sets the unconfirmed TOTP secret for an admin.
	// Does not touch the confirmed secret.
	UpdateMFAPendingSecret(ctx context.Context, adminID string, secret string) error

	// EnableMFA promotes the pending secret to the confirmed slot and sets
	// the mfa_enabled timestamp, in a single statement.
	EnableMFA(ctx context.Context, adminID string) error

	// DisableMFA clears mfa_enabled and both secret slots.
	DisableMFA(ctx context.Context, adminID string) error

	// IsEmpty returns true if there are no admins.
	IsEmpty(ctx context.Context) (bool, error)
}

type OneTimeCodes interface {
	// CreateOneTimeCode stores a freshly generated code.
	CreateOneTimeCode(ctx context.Context, c domain.OneTimeCode) error

	// GetActiveOneTimeCode returns the not-used, not-expired code matching
	// phone+code, evaluated against the supplied instant.
	GetActiveOneTimeCode(ctx context.Context, phoneNumber, code string, now time.Time) (domain.OneTimeCode, error)

	// MarkOneTimeCodeUsed flips used=1 so the code cannot verify again.
	MarkOneTimeCodeUsed(ctx context.Context, id string) error

	// DeleteCodesForPhone removes all codes for a phone number (run before
	// inserting a replacement so only one pending code exists per number).
	DeleteCodesForPhone(ctx context.Context, phoneNumber string) error

	// DeleteExpiredOneTimeCodes is housekeeping.
	DeleteExpiredOneTimeCodes(ctx context.Context) error
}

type BackupCodes interface {
	// CreateBackupCode stores a backup code hash for an admin.
	CreateBackupCode(ctx context.Context, adminID string, codeHash string) error

	// ConsumeBackupCode deletes the matching backup code and reports whether a
	// row was deleted. Match and removal are a single statement so the same
	// code cannot authorize two concurrent requests.
	ConsumeBackupCode(ctx context.Context, adminID string, codeHash string) (bool, error)

	// DeleteAllBackupCodes removes all backup codes for an admin.
	DeleteAllBackupCodes(ctx context.Context, adminID string) error

	// CountBackupCodes returns the number of backup codes for an admin.
	CountBackupCodes(ctx context.Context, adminID string) (int, error)
}

type Sessions interface {
	// CreateSession stores a new session record (token already fingerprinted).
	CreateSession(ctx context.Context, s domain.Session) error

	// GetSessionByTokenHash returns the not-expired session by token hash,
	// evaluated against the supplied instant.
	GetSessionByTokenHash(ctx context.Context, tokenHash string, now time.Time) (domain.Session, error)

	// DeleteSessionByTokenHash removes a session; deleting a missing row is
	// not an error (logout is idempotent).
	DeleteSessionByTokenHash(ctx context.Context, tokenHash string) error

	// DeleteSessionsForSubject bulk revocation (e.g., password reset).
	DeleteSessionsForSubject(ctx context.Context, subjectID string) error

	// DeleteExpiredSessions is housekeeping.
	DeleteExpiredSessions(ctx context.Context) error
}
