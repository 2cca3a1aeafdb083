package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/SatyaTirumalasetty/fractOwn-sub001/internal/auth/domain"
)

type adminsRepo struct {
	db dbtx
}

const adminColumns = `id, username, password_hash, mfa_secret, mfa_pending_secret, mfa_enabled, created_at, updated_at`

func scanAdmin(row *sql.Row) (domain.Admin, error) {
	var a domain.Admin
	var mfaSecret, mfaPending sql.NullString
	var mfaEnabled sql.NullTime
	err := row.Scan(
		&a.ID,
		&a.Username,
		&a.PasswordHash,
		&mfaSecret,
		&mfaPending,
		&mfaEnabled,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return domain.Admin{}, mapNotFound(err)
	}
	if mfaSecret.Valid {
		a.MFASecret = &mfaSecret.String
	}
	if mfaPending.Valid {
		a.MFAPendingSecret = &mfaPending.String
	}
	if mfaEnabled.Valid {
		a.MFAEnabled = &mfaEnabled.Time
	}
	return a, nil
}

func (r *adminsRepo) GetAdminByID(ctx context.Context, id string) (domain.Admin, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+adminColumns+` FROM admins WHERE id = ?`, id)
	return scanAdmin(row)
}

func (r *adminsRepo) GetAdminByUsername(ctx context.Context, username string) (domain.Admin, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+adminColumns+` FROM admins WHERE username = ?`, username)
	return scanAdmin(row)
}

func (r *adminsRepo) CreateAdmin(ctx context.Context, a domain.Admin) error {
	now := time.Now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = now
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO admins (id, username, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		a.ID,
		a.Username,
		a.PasswordHash,
		a.CreatedAt.UTC(),
		a.UpdatedAt.UTC(),
	)
	return err
}

func (r *adminsRepo) UpdateAdminPasswordHash(ctx context.Context, adminID string, newHash string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE admins SET password_hash = ?, updated_at = ? WHERE id = ?`,
		newHash, time.Now().UTC(), adminID)
	return err
}

func (r *adminsRepo) UpdateMFAPendingSecret(ctx context.Context, adminID string, secret string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE admins SET mfa_pending_secret = ?, updated_at = ? WHERE id = ?`,
		mapStringNull(secret), time.Now().UTC(), adminID)
	return err
}

// EnableMFA promotes the pending secret in a single statement so confirmation
// cannot observe a half-swapped credential.
func (r *adminsRepo) EnableMFA(ctx context.Context, adminID string) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		UPDATE admins
		SET mfa_secret = mfa_pending_secret, mfa_pending_secret = NULL, mfa_enabled = ?, updated_at = ?
		WHERE id = ? AND mfa_pending_secret IS NOT NULL`,
		now, now, adminID)
	return err
}

func (r *adminsRepo) DisableMFA(ctx context.Context, adminID string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE admins
		SET mfa_enabled = NULL, mfa_secret = NULL, mfa_pending_secret = NULL, updated_at = ?
		WHERE id = ?`,
		time.Now().UTC(), adminID)
	return err
}

func (r *adminsRepo) IsEmpty(ctx context.Context) (bool, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM admins`).Scan(&count)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}
