package sqlite

import (
	"context"
	"time"
)

type backupCodesRepo struct {
	db dbtx
}

func (r *backupCodesRepo) CreateBackupCode(ctx context.Context, adminID string, codeHash string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO backup_codes (admin_id, code_hash, created_at)
		VALUES (?, ?, ?)`,
		adminID, codeHash, time.Now().UTC())
	return err
}

// ConsumeBackupCode deletes the matching row and reports whether one existed.
// Delete-and-check keeps match and consumption a single statement, so two
// concurrent requests cannot both spend the same code.
func (r *backupCodesRepo) ConsumeBackupCode(ctx context.Context, adminID string, codeHash string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM backup_codes WHERE admin_id = ? AND code_hash = ?`,
		adminID, codeHash)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *backupCodesRepo) DeleteAllBackupCodes(ctx context.Context, adminID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM backup_codes WHERE admin_id = ?`, adminID)
	return err
}

func (r *backupCodesRepo) CountBackupCodes(ctx context.Context, adminID string) (int, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM backup_codes WHERE admin_id = ?`, adminID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return int(count), nil
}
