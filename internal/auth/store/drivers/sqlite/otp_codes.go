package sqlite

import (
	"context"
	"time"

	"github.com/SatyaTirumalasetty/fractOwn-sub001/internal/auth/domain"
)

type oneTimeCodesRepo struct {
	db dbtx
}

func (r *oneTimeCodesRepo) CreateOneTimeCode(ctx context.Context, c domain.OneTimeCode) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO otp_codes (id, phone_number, code, expires_at, used, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID,
		c.PhoneNumber,
		c.Code,
		c.ExpiresAt.UTC(),
		c.Used,
		c.CreatedAt.UTC(),
	)
	return err
}

func (r *oneTimeCodesRepo) GetActiveOneTimeCode(
	ctx context.Context,
	phoneNumber, code string,
	now time.Time,
) (domain.OneTimeCode, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, phone_number, code, expires_at, used, created_at
		FROM otp_codes
		WHERE phone_number = ? AND code = ? AND used = 0 AND expires_at > ?`,
		phoneNumber, code, now.UTC())

	var c domain.OneTimeCode
	err := row.Scan(&c.ID, &c.PhoneNumber, &c.Code, &c.ExpiresAt, &c.Used, &c.CreatedAt)
	if err != nil {
		return domain.OneTimeCode{}, mapNotFound(err)
	}
	return c, nil
}

func (r *oneTimeCodesRepo) MarkOneTimeCodeUsed(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE otp_codes SET used = 1 WHERE id = ?`, id)
	return err
}

func (r *oneTimeCodesRepo) DeleteCodesForPhone(ctx context.Context, phoneNumber string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM otp_codes WHERE phone_number = ?`, phoneNumber)
	return err
}

func (r *oneTimeCodesRepo) DeleteExpiredOneTimeCodes(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM otp_codes WHERE expires_at <= ?`, time.Now().UTC())
	return err
}
