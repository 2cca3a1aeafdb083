package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/SatyaTirumalasetty/fractOwn-sub001/internal/auth/domain"
)

type usersRepo struct {
	db dbtx
}

const userColumns = `id, phone_number, display_name, country_code, email, is_verified, is_active, created_at, updated_at`

func scanUser(row *sql.Row) (domain.User, error) {
	var u domain.User
	var email sql.NullString
	err := row.Scan(
		&u.ID,
		&u.PhoneNumber,
		&u.DisplayName,
		&u.CountryCode,
		&email,
		&u.IsVerified,
		&u.IsActive,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	u.Email = mapNullString(email)
	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *usersRepo) GetUserByPhone(ctx context.Context, phoneNumber string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE phone_number = ?`, phoneNumber)
	return scanUser(row)
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = now
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, phone_number, display_name, country_code, email, is_verified, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID,
		u.PhoneNumber,
		u.DisplayName,
		u.CountryCode,
		mapStringNull(u.Email),
		u.IsVerified,
		u.IsActive,
		u.CreatedAt.UTC(),
		u.UpdatedAt.UTC(),
	)
	return err
}

func (r *usersRepo) MarkUserVerified(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users SET is_verified = 1, is_active = 1, updated_at = ? WHERE id = ?`,
		time.Now().UTC(), userID)
	return err
}

func (r *usersRepo) UpdateUserEmail(ctx context.Context, userID string, email string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users SET email = ?, updated_at = ? WHERE id = ?`,
		mapStringNull(email), time.Now().UTC(), userID)
	return err
}
