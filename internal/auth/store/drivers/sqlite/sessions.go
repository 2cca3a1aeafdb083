package sqlite

import (
	"context"
	"time"

	"github.com/SatyaTirumalasetty/fractOwn-sub001/internal/auth/domain"
)

type sessionsRepo struct {
	db dbtx
}

func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.Session) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (id, token_hash, subject_id, subject_type, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		s.ID,
		s.TokenHash,
		s.SubjectID,
		s.SubjectType,
		s.ExpiresAt.UTC(),
		s.CreatedAt.UTC(),
	)
	return err
}

func (r *sessionsRepo) GetSessionByTokenHash(
	ctx context.Context,
	tokenHash string,
	now time.Time,
) (domain.Session, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, token_hash, subject_id, subject_type, expires_at, created_at
		FROM sessions
		WHERE token_hash = ? AND expires_at > ?`,
		tokenHash, now.UTC())

	var s domain.Session
	err := row.Scan(&s.ID, &s.TokenHash, &s.SubjectID, &s.SubjectType, &s.ExpiresAt, &s.CreatedAt)
	if err != nil {
		return domain.Session{}, mapNotFound(err)
	}
	return s, nil
}

func (r *sessionsRepo) DeleteSessionByTokenHash(ctx context.Context, tokenHash string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE token_hash = ?`, tokenHash)
	return err
}

func (r *sessionsRepo) DeleteSessionsForSubject(ctx context.Context, subjectID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE subject_id = ?`, subjectID)
	return err
}

func (r *sessionsRepo) DeleteExpiredSessions(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at <= ?`, time.Now().UTC())
	return err
}
