package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/focusloop/backend/domain"
	"github.com/focusloop/backend/repository"
)

type sessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository returns a Postgres-backed implementation of
// SessionRepository.
func NewSessionRepository(pool *pgxpool.Pool) repository.SessionRepository {
	return &sessionRepository{pool: pool}
}

func (r *sessionRepository) Create(ctx context.Context, session *domain.FocusSession) (*domain.FocusSession, error) {
	if session == nil || session.UserID == "" {
		return nil, domain.ErrInvalidPayload
	}
	if session.ID == "" {
		session.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO focus_sessions (id, user_id, item_id, started_at, ended_at, duration_minutes)
	VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6)
	`
	if _, err := r.pool.Exec(ctx, query,
		session.ID,
		session.UserID,
		session.ItemID,
		session.StartedAt,
		session.EndedAt,
		session.DurationMinutes,
	); err != nil {
		return nil, err
	}
	return session, nil
}

func (r *sessionRepository) Finish(ctx context.Context, userID, sessionID string, endedAt time.Time, durationMinutes int) error {
	const query = `
	UPDATE focus_sessions
	SET ended_at = $3, duration_minutes = $4
	WHERE id = $2 AND user_id = $1 AND ended_at IS NULL
	`
	tag, err := r.pool.Exec(ctx, query, userID, sessionID, endedAt, durationMinutes)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		// Either unknown or already finished; finished sessions are
		// immutable so a duplicate finish is not an error.
		const probe = `SELECT EXISTS (SELECT 1 FROM focus_sessions WHERE id = $2 AND user_id = $1)`
		var exists bool
		if err := r.pool.QueryRow(ctx, probe, userID, sessionID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return domain.ErrSessionNotFound
		}
	}
	return nil
}

func (r *sessionRepository) CountEndedBetween(ctx context.Context, userID string, from, to time.Time) (int, error) {
	const query = `
	SELECT COUNT(*) FROM focus_sessions
	WHERE user_id = $1 AND ended_at >= $2 AND ended_at < $3
	`
	var count int
	err := r.pool.QueryRow(ctx, query, userID, from, to).Scan(&count)
	return count, err
}

func (r *sessionRepository) EndTimes(ctx context.Context, userID string) ([]time.Time, error) {
	const query = `
	SELECT ended_at FROM focus_sessions
	WHERE user_id = $1 AND ended_at IS NOT NULL
	ORDER BY ended_at
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []time.Time
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *sessionRepository) TotalMinutes(ctx context.Context, userID string) (int, error) {
	const query = `
	SELECT COALESCE(SUM(duration_minutes), 0) FROM focus_sessions
	WHERE user_id = $1 AND ended_at IS NOT NULL
	`
	var total int
	err := r.pool.QueryRow(ctx, query, userID).Scan(&total)
	return total, err
}
