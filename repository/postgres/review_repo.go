package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/focusloop/backend/domain"
	"github.com/focusloop/backend/repository"
)

type reviewRepository struct {
	pool *pgxpool.Pool
}

// NewReviewRepository returns a Postgres-backed implementation of
// ReviewRepository. The reviews table carries a unique
// (user_id, type, period_end) constraint, so the append-only insert doubles
// as the once-per-period guard even under concurrent submissions.
func NewReviewRepository(pool *pgxpool.Pool) repository.ReviewRepository {
	return &reviewRepository{pool: pool}
}

func (r *reviewRepository) Create(ctx context.Context, record *domain.ReviewRecord) (*domain.ReviewRecord, error) {
	if record == nil || record.UserID == "" || !domain.ValidReviewType(record.Type) {
		return nil, domain.ErrInvalidPayload
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO reviews (id, user_id, type, period_start, period_end, payload, task_ids, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, COALESCE($8, NOW()))
	RETURNING created_at
	`
	if err := r.pool.QueryRow(ctx, query,
		record.ID,
		record.UserID,
		record.Type,
		record.PeriodStart,
		record.PeriodEnd,
		[]byte(record.Payload),
		record.TaskIDs,
		nullTime(record.CreatedAt),
	).Scan(&record.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrAlreadySubmitted
		}
		return nil, err
	}
	return record, nil
}

func (r *reviewRepository) Latest(ctx context.Context, userID, reviewType string) (*domain.ReviewRecord, error) {
	const query = `
	SELECT id, user_id, type, period_start, period_end, payload, task_ids, created_at
	FROM reviews
	WHERE user_id = $1 AND type = $2
	ORDER BY period_end DESC
	LIMIT 1
	`
	row := r.pool.QueryRow(ctx, query, userID, reviewType)

	var record domain.ReviewRecord
	var payload []byte

	if err := row.Scan(
		&record.ID,
		&record.UserID,
		&record.Type,
		&record.PeriodStart,
		&record.PeriodEnd,
		&payload,
		&record.TaskIDs,
		&record.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrReviewNotFound
		}
		return nil, err
	}

	record.Payload = payload
	return &record, nil
}

func (r *reviewRepository) ExistsInRange(ctx context.Context, userID, reviewType string, from, to time.Time) (bool, error) {
	const query = `
	SELECT EXISTS (
		SELECT 1 FROM reviews
		WHERE user_id = $1 AND type = $2 AND period_end >= $3 AND period_end < $4
	)
	`
	var exists bool
	err := r.pool.QueryRow(ctx, query, userID, reviewType, from, to).Scan(&exists)
	return exists, err
}

func (r *reviewRepository) PeriodStarts(ctx context.Context, userID, reviewType string) ([]time.Time, error) {
	const query = `
	SELECT period_start FROM reviews
	WHERE user_id = $1 AND type = $2
	ORDER BY period_start
	`
	rows, err := r.pool.Query(ctx, query, userID, reviewType)
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
