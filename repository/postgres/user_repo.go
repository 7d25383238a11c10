package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/focusloop/backend/domain"
	"github.com/focusloop/backend/repository"
)

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository instantiates a Postgres-backed user repository.
func NewUserRepository(pool *pgxpool.Pool) repository.UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const query = `
	SELECT id, timezone, COALESCE(anchor_at, 'epoch'::timestamptz), created_at, updated_at
	FROM users
	WHERE id = $1
	`
	row := r.pool.QueryRow(ctx, query, id)

	var user domain.User
	var anchor time.Time

	if err := row.Scan(&user.ID, &user.Timezone, &anchor, &user.CreatedAt, &user.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	if anchor.Unix() != 0 {
		user.AnchorAt = anchor
	}
	return &user, nil
}

func (r *userRepository) Upsert(ctx context.Context, user *domain.User) error {
	if user == nil || user.ID == "" {
		return domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO users (id, timezone, anchor_at, created_at, updated_at)
	VALUES ($1, $2, $3, COALESCE($4, NOW()), NOW())
	ON CONFLICT (id) DO UPDATE
	SET timezone = EXCLUDED.timezone,
		anchor_at = EXCLUDED.anchor_at,
		updated_at = NOW()
	RETURNING created_at, updated_at
	`

	return r.pool.QueryRow(ctx, query,
		user.ID,
		user.Timezone,
		nullTime(user.AnchorAt),
		nullTime(user.CreatedAt),
	).Scan(&user.CreatedAt, &user.UpdatedAt)
}
