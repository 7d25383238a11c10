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

type itemRepository struct {
	pool *pgxpool.Pool
}

// NewItemRepository returns a Postgres-backed implementation of
// ItemRepository.
func NewItemRepository(pool *pgxpool.Pool) repository.ItemRepository {
	return &itemRepository{pool: pool}
}

func (r *itemRepository) GetByID(ctx context.Context, userID, itemID string) (*domain.FocusItem, error) {
	const query = `
	SELECT id, user_id, title, status, COALESCE(focus_day, ''), goal_minutes, completed_at, created_at, updated_at
	FROM items
	WHERE id = $2 AND user_id = $1
	`
	row := r.pool.QueryRow(ctx, query, userID, itemID)
	return scanItem(row)
}

func (r *itemRepository) List(ctx context.Context, filter repository.ItemFilter) ([]domain.FocusItem, error) {
	const query = `
	SELECT id, user_id, title, status, COALESCE(focus_day, ''), goal_minutes, completed_at, created_at, updated_at
	FROM items
	WHERE ($1 = '' OR user_id = $1)
	  AND ($2 = '' OR status = $2)
	ORDER BY created_at
	LIMIT $3 OFFSET $4
	`
	rows, err := r.pool.Query(ctx, query, filter.UserID, filter.Status, clampLimit(filter.Limit), filter.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.FocusItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (r *itemRepository) Create(ctx context.Context, item *domain.FocusItem) (*domain.FocusItem, error) {
	if item == nil || item.UserID == "" {
		return nil, domain.ErrInvalidPayload
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.Status == "" {
		item.Status = domain.StatusBacklog
	}

	const query = `
	INSERT INTO items (id, user_id, title, status, focus_day, goal_minutes, completed_at)
	VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7)
	RETURNING created_at, updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		item.ID,
		item.UserID,
		item.Title,
		item.Status,
		item.FocusDay,
		item.GoalMinutes,
		item.CompletedAt,
	).Scan(&item.CreatedAt, &item.UpdatedAt); err != nil {
		return nil, err
	}
	return item, nil
}

// AssignFocus runs the count-then-write inside one transaction. The user
// row is locked first so concurrent assigns for the same user serialize and
// the recount always sees every committed slot; the whole transaction rolls
// back on any error.
func (r *itemRepository) AssignFocus(ctx context.Context, userID, itemID, day string, limit int) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var lockedID string
	if err := tx.QueryRow(ctx,
		`SELECT id FROM users WHERE id = $1 FOR UPDATE`, userID,
	).Scan(&lockedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrUserNotFound
		}
		return err
	}

	var status, focusDay string
	if err := tx.QueryRow(ctx,
		`SELECT status, COALESCE(focus_day, '') FROM items WHERE id = $2 AND user_id = $1`,
		userID, itemID,
	).Scan(&status, &focusDay); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrItemNotFound
		}
		return err
	}
	if status == domain.StatusFocus && focusDay == day {
		return tx.Commit(ctx)
	}

	var count int
	if err := tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM items WHERE user_id = $1 AND status = $2 AND focus_day = $3`,
		userID, domain.StatusFocus, day,
	).Scan(&count); err != nil {
		return err
	}
	if count >= limit {
		return domain.ErrSlotsExhausted
	}

	if _, err := tx.Exec(ctx,
		`UPDATE items
		SET status = $3, focus_day = $4, goal_minutes = NULL, updated_at = NOW()
		WHERE id = $2 AND user_id = $1`,
		userID, itemID, domain.StatusFocus, day,
	); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *itemRepository) ReleaseFocus(ctx context.Context, userID, itemID, newStatus string, completedAt time.Time) error {
	const query = `
	UPDATE items
	SET status = $3,
		focus_day = NULL,
		goal_minutes = NULL,
		completed_at = CASE
			WHEN $3 = 'done' AND completed_at IS NULL THEN $4
			ELSE completed_at
		END,
		updated_at = NOW()
	WHERE id = $2 AND user_id = $1
	`
	tag, err := r.pool.Exec(ctx, query, userID, itemID, newStatus, completedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

func (r *itemRepository) CountFocused(ctx context.Context, userID, day string) (int, error) {
	const query = `
	SELECT COUNT(*) FROM items
	WHERE user_id = $1 AND status = $2 AND focus_day = $3
	`
	var count int
	err := r.pool.QueryRow(ctx, query, userID, domain.StatusFocus, day).Scan(&count)
	return count, err
}

func (r *itemRepository) ListFocusedIDs(ctx context.Context, userID, day string) ([]string, error) {
	const query = `
	SELECT id FROM items
	WHERE user_id = $1 AND status = $2 AND focus_day = $3
	ORDER BY id
	`
	rows, err := r.pool.Query(ctx, query, userID, domain.StatusFocus, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *itemRepository) CompletionTimes(ctx context.Context, userID string) ([]time.Time, error) {
	const query = `
	SELECT completed_at FROM items
	WHERE user_id = $1 AND completed_at IS NOT NULL
	ORDER BY completed_at
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

func (r *itemRepository) CountCompleted(ctx context.Context, userID string) (int, error) {
	const query = `
	SELECT COUNT(*) FROM items
	WHERE user_id = $1 AND completed_at IS NOT NULL
	`
	var count int
	err := r.pool.QueryRow(ctx, query, userID).Scan(&count)
	return count, err
}

func scanItem(row interface {
	Scan(dest ...interface{}) error
}) (*domain.FocusItem, error) {
	var item domain.FocusItem
	var (
		goal      *int
		completed *time.Time
	)

	if err := row.Scan(
		&item.ID,
		&item.UserID,
		&item.Title,
		&item.Status,
		&item.FocusDay,
		&goal,
		&completed,
		&item.CreatedAt,
		&item.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrItemNotFound
		}
		return nil, err
	}

	item.GoalMinutes = goal
	item.CompletedAt = completed
	return &item, nil
}
