package repository

import (
	"context"
	"time"

	"github.com/focusloop/backend/domain"
)

type ItemFilter struct {
	UserID string
	Status string
	Limit  int
	Offset int
}

// ItemRepository is the backing-store contract for work-item projections.
//
// AssignFocus is the one write that needs store-level atomicity: the
// implementation must recount occupied slots for (userID, day) and flip the
// item to focus in a single transaction or conditional write, so that two
// concurrent calls observing count = limit-1 cannot both commit. It returns
// domain.ErrSlotsExhausted when the limit is hit and domain.ErrItemNotFound
// when the item does not exist for the user. An item already holding a slot
// for day is a no-op success inside the same transaction, so duplicate calls
// can never consume two slots. Assigning clears any goal left over from a
// previous day.
type ItemRepository interface {
	GetByID(ctx context.Context, userID, itemID string) (*domain.FocusItem, error)
	List(ctx context.Context, filter ItemFilter) ([]domain.FocusItem, error)
	Create(ctx context.Context, item *domain.FocusItem) (*domain.FocusItem, error)

	AssignFocus(ctx context.Context, userID, itemID, day string, limit int) error
	ReleaseFocus(ctx context.Context, userID, itemID, newStatus string, completedAt time.Time) error

	CountFocused(ctx context.Context, userID, day string) (int, error)
	ListFocusedIDs(ctx context.Context, userID, day string) ([]string, error)

	// CompletionTimes returns the completed_at instants of the user's items,
	// CountCompleted their count. completed_at is never cleared once set, so
	// both are monotonic event logs.
	CompletionTimes(ctx context.Context, userID string) ([]time.Time, error)
	CountCompleted(ctx context.Context, userID string) (int, error)
}
