// Package focus enforces the per-day focus slot cap.
package focus

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/focusloop/backend/domain"
	"github.com/focusloop/backend/repository"
	"github.com/focusloop/backend/usecase/timeday"
)

type UseCase struct {
	items  repository.ItemRepository
	limit  int
	logger *zap.Logger
}

// New builds the allocator. A non-positive limit falls back to
// domain.FocusSlotLimit.
func New(items repository.ItemRepository, limit int, logger *zap.Logger) *UseCase {
	if limit <= 0 {
		limit = domain.FocusSlotLimit
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		items:  items,
		limit:  limit,
		logger: logger,
	}
}

// TryAssign flags an item as focused for the caller's current calendar day
// in tz. Re-assigning an item already focused for today succeeds without
// consuming a slot. When all slots are taken it fails with
// domain.ErrSlotsExhausted; the count-then-write runs atomically in the
// store, so concurrent calls cannot overshoot the cap.
func (uc *UseCase) TryAssign(ctx context.Context, userID, itemID, tz string, now time.Time) error {
	today, err := timeday.CalendarLabel(now, tz)
	if err != nil {
		return err
	}

	item, err := uc.items.GetByID(ctx, userID, itemID)
	if err != nil {
		return err
	}
	if item.InFocusOn(today) {
		return nil
	}

	if err := uc.items.AssignFocus(ctx, userID, itemID, today, uc.limit); err != nil {
		return err
	}

	uc.logger.Debug("focus slot assigned",
		zap.String("user_id", userID),
		zap.String("item_id", itemID),
		zap.String("day", today),
	)
	return nil
}

// Release always succeeds for a known item: it moves the item to newStatus
// and clears the focus day and any per-item goal.
func (uc *UseCase) Release(ctx context.Context, userID, itemID, newStatus string, now time.Time) error {
	if !domain.ValidReleaseStatus(newStatus) {
		return domain.WrapError(domain.ErrCodeInvalid, fmt.Sprintf("invalid release status %q", newStatus), nil)
	}
	if err := uc.items.ReleaseFocus(ctx, userID, itemID, newStatus, now); err != nil {
		return err
	}
	uc.logger.Debug("focus slot released",
		zap.String("user_id", userID),
		zap.String("item_id", itemID),
		zap.String("status", newStatus),
	)
	return nil
}

// OccupiedSlots reports how many slots the user holds for today in tz.
func (uc *UseCase) OccupiedSlots(ctx context.Context, userID, tz string, now time.Time) (int, error) {
	today, err := timeday.CalendarLabel(now, tz)
	if err != nil {
		return 0, err
	}
	return uc.items.CountFocused(ctx, userID, today)
}

// Limit exposes the configured slot cap.
func (uc *UseCase) Limit() int {
	return uc.limit
}
