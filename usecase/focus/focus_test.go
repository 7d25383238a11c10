package focus

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/focusloop/backend/domain"
	"github.com/focusloop/backend/repository"
	"github.com/focusloop/backend/repository/memory"
)

func newFixture(t *testing.T) (*UseCase, repository.ItemRepository) {
	t.Helper()
	store := memory.NewStore()
	return New(store.Items(), 0, nil), store.Items()
}

func createItem(t *testing.T, items repository.ItemRepository, userID, itemID string) {
	t.Helper()
	_, err := items.Create(context.Background(), &domain.FocusItem{
		ID:     itemID,
		UserID: userID,
		Title:  "item " + itemID,
	})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
}

func TestTryAssignEnforcesSlotLimit(t *testing.T) {
	uc, items := newFixture(t)
	ctx := context.Background()
	now := time.Date(2024, 5, 15, 18, 0, 0, 0, time.UTC)

	for i := 0; i < 4; i++ {
		createItem(t, items, "u1", fmt.Sprintf("item-%d", i))
	}

	for i := 0; i < 3; i++ {
		if err := uc.TryAssign(ctx, "u1", fmt.Sprintf("item-%d", i), "UTC", now); err != nil {
			t.Fatalf("assign %d: %v", i, err)
		}
	}

	err := uc.TryAssign(ctx, "u1", "item-3", "UTC", now)
	if !errors.Is(err, domain.ErrSlotsExhausted) {
		t.Fatalf("expected slots exhausted, got %v", err)
	}

	// Releasing one slot makes room again.
	if err := uc.Release(ctx, "u1", "item-0", domain.StatusDone, now); err != nil {
		t.Fatalf("release: %v", err)
	}
	count, err := uc.OccupiedSlots(ctx, "u1", "UTC", now)
	if err != nil {
		t.Fatalf("occupied slots: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 occupied slots after release, got %d", count)
	}
	if err := uc.TryAssign(ctx, "u1", "item-3", "UTC", now); err != nil {
		t.Fatalf("assign after release: %v", err)
	}
}

func TestTryAssignIsIdempotent(t *testing.T) {
	uc, items := newFixture(t)
	ctx := context.Background()
	now := time.Date(2024, 5, 15, 18, 0, 0, 0, time.UTC)

	createItem(t, items, "u1", "item-a")

	if err := uc.TryAssign(ctx, "u1", "item-a", "UTC", now); err != nil {
		t.Fatalf("first assign: %v", err)
	}
	if err := uc.TryAssign(ctx, "u1", "item-a", "UTC", now); err != nil {
		t.Fatalf("duplicate assign should be a no-op, got %v", err)
	}

	count, err := uc.OccupiedSlots(ctx, "u1", "UTC", now)
	if err != nil {
		t.Fatalf("occupied slots: %v", err)
	}
	if count != 1 {
		t.Fatalf("duplicate assign consumed a slot: count %d", count)
	}
}

func TestTryAssignUsesLocalCalendarDay(t *testing.T) {
	uc, items := newFixture(t)
	ctx := context.Background()
	// 13:00 UTC on June 1st is already June 2nd in Auckland.
	now := time.Date(2024, 6, 1, 13, 0, 0, 0, time.UTC)

	createItem(t, items, "u1", "item-a")
	if err := uc.TryAssign(ctx, "u1", "item-a", "Pacific/Auckland", now); err != nil {
		t.Fatalf("assign: %v", err)
	}

	item, err := items.GetByID(ctx, "u1", "item-a")
	if err != nil {
		t.Fatalf("get item: %v", err)
	}
	if item.FocusDay != "2024-06-02" {
		t.Fatalf("expected focus day 2024-06-02, got %q", item.FocusDay)
	}
}

func TestTryAssignInvalidTimezone(t *testing.T) {
	uc, items := newFixture(t)
	createItem(t, items, "u1", "item-a")

	err := uc.TryAssign(context.Background(), "u1", "item-a", "Not/AZone", time.Now())
	if !domain.IsDomainError(err, domain.ErrCodeInvalidTimezone) {
		t.Fatalf("expected invalid timezone error, got %v", err)
	}
}

func TestReleaseClearsDayAndGoal(t *testing.T) {
	uc, items := newFixture(t)
	ctx := context.Background()
	now := time.Date(2024, 5, 15, 18, 0, 0, 0, time.UTC)

	goal := 45
	if _, err := items.Create(ctx, &domain.FocusItem{
		ID:          "item-a",
		UserID:      "u1",
		Status:      domain.StatusFocus,
		FocusDay:    "2024-05-15",
		GoalMinutes: &goal,
	}); err != nil {
		t.Fatalf("create item: %v", err)
	}

	if err := uc.Release(ctx, "u1", "item-a", domain.StatusDone, now); err != nil {
		t.Fatalf("release: %v", err)
	}

	item, err := items.GetByID(ctx, "u1", "item-a")
	if err != nil {
		t.Fatalf("get item: %v", err)
	}
	if item.Status != domain.StatusDone {
		t.Fatalf("expected status done, got %q", item.Status)
	}
	if item.FocusDay != "" {
		t.Fatalf("expected cleared focus day, got %q", item.FocusDay)
	}
	if item.GoalMinutes != nil {
		t.Fatalf("expected cleared goal, got %d", *item.GoalMinutes)
	}
	if item.CompletedAt == nil || !item.CompletedAt.Equal(now) {
		t.Fatalf("expected completion at %v, got %v", now, item.CompletedAt)
	}
}

func TestReleaseRejectsUnknownStatus(t *testing.T) {
	uc, items := newFixture(t)
	createItem(t, items, "u1", "item-a")

	err := uc.Release(context.Background(), "u1", "item-a", "archived", time.Now())
	if !domain.IsDomainError(err, domain.ErrCodeInvalid) {
		t.Fatalf("expected invalid status error, got %v", err)
	}
}

func TestConcurrentTryAssignNeverOvershoots(t *testing.T) {
	uc, items := newFixture(t)
	ctx := context.Background()
	now := time.Date(2024, 5, 15, 18, 0, 0, 0, time.UTC)

	const attempts = 16
	for i := 0; i < attempts; i++ {
		createItem(t, items, "u1", fmt.Sprintf("item-%d", i))
	}

	var (
		wg        sync.WaitGroup
		succeeded atomic.Int32
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			err := uc.TryAssign(ctx, "u1", id, "UTC", now)
			switch {
			case err == nil:
				succeeded.Add(1)
			case errors.Is(err, domain.ErrSlotsExhausted):
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(fmt.Sprintf("item-%d", i))
	}
	wg.Wait()

	if got := succeeded.Load(); got != domain.FocusSlotLimit {
		t.Fatalf("expected exactly %d successful assigns, got %d", domain.FocusSlotLimit, got)
	}
	count, err := uc.OccupiedSlots(ctx, "u1", "UTC", now)
	if err != nil {
		t.Fatalf("occupied slots: %v", err)
	}
	if count != domain.FocusSlotLimit {
		t.Fatalf("invariant violated: %d slots occupied", count)
	}
}
