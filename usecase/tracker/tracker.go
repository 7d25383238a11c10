// Package tracker composes the day resolver, slot allocator, review
// scheduler and streak calculator behind the surface request handlers call.
package tracker

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/focusloop/backend/domain"
	"github.com/focusloop/backend/repository"
	"github.com/focusloop/backend/usecase/focus"
	"github.com/focusloop/backend/usecase/review"
	"github.com/focusloop/backend/usecase/streak"
	"github.com/focusloop/backend/usecase/timeday"
)

// Clock supplies "now" so tests can pin time without touching global state.
type Clock func() time.Time

type Service struct {
	items    repository.ItemRepository
	reviews  repository.ReviewRepository
	sessions repository.SessionRepository

	focus  *focus.UseCase
	review *review.UseCase

	clock  Clock
	logger *zap.Logger
}

func New(
	users repository.UserRepository,
	items repository.ItemRepository,
	reviews repository.ReviewRepository,
	sessions repository.SessionRepository,
	slotLimit int,
	clock Clock,
	logger *zap.Logger,
) *Service {
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		items:    items,
		reviews:  reviews,
		sessions: sessions,
		focus:    focus.New(items, slotLimit, logger),
		review:   review.New(users, reviews, sessions, items, logger),
		clock:    clock,
		logger:   logger,
	}
}

// ResolveToday returns the boundary of the current calendar day in tz.
func (s *Service) ResolveToday(tz string) (timeday.Boundary, error) {
	return timeday.DayBoundary(s.clock(), tz)
}

// TryAssignFocus flags an item for today, enforcing the slot cap.
func (s *Service) TryAssignFocus(ctx context.Context, userID, itemID, tz string) error {
	return s.focus.TryAssign(ctx, userID, itemID, tz, s.clock())
}

// ReleaseFocus moves an item out of focus into newStatus.
func (s *Service) ReleaseFocus(ctx context.Context, userID, itemID, newStatus string) error {
	return s.focus.Release(ctx, userID, itemID, newStatus, s.clock())
}

// ReviewStatus reports which checkpoints are currently due.
func (s *Service) ReviewStatus(ctx context.Context, userID string) (domain.ReviewStatus, error) {
	return s.review.Status(ctx, userID, s.clock())
}

// SubmitDailyReview records today's daily checkpoint.
func (s *Service) SubmitDailyReview(ctx context.Context, userID string, payload json.RawMessage, taskIDs []string, tz string) (*domain.ReviewRecord, error) {
	return s.review.SubmitDaily(ctx, userID, payload, taskIDs, tz, s.clock())
}

// SubmitWeeklyReview records the weekly checkpoint ending today.
func (s *Service) SubmitWeeklyReview(ctx context.Context, userID string, payload json.RawMessage, tz string) (*domain.ReviewRecord, error) {
	return s.review.SubmitWeekly(ctx, userID, payload, tz, s.clock())
}

// SubmitMonthlyReview records the monthly checkpoint ending today.
func (s *Service) SubmitMonthlyReview(ctx context.Context, userID string, payload json.RawMessage, tz string) (*domain.ReviewRecord, error) {
	return s.review.SubmitMonthly(ctx, userID, payload, tz, s.clock())
}

// ComputeGamification derives the user's streaks and milestones for now in
// tz. The five store reads are independent and read-only, so they run
// concurrently; the math itself stays deterministic.
func (s *Service) ComputeGamification(ctx context.Context, userID, tz string) (*domain.Gamification, error) {
	now := s.clock()
	today, err := timeday.CalendarLabel(now, tz)
	if err != nil {
		return nil, err
	}

	var (
		completions  []time.Time
		reviewStarts []time.Time
		sessionEnds  []time.Time
		tasksDone    int
		focusMinutes int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		completions, err = s.items.CompletionTimes(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		tasksDone, err = s.items.CountCompleted(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		reviewStarts, err = s.reviews.PeriodStarts(gctx, userID, domain.ReviewDaily)
		return err
	})
	g.Go(func() (err error) {
		sessionEnds, err = s.sessions.EndTimes(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		focusMinutes, err = s.sessions.TotalMinutes(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &domain.Gamification{
		TasksCompleted: tasksDone,
		FocusMinutes:   focusMinutes,
	}

	for _, src := range []struct {
		instants []time.Time
		target   *int
	}{
		{completions, &result.CompletionStreak},
		{reviewStarts, &result.DailyReviewStreak},
		{sessionEnds, &result.FocusDaysStreak},
	} {
		days, err := streak.DaySetFromInstants(src.instants, tz)
		if err != nil {
			return nil, err
		}
		if *src.target, err = streak.Current(days, today, tz); err != nil {
			return nil, err
		}
	}

	for _, m := range streak.Reached(tasksDone, focusMinutes) {
		result.MilestonesReached = append(result.MilestonesReached, m.Label)
	}

	s.logger.Debug("gamification computed",
		zap.String("user_id", userID),
		zap.Int("completion_streak", result.CompletionStreak),
		zap.Int("milestones", len(result.MilestonesReached)),
	)
	return result, nil
}
