// Package review decides when daily, weekly and monthly checkpoints become
// due and guards their submission.
//
// Per type and period the machine is Due -> Submitted: a valid create makes
// the record historical and immutable, and the type returns to Due only once
// its recurrence re-triggers (next calendar day, +7 calendar days, +30
// calendar days). There is no rollback path.
package review

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/focusloop/backend/domain"
	"github.com/focusloop/backend/repository"
	"github.com/focusloop/backend/usecase/timeday"
)

const (
	weeklyIntervalDays  = 7
	monthlyIntervalDays = 30
)

type UseCase struct {
	users    repository.UserRepository
	reviews  repository.ReviewRepository
	sessions repository.SessionRepository
	items    repository.ItemRepository
	logger   *zap.Logger
}

func New(
	users repository.UserRepository,
	reviews repository.ReviewRepository,
	sessions repository.SessionRepository,
	items repository.ItemRepository,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:    users,
		reviews:  reviews,
		sessions: sessions,
		items:    items,
		logger:   logger,
	}
}

// Status reports which checkpoints are due for the user at now. The user's
// timezone is read fresh from the store on every call.
func (uc *UseCase) Status(ctx context.Context, userID string, now time.Time) (domain.ReviewStatus, error) {
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return domain.ReviewStatus{}, err
	}

	today, err := timeday.DayBoundary(now, user.Timezone)
	if err != nil {
		return domain.ReviewStatus{}, err
	}

	var status domain.ReviewStatus

	if status.DailyRequired, err = uc.dailyRequired(ctx, userID, today); err != nil {
		return domain.ReviewStatus{}, err
	}
	if status.WeeklyRequired, err = uc.weeklyRequired(ctx, user, today); err != nil {
		return domain.ReviewStatus{}, err
	}
	if status.MonthlyRequired, err = uc.monthlyRequired(ctx, user, today); err != nil {
		return domain.ReviewStatus{}, err
	}
	return status, nil
}

// dailyRequired: at least one focus session ended today and no daily record
// covers today. The same existence query backs the submission guard, so the
// two can never disagree.
func (uc *UseCase) dailyRequired(ctx context.Context, userID string, today timeday.Boundary) (bool, error) {
	ended, err := uc.sessions.CountEndedBetween(ctx, userID, today.Start, today.End)
	if err != nil {
		return false, err
	}
	if ended == 0 {
		return false, nil
	}
	submitted, err := uc.reviews.ExistsInRange(ctx, userID, domain.ReviewDaily, today.Start, today.End)
	if err != nil {
		return false, err
	}
	return !submitted, nil
}

// weeklyRequired: due once today's start reaches the last weekly period end
// plus seven calendar days. With no weekly record yet, the user's anchor
// instant seeds the interval.
func (uc *UseCase) weeklyRequired(ctx context.Context, user *domain.User, today timeday.Boundary) (bool, error) {
	last, err := uc.reviews.Latest(ctx, user.ID, domain.ReviewWeekly)
	switch {
	case err == nil:
		return uc.intervalElapsed(last.PeriodEnd, today, user.Timezone, weeklyIntervalDays)
	case domain.IsDomainError(err, domain.ErrCodeNotFound):
		if !user.HasAnchor() {
			return true, nil
		}
		return uc.intervalElapsed(user.AnchorAt, today, user.Timezone, weeklyIntervalDays)
	default:
		return false, err
	}
}

// monthlyRequired: due when no monthly record exists, or the last one's
// period end has fallen more than thirty calendar days behind today.
func (uc *UseCase) monthlyRequired(ctx context.Context, user *domain.User, today timeday.Boundary) (bool, error) {
	last, err := uc.reviews.Latest(ctx, user.ID, domain.ReviewMonthly)
	switch {
	case err == nil:
		return uc.intervalElapsed(last.PeriodEnd, today, user.Timezone, monthlyIntervalDays)
	case domain.IsDomainError(err, domain.ErrCodeNotFound):
		return true, nil
	default:
		return false, err
	}
}

// intervalElapsed reports whether today's start has reached the day that
// lies `days` calendar days after the reference instant. The threshold is
// walked through the resolver one day at a time rather than adding a fixed
// number of hours.
func (uc *UseCase) intervalElapsed(ref time.Time, today timeday.Boundary, tz string, days int) (bool, error) {
	refLabel, err := timeday.CalendarLabel(ref, tz)
	if err != nil {
		return false, err
	}
	dueLabel, err := timeday.ShiftDays(refLabel, days, tz)
	if err != nil {
		return false, err
	}
	due, err := timeday.BoundaryForLabel(dueLabel, tz)
	if err != nil {
		return false, err
	}
	return !today.Start.Before(due.Start), nil
}

// SubmitDaily records today's daily review. A second submission for the
// same calendar day fails with domain.ErrAlreadySubmitted, and every
// referenced task id must belong to today's focus set or the call fails
// with domain.ErrInvalidTaskIDs.
func (uc *UseCase) SubmitDaily(ctx context.Context, userID string, payload json.RawMessage, taskIDs []string, tz string, now time.Time) (*domain.ReviewRecord, error) {
	today, err := timeday.DayBoundary(now, tz)
	if err != nil {
		return nil, err
	}
	todayLabel, err := timeday.CalendarLabel(now, tz)
	if err != nil {
		return nil, err
	}

	submitted, err := uc.reviews.ExistsInRange(ctx, userID, domain.ReviewDaily, today.Start, today.End)
	if err != nil {
		return nil, err
	}
	if submitted {
		return nil, domain.ErrAlreadySubmitted
	}

	if len(taskIDs) > 0 {
		focused, err := uc.items.ListFocusedIDs(ctx, userID, todayLabel)
		if err != nil {
			return nil, err
		}
		allowed := make(map[string]struct{}, len(focused))
		for _, id := range focused {
			allowed[id] = struct{}{}
		}
		for _, id := range taskIDs {
			if _, ok := allowed[id]; !ok {
				return nil, domain.ErrInvalidTaskIDs
			}
		}
	}

	record := &domain.ReviewRecord{
		ID:          uuid.NewString(),
		UserID:      userID,
		Type:        domain.ReviewDaily,
		PeriodStart: today.Start,
		PeriodEnd:   today.Start,
		Payload:     payload,
		TaskIDs:     taskIDs,
		CreatedAt:   now,
	}
	created, err := uc.reviews.Create(ctx, record)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("daily review submitted",
		zap.String("user_id", userID),
		zap.String("day", todayLabel),
	)
	return created, nil
}

// SubmitWeekly records a weekly review covering the seven calendar days
// ending today. Submitting while the checkpoint is not due fails with
// domain.ErrAlreadySubmitted.
func (uc *UseCase) SubmitWeekly(ctx context.Context, userID string, payload json.RawMessage, tz string, now time.Time) (*domain.ReviewRecord, error) {
	return uc.submitPeriodic(ctx, userID, domain.ReviewWeekly, payload, tz, now, weeklyIntervalDays)
}

// SubmitMonthly records a monthly review covering the thirty calendar days
// ending today.
func (uc *UseCase) SubmitMonthly(ctx context.Context, userID string, payload json.RawMessage, tz string, now time.Time) (*domain.ReviewRecord, error) {
	return uc.submitPeriodic(ctx, userID, domain.ReviewMonthly, payload, tz, now, monthlyIntervalDays)
}

func (uc *UseCase) submitPeriodic(ctx context.Context, userID, reviewType string, payload json.RawMessage, tz string, now time.Time, days int) (*domain.ReviewRecord, error) {
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	today, err := timeday.DayBoundary(now, tz)
	if err != nil {
		return nil, err
	}

	var due bool
	if reviewType == domain.ReviewWeekly {
		due, err = uc.weeklyRequired(ctx, user, today)
	} else {
		due, err = uc.monthlyRequired(ctx, user, today)
	}
	if err != nil {
		return nil, err
	}
	if !due {
		return nil, domain.ErrAlreadySubmitted
	}

	todayLabel, err := timeday.CalendarLabel(now, tz)
	if err != nil {
		return nil, err
	}
	startLabel, err := timeday.ShiftDays(todayLabel, -(days - 1), tz)
	if err != nil {
		return nil, err
	}
	start, err := timeday.BoundaryForLabel(startLabel, tz)
	if err != nil {
		return nil, err
	}

	record := &domain.ReviewRecord{
		ID:          uuid.NewString(),
		UserID:      userID,
		Type:        reviewType,
		PeriodStart: start.Start,
		PeriodEnd:   today.Start,
		Payload:     payload,
		CreatedAt:   now,
	}
	created, err := uc.reviews.Create(ctx, record)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("periodic review submitted",
		zap.String("user_id", userID),
		zap.String("type", reviewType),
		zap.String("day", todayLabel),
	)
	return created, nil
}
