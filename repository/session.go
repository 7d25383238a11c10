package repository

import (
	"context"
	"time"

	"github.com/focusloop/backend/domain"
)

// SessionRepository is the store contract for focus-session records.
// Sessions are immutable once finished.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.FocusSession) (*domain.FocusSession, error)
	Finish(ctx context.Context, userID, sessionID string, endedAt time.Time, durationMinutes int) error

	// CountEndedBetween counts sessions whose end time falls in [from, to).
	CountEndedBetween(ctx context.Context, userID string, from, to time.Time) (int, error)

	// EndTimes returns the end instants of all finished sessions.
	EndTimes(ctx context.Context, userID string) ([]time.Time, error)

	// TotalMinutes sums duration over all finished sessions.
	TotalMinutes(ctx context.Context, userID string) (int, error)
}
