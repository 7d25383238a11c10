package repository

import (
	"context"
	"time"

	"github.com/focusloop/backend/domain"
)

// ReviewRepository is the append-only store contract for review records.
type ReviewRepository interface {
	Create(ctx context.Context, record *domain.ReviewRecord) (*domain.ReviewRecord, error)

	// Latest returns the most recent record of the given type by period end,
	// or domain.ErrReviewNotFound when none exists.
	Latest(ctx context.Context, userID, reviewType string) (*domain.ReviewRecord, error)

	// ExistsInRange reports whether a record of the given type has a period
	// end inside [from, to).
	ExistsInRange(ctx context.Context, userID, reviewType string, from, to time.Time) (bool, error)

	// PeriodStarts returns the period start instants of every record of the
	// given type, for streak derivation.
	PeriodStarts(ctx context.Context, userID, reviewType string) ([]time.Time, error)
}
