package domain

import "time"

// FocusSession is one timed work interval. EndedAt is nil while the session
// is running; DurationMinutes is set when it ends and is immutable after.
type FocusSession struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id"`
	ItemID          string     `json:"item_id,omitempty"`
	StartedAt       time.Time  `json:"started_at"`
	EndedAt         *time.Time `json:"ended_at,omitempty"`
	DurationMinutes int        `json:"duration_minutes"`
}

// Running reports whether the session has not ended yet.
func (s *FocusSession) Running() bool {
	return s != nil && s.EndedAt == nil
}
