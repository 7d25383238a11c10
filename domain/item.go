package domain

import "time"

// Item status values.
const (
	StatusBacklog   = "backlog"
	StatusFocus     = "focus"
	StatusDone      = "done"
	StatusPostponed = "postponed"
)

// FocusSlotLimit is the maximum number of items a user may hold in focus for
// a single calendar day.
const FocusSlotLimit = 3

// FocusItem is the slot-relevant projection of a work item. FocusDay is a
// tz-local calendar label ("2006-01-02") and is non-empty exactly when
// Status is focus. CompletedAt is set on the first transition to done and
// never cleared, so streak and milestone math stays monotonic even if the
// item's status is later reverted.
type FocusItem struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Title       string     `json:"title,omitempty"`
	Status      string     `json:"status"`
	FocusDay    string     `json:"focus_day,omitempty"`
	GoalMinutes *int       `json:"goal_minutes,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// InFocusOn reports whether the item occupies a focus slot on the given day.
func (i *FocusItem) InFocusOn(day string) bool {
	return i != nil && i.Status == StatusFocus && i.FocusDay == day
}

// ValidReleaseStatus reports whether a status is an allowed target for
// releasing a focus slot.
func ValidReleaseStatus(status string) bool {
	switch status {
	case StatusBacklog, StatusDone, StatusPostponed:
		return true
	}
	return false
}
