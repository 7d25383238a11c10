package domain

import (
	"encoding/json"
	"time"
)

// Review cadence types.
const (
	ReviewDaily   = "daily"
	ReviewWeekly  = "weekly"
	ReviewMonthly = "monthly"
)

// ReviewRecord is one submitted checkpoint. Records are append-only: once
// created they are never mutated or deleted by the core. PeriodStart and
// PeriodEnd are UTC instants of tz-local day boundaries.
type ReviewRecord struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Type        string          `json:"type"`
	PeriodStart time.Time       `json:"period_start"`
	PeriodEnd   time.Time       `json:"period_end"`
	Payload     json.RawMessage `json:"payload,omitempty"`
	TaskIDs     []string        `json:"task_ids,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ReviewStatus reports which checkpoints are currently due for a user.
type ReviewStatus struct {
	DailyRequired   bool `json:"daily_required"`
	WeeklyRequired  bool `json:"weekly_required"`
	MonthlyRequired bool `json:"monthly_required"`
}

// ValidReviewType reports whether t names a known cadence.
func ValidReviewType(t string) bool {
	switch t {
	case ReviewDaily, ReviewWeekly, ReviewMonthly:
		return true
	}
	return false
}
