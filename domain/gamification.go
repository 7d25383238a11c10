package domain

// Gamification is the derived progress snapshot for one user, recomputed
// fresh on every call from the underlying event logs.
type Gamification struct {
	CompletionStreak  int      `json:"completion_streak"`
	DailyReviewStreak int      `json:"daily_review_streak"`
	FocusDaysStreak   int      `json:"focus_days_streak"`
	TasksCompleted    int      `json:"tasks_completed"`
	FocusMinutes      int      `json:"focus_minutes"`
	MilestonesReached []string `json:"milestones_reached"`
}
