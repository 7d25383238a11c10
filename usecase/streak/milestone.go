package streak

import "fmt"

// MilestoneKind distinguishes the two cumulative counters.
type MilestoneKind string

const (
	KindTasksCompleted MilestoneKind = "tasks_completed"
	KindFocusMinutes   MilestoneKind = "focus_minutes"
)

// Milestone is a fixed cumulative threshold. Once a monotonic counter has
// passed it, recomputing against the same or a larger counter value always
// reports it again; nothing is persisted.
type Milestone struct {
	Kind      MilestoneKind `json:"kind"`
	Threshold int           `json:"threshold"`
	Label     string        `json:"label"`
}

var taskThresholds = []int{5, 10, 25, 50, 100, 250, 500, 1000}

var minuteThresholds = []int{25, 100, 250, 500, 1000, 2500, 5000, 10000}

// Reached returns every milestone whose threshold the counters have met,
// ascending per kind, tasks before minutes.
func Reached(tasksCompleted, focusMinutes int) []Milestone {
	var out []Milestone
	for _, th := range taskThresholds {
		if tasksCompleted < th {
			break
		}
		out = append(out, Milestone{
			Kind:      KindTasksCompleted,
			Threshold: th,
			Label:     fmt.Sprintf("%d tasks", th),
		})
	}
	for _, th := range minuteThresholds {
		if focusMinutes < th {
			break
		}
		out = append(out, Milestone{
			Kind:      KindFocusMinutes,
			Threshold: th,
			Label:     fmt.Sprintf("%d focus minutes", th),
		})
	}
	return out
}
