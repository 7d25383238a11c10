package streak

import "testing"

func labels(milestones []Milestone) []string {
	out := make([]string, 0, len(milestones))
	for _, m := range milestones {
		out = append(out, m.Label)
	}
	return out
}

func contains(list []string, want string) bool {
	for _, l := range list {
		if l == want {
			return true
		}
	}
	return false
}

func TestReachedTaskThresholdTransition(t *testing.T) {
	before := labels(Reached(9, 0))
	after := labels(Reached(10, 0))

	if contains(before, "10 tasks") {
		t.Fatalf("9 completed tasks should not reach the 10-task milestone: %v", before)
	}
	if !contains(after, "10 tasks") {
		t.Fatalf("10 completed tasks should reach the 10-task milestone: %v", after)
	}
	if !contains(after, "5 tasks") {
		t.Fatalf("lower thresholds must stay reached: %v", after)
	}
}

func TestReachedIsMonotonic(t *testing.T) {
	prev := 0
	for counter := 0; counter <= 1100; counter += 7 {
		got := len(Reached(counter, counter))
		if got < prev {
			t.Fatalf("milestone count decreased from %d to %d at counter %d", prev, got, counter)
		}
		prev = got
	}
}

func TestReachedFocusMinutes(t *testing.T) {
	got := labels(Reached(0, 1000))

	for _, want := range []string{"25 focus minutes", "100 focus minutes", "250 focus minutes", "500 focus minutes", "1000 focus minutes"} {
		if !contains(got, want) {
			t.Fatalf("expected %q in %v", want, got)
		}
	}
	if contains(got, "2500 focus minutes") {
		t.Fatalf("2500 minutes not yet reached: %v", got)
	}
	if contains(got, "5 tasks") {
		t.Fatalf("no task milestones expected with zero completions: %v", got)
	}
}

func TestReachedZeroCounters(t *testing.T) {
	if got := Reached(0, 0); len(got) != 0 {
		t.Fatalf("expected no milestones at zero, got %v", got)
	}
}
