package streak

import (
	"testing"
	"time"

	"github.com/focusloop/backend/domain"
)

func daySet(labels ...string) DaySet {
	set := make(DaySet, len(labels))
	for _, l := range labels {
		set[l] = struct{}{}
	}
	return set
}

func TestCurrentStreak(t *testing.T) {
	tests := []struct {
		name  string
		days  DaySet
		today string
		tz    string
		want  int
	}{
		{
			name:  "three consecutive days",
			days:  daySet("2024-05-13", "2024-05-14", "2024-05-15"),
			today: "2024-05-15",
			tz:    "UTC",
			want:  3,
		},
		{
			name:  "gap before today truncates to one",
			days:  daySet("2024-05-13", "2024-05-15"),
			today: "2024-05-15",
			tz:    "UTC",
			want:  1,
		},
		{
			name:  "today missing is zero",
			days:  daySet("2024-05-13", "2024-05-14"),
			today: "2024-05-15",
			tz:    "UTC",
			want:  0,
		},
		{
			name:  "empty set",
			days:  daySet(),
			today: "2024-05-15",
			tz:    "UTC",
			want:  0,
		},
		{
			name:  "walk across fall back day",
			days:  daySet("2024-11-02", "2024-11-03", "2024-11-04"),
			today: "2024-11-04",
			tz:    "America/New_York",
			want:  3,
		},
		{
			name:  "walk across spring forward day",
			days:  daySet("2024-03-09", "2024-03-10", "2024-03-11"),
			today: "2024-03-11",
			tz:    "America/New_York",
			want:  3,
		},
		{
			name:  "walk across leap february",
			days:  daySet("2024-02-28", "2024-02-29", "2024-03-01"),
			today: "2024-03-01",
			tz:    "UTC",
			want:  3,
		},
		{
			name:  "older events past the gap do not count",
			days:  daySet("2024-05-01", "2024-05-02", "2024-05-14", "2024-05-15"),
			today: "2024-05-15",
			tz:    "UTC",
			want:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Current(tt.days, tt.today, tt.tz)
			if err != nil {
				t.Fatalf("current streak: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected streak %d, got %d", tt.want, got)
			}
		})
	}
}

func TestCurrentStreakInvalidTimezone(t *testing.T) {
	_, err := Current(daySet("2024-05-15"), "2024-05-15", "Not/AZone")
	if !domain.IsDomainError(err, domain.ErrCodeInvalidTimezone) {
		t.Fatalf("expected invalid timezone error, got %v", err)
	}
}

func TestDaySetFromInstantsGroupsByLocalDay(t *testing.T) {
	instants := []time.Time{
		// Both fall on 2024-05-15 in New York despite crossing UTC midnight.
		time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC),
		time.Date(2024, 5, 16, 2, 0, 0, 0, time.UTC),
		time.Date(2024, 5, 14, 23, 0, 0, 0, time.UTC),
	}

	set, err := DaySetFromInstants(instants, "America/New_York")
	if err != nil {
		t.Fatalf("day set: %v", err)
	}
	if len(set) != 2 {
		t.Fatalf("expected 2 distinct days, got %d: %v", len(set), set)
	}
	if _, ok := set["2024-05-15"]; !ok {
		t.Fatalf("expected 2024-05-15 in set, got %v", set)
	}
	if _, ok := set["2024-05-14"]; !ok {
		t.Fatalf("expected 2024-05-14 in set, got %v", set)
	}
}
