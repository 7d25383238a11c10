package timeday

import (
	"testing"
	"time"

	"github.com/focusloop/backend/domain"
)

func TestDayBoundaryContainsInstant(t *testing.T) {
	tests := []struct {
		name    string
		instant time.Time
		tz      string
	}{
		{"utc noon", time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC), "UTC"},
		{"new york evening", time.Date(2024, 6, 15, 23, 30, 0, 0, time.UTC), "America/New_York"},
		{"tokyo past midnight", time.Date(2024, 6, 15, 15, 30, 0, 0, time.UTC), "Asia/Tokyo"},
		{"kiritimati far east", time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC), "Pacific/Kiritimati"},
		{"fall back night", time.Date(2024, 11, 3, 5, 30, 0, 0, time.UTC), "America/New_York"},
		{"spring forward morning", time.Date(2024, 3, 10, 7, 30, 0, 0, time.UTC), "America/New_York"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := DayBoundary(tt.instant, tt.tz)
			if err != nil {
				t.Fatalf("day boundary: %v", err)
			}
			if tt.instant.Before(b.Start) || !tt.instant.Before(b.End) {
				t.Fatalf("instant %v outside boundary [%v, %v)", tt.instant, b.Start, b.End)
			}
			if d := b.Duration(); d < 23*time.Hour || d > 25*time.Hour {
				t.Fatalf("implausible day length %v", d)
			}
		})
	}
}

func TestDayBoundaryFallBackIsTwentyFiveHours(t *testing.T) {
	// 2024-11-03 in New York repeats the 01:00 hour.
	instant := time.Date(2024, 11, 3, 5, 30, 0, 0, time.UTC)

	b, err := DayBoundary(instant, "America/New_York")
	if err != nil {
		t.Fatalf("day boundary: %v", err)
	}

	wantStart := time.Date(2024, 11, 3, 4, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2024, 11, 4, 5, 0, 0, 0, time.UTC)
	if !b.Start.Equal(wantStart) {
		t.Fatalf("expected start %v, got %v", wantStart, b.Start)
	}
	if !b.End.Equal(wantEnd) {
		t.Fatalf("expected end %v, got %v", wantEnd, b.End)
	}
	if b.Duration() != 25*time.Hour {
		t.Fatalf("expected 25h day, got %v", b.Duration())
	}

	label, err := CalendarLabel(instant, "America/New_York")
	if err != nil {
		t.Fatalf("calendar label: %v", err)
	}
	if label != "2024-11-03" {
		t.Fatalf("expected label 2024-11-03, got %q", label)
	}
}

func TestDayBoundarySpringForwardIsTwentyThreeHours(t *testing.T) {
	// 2024-03-10 in New York skips the 02:00 hour.
	instant := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	b, err := DayBoundary(instant, "America/New_York")
	if err != nil {
		t.Fatalf("day boundary: %v", err)
	}

	wantStart := time.Date(2024, 3, 10, 5, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2024, 3, 11, 4, 0, 0, 0, time.UTC)
	if !b.Start.Equal(wantStart) {
		t.Fatalf("expected start %v, got %v", wantStart, b.Start)
	}
	if !b.End.Equal(wantEnd) {
		t.Fatalf("expected end %v, got %v", wantEnd, b.End)
	}
	if b.Duration() != 23*time.Hour {
		t.Fatalf("expected 23h day, got %v", b.Duration())
	}
}

func TestCalendarLabelCrossesDateLine(t *testing.T) {
	instant := time.Date(2024, 1, 1, 20, 0, 0, 0, time.UTC)

	label, err := CalendarLabel(instant, "Asia/Tokyo")
	if err != nil {
		t.Fatalf("calendar label: %v", err)
	}
	if label != "2024-01-02" {
		t.Fatalf("expected label 2024-01-02, got %q", label)
	}
}

func TestPreviousCalendarDay(t *testing.T) {
	tests := []struct {
		name  string
		label string
		tz    string
		want  string
	}{
		{"plain day", "2024-06-15", "UTC", "2024-06-14"},
		{"leap february", "2024-03-01", "UTC", "2024-02-29"},
		{"year boundary", "2024-01-01", "America/New_York", "2023-12-31"},
		{"day after fall back", "2024-11-04", "America/New_York", "2024-11-03"},
		{"day after spring forward", "2024-03-11", "America/New_York", "2024-03-10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PreviousCalendarDay(tt.label, tt.tz)
			if err != nil {
				t.Fatalf("previous day: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestNextAndShiftDaysRoundTrip(t *testing.T) {
	next, err := NextCalendarDay("2024-11-03", "America/New_York")
	if err != nil {
		t.Fatalf("next day: %v", err)
	}
	if next != "2024-11-04" {
		t.Fatalf("expected 2024-11-04, got %q", next)
	}

	shifted, err := ShiftDays("2024-11-01", 7, "America/New_York")
	if err != nil {
		t.Fatalf("shift forward: %v", err)
	}
	if shifted != "2024-11-08" {
		t.Fatalf("expected 2024-11-08, got %q", shifted)
	}

	back, err := ShiftDays(shifted, -7, "America/New_York")
	if err != nil {
		t.Fatalf("shift back: %v", err)
	}
	if back != "2024-11-01" {
		t.Fatalf("expected round trip to 2024-11-01, got %q", back)
	}
}

func TestBoundaryForLabelMatchesDayBoundary(t *testing.T) {
	instant := time.Date(2024, 11, 3, 5, 30, 0, 0, time.UTC)

	fromInstant, err := DayBoundary(instant, "America/New_York")
	if err != nil {
		t.Fatalf("day boundary: %v", err)
	}
	fromLabel, err := BoundaryForLabel("2024-11-03", "America/New_York")
	if err != nil {
		t.Fatalf("boundary for label: %v", err)
	}

	if !fromInstant.Start.Equal(fromLabel.Start) || !fromInstant.End.Equal(fromLabel.End) {
		t.Fatalf("boundaries disagree: %+v vs %+v", fromInstant, fromLabel)
	}
}

func TestInvalidTimezone(t *testing.T) {
	if _, err := DayBoundary(time.Now(), "Not/AZone"); !domain.IsDomainError(err, domain.ErrCodeInvalidTimezone) {
		t.Fatalf("expected invalid timezone error, got %v", err)
	}
	if _, err := CalendarLabel(time.Now(), ""); !domain.IsDomainError(err, domain.ErrCodeInvalidTimezone) {
		t.Fatalf("expected invalid timezone error for empty id, got %v", err)
	}
	if _, err := PreviousCalendarDay("2024-06-15", "Mars/Olympus"); !domain.IsDomainError(err, domain.ErrCodeInvalidTimezone) {
		t.Fatalf("expected invalid timezone error, got %v", err)
	}
}

func TestMalformedLabel(t *testing.T) {
	if _, err := BoundaryForLabel("15-06-2024", "UTC"); !domain.IsDomainError(err, domain.ErrCodeInvalid) {
		t.Fatalf("expected invalid label error, got %v", err)
	}
}
