// Package timeday resolves tz-local calendar days to UTC instants.
//
// All day math in the tracker goes through this package. Day boundaries are
// recomputed from the zone database for every step; nothing here ever adds
// a fixed 24h to an instant, so 23-hour and 25-hour DST days come out with
// their real lengths.
package timeday

import (
	"fmt"
	"time"

	// Embed the IANA zone database so resolution does not depend on the
	// host's zoneinfo files.
	_ "time/tzdata"

	"github.com/focusloop/backend/domain"
)

// Label layout for tz-local calendar days.
const labelLayout = "2006-01-02"

// Boundary is one tz-local calendar day expressed as UTC instants.
// Start <= instant < End for every instant on that day, and [Start, End)
// spans exactly local midnight to the next local midnight.
type Boundary struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the day.
func (b Boundary) Contains(t time.Time) bool {
	return !t.Before(b.Start) && t.Before(b.End)
}

// Duration returns the real length of the local day (23h, 24h or 25h).
func (b Boundary) Duration() time.Duration {
	return b.End.Sub(b.Start)
}

// LoadZone resolves an IANA timezone identifier. Unknown or empty
// identifiers fail with a domain.ErrCodeInvalidTimezone error; callers that
// want a UTC fallback must apply it at their own boundary, never here.
func LoadZone(tz string) (*time.Location, error) {
	if tz == "" {
		return nil, domain.WrapError(domain.ErrCodeInvalidTimezone, "empty timezone identifier", nil)
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeInvalidTimezone, fmt.Sprintf("unknown timezone %q", tz), err)
	}
	return loc, nil
}

// DayBoundary returns the boundary of the calendar day containing instant in
// tz. The end is resolved by stepping 25h past the start and recomputing,
// which lands inside the next local day regardless of DST shifts.
func DayBoundary(instant time.Time, tz string) (Boundary, error) {
	loc, err := LoadZone(tz)
	if err != nil {
		return Boundary{}, err
	}
	start := dayStart(instant, loc)
	end := dayStart(start.Add(25*time.Hour), loc)
	return Boundary{Start: start, End: end}, nil
}

// CalendarLabel returns the "YYYY-MM-DD" label of the calendar day
// containing instant in tz.
func CalendarLabel(instant time.Time, tz string) (string, error) {
	loc, err := LoadZone(tz)
	if err != nil {
		return "", err
	}
	return instant.In(loc).Format(labelLayout), nil
}

// BoundaryForLabel resolves a calendar label back to its day boundary in tz.
func BoundaryForLabel(label, tz string) (Boundary, error) {
	y, m, d, err := parseLabel(label)
	if err != nil {
		return Boundary{}, err
	}
	loc, err := LoadZone(tz)
	if err != nil {
		return Boundary{}, err
	}
	start := startOfDate(y, m, d, loc)
	end := dayStart(start.Add(25*time.Hour), loc)
	return Boundary{Start: start, End: end}, nil
}

// PreviousCalendarDay returns the label of the day before label in tz. The
// step walks back through the resolver: one second before the day's start
// belongs to the previous local day whatever its length was.
func PreviousCalendarDay(label, tz string) (string, error) {
	b, err := BoundaryForLabel(label, tz)
	if err != nil {
		return "", err
	}
	return CalendarLabel(b.Start.Add(-time.Second), tz)
}

// NextCalendarDay returns the label of the day after label in tz. The day's
// End instant is by construction the first instant of the following day.
func NextCalendarDay(label, tz string) (string, error) {
	b, err := BoundaryForLabel(label, tz)
	if err != nil {
		return "", err
	}
	return CalendarLabel(b.End, tz)
}

// ShiftDays steps a label n calendar days forward (or backward when n is
// negative), one resolver step at a time.
func ShiftDays(label string, n int, tz string) (string, error) {
	step := NextCalendarDay
	if n < 0 {
		step = PreviousCalendarDay
		n = -n
	}
	var err error
	for i := 0; i < n; i++ {
		if label, err = step(label, tz); err != nil {
			return "", err
		}
	}
	return label, nil
}

func dayStart(instant time.Time, loc *time.Location) time.Time {
	y, m, d := instant.In(loc).Date()
	return startOfDate(y, m, d, loc)
}

// startOfDate resolves local midnight of a civil date. time.Date consults
// the zone database for the wall time, so a midnight erased by a
// spring-forward shift comes back as the first instant that actually
// existed on that date.
func startOfDate(y int, m time.Month, d int, loc *time.Location) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, loc).UTC()
}

func parseLabel(label string) (int, time.Month, int, error) {
	t, err := time.Parse(labelLayout, label)
	if err != nil {
		return 0, 0, 0, domain.WrapError(domain.ErrCodeInvalid, fmt.Sprintf("malformed day label %q", label), err)
	}
	y, m, d := t.Date()
	return y, m, d, nil
}
