// Package streak computes consecutive-day streaks and cumulative milestones
// from sparse event timestamps.
package streak

import (
	"time"

	"github.com/focusloop/backend/usecase/timeday"
)

// DaySet is a deduplicated set of calendar-day labels.
type DaySet map[string]struct{}

// DaySetFromInstants folds event instants into the set of tz-local calendar
// days they fall on.
func DaySetFromInstants(instants []time.Time, tz string) (DaySet, error) {
	set := make(DaySet, len(instants))
	for _, t := range instants {
		label, err := timeday.CalendarLabel(t, tz)
		if err != nil {
			return nil, err
		}
		set[label] = struct{}{}
	}
	return set, nil
}

// Current returns the number of consecutive days ending at today on which a
// qualifying event occurred. A today without an event is a zero streak; any
// gap immediately before today truncates the walk. Each backward step goes
// through the day resolver so DST-shortened and -lengthened days line up
// with real wall-clock dates.
func Current(days DaySet, today, tz string) (int, error) {
	if _, ok := days[today]; !ok {
		return 0, nil
	}
	count := 1
	label := today
	for count <= len(days) {
		prev, err := timeday.PreviousCalendarDay(label, tz)
		if err != nil {
			return 0, err
		}
		if _, ok := days[prev]; !ok {
			break
		}
		count++
		label = prev
	}
	return count, nil
}
