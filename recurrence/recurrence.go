// Package recurrence turns a treatment plan's weekly day pattern into the
// concrete list of appointment date-times. It is pure calendar arithmetic:
// no storage, no clock reads, no holiday lookups. Holiday exclusion is an
// extension point for an external holiday-calendar service and is
// deliberately not performed here.
package recurrence

import "time"

// TimeOfDay is a wall-clock time applied to every expanded date.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

// Weekday indices use Monday=0 .. Sunday=6, matching the wire format of the
// recurrence request, not Go's Sunday-based time.Weekday.
func weekdayIndex(d time.Time) int {
	return (int(d.Weekday()) + 6) % 7
}

// AddMonths advances a date by whole calendar months, clamping to the last
// day of the target month instead of normalizing the overflow (Jan 31 plus
// one month is Feb 28, not Mar 3, which plain AddDate would give).
func AddMonths(d time.Time, months int) time.Time {
	year, month, day := d.Date()
	first := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, d.Location())
	lastDay := first.AddDate(0, 1, -1).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(first.Year(), first.Month(), day, d.Hour(), d.Minute(), d.Second(), 0, d.Location())
}

// Expand returns every date in [start, start+durationMonths) whose weekday
// is in days, combined with tod, strictly ascending. Duplicate weekday
// indices are harmless; a date matches at most once. An empty day set or a
// zero duration yields an empty (non-nil) slice. Identical inputs always
// produce identical output.
func Expand(start time.Time, durationMonths int, tod TimeOfDay, days []int) []time.Time {
	wanted := [7]bool{}
	for _, d := range days {
		if d >= 0 && d <= 6 {
			wanted[d] = true
		}
	}

	startDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	end := AddMonths(startDay, durationMonths)

	out := []time.Time{}
	for d := startDay; d.Before(end); d = d.AddDate(0, 0, 1) {
		if !wanted[weekdayIndex(d)] {
			continue
		}
		out = append(out, time.Date(d.Year(), d.Month(), d.Day(), tod.Hour, tod.Minute, tod.Second, 0, d.Location()))
	}
	return out
}

// Count reports how many appointments Expand would produce without building
// the slice.
func Count(start time.Time, durationMonths int, days []int) int {
	return len(Expand(start, durationMonths, TimeOfDay{}, days))
}
