package window

import (
	"cmp"
	"time"
)

// Calendar is the date arithmetic the resolver needs. Every method works in
// the location of its argument and returns an instant in that location.
type Calendar interface {
	// TruncateToMidnight returns the first instant of t's calendar date.
	TruncateToMidnight(t time.Time) time.Time
	// AddDays moves t by n calendar days, keeping its wall-clock time.
	AddDays(t time.Time, n int) time.Time
	// AddMonths moves t by n calendar months, keeping its wall-clock time.
	// The day of month is clamped to the length of the target month.
	AddMonths(t time.Time, n int) time.Time
	// WeekdayIndex numbers weekdays from Monday=0 to Sunday=6.
	WeekdayIndex(t time.Time) int
}

// Civil implements Calendar on civil (wall-clock) fields. Adding a day
// means "same clock time on the next date", which is 23 or 25 elapsed
// hours across a DST transition, never a fixed 24h.
//
// Some zones move their clocks at 00:00, so a date may have no midnight
// (spring forward) or two (fall back). A date then starts at the
// transition, or at the first of the two midnights.
type Civil struct{}

var _ Calendar = Civil{}

func (Civil) TruncateToMidnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return startOfDate(y, m, d, t.Location())
}

func (Civil) AddDays(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	hh, mm, ss := t.Clock()
	// time.Date normalizes d+n across month and year ends.
	ty, tm, td := time.Date(y, m, d+n, 12, 0, 0, 0, time.UTC).Date()
	return onDate(time.Date(ty, tm, td, hh, mm, ss, t.Nanosecond(), t.Location()), ty, tm, td)
}

func (Civil) AddMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	hh, mm, ss := t.Clock()

	idx := int(m) - 1 + n
	y += floorDiv(idx, 12)
	m = time.Month(idx-floorDiv(idx, 12)*12) + 1

	if last := daysIn(y, m); d > last {
		d = last
	}
	return onDate(time.Date(y, m, d, hh, mm, ss, t.Nanosecond(), t.Location()), y, m, d)
}

func (Civil) WeekdayIndex(t time.Time) int {
	// time.Weekday is Sunday=0; shift so Monday=0.
	return (int(t.Weekday()) + 6) % 7
}

// startOfDate returns the first instant whose civil date in loc is
// (y, m, d). A date skipped entirely starts where the following date does.
func startOfDate(y int, m time.Month, d int, loc *time.Location) time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, loc)

	// Midnight was skipped and time.Date fell back onto the previous date:
	// the date begins at the next zone transition.
	for compareDate(t, y, m, d) < 0 {
		_, end := t.ZoneBounds()
		if end.IsZero() {
			break
		}
		t = end
	}

	// Midnight happened twice: take the one under the earlier offset.
	if zoneStart, _ := t.ZoneBounds(); !zoneStart.IsZero() {
		prev := zoneStart.Add(-time.Nanosecond)
		if compareDate(prev, y, m, d) == 0 {
			name, off := prev.Zone()
			first := time.Date(y, m, d, 0, 0, 0, 0, time.FixedZone(name, off)).In(loc)
			if first.Before(zoneStart) && compareDate(first, y, m, d) == 0 {
				return first
			}
		}
	}
	return t
}

// onDate moves t, computed for date (y, m, d), to the start of that date
// when its wall-clock time did not exist and time.Date landed on the
// previous date.
func onDate(t time.Time, y int, m time.Month, d int) time.Time {
	if compareDate(t, y, m, d) < 0 {
		return startOfDate(y, m, d, t.Location())
	}
	return t
}

// compareDate orders t's civil date against (y, m, d).
func compareDate(t time.Time, y int, m time.Month, d int) int {
	ty, tm, td := t.Date()
	switch {
	case ty != y:
		return cmp.Compare(ty, y)
	case tm != m:
		return cmp.Compare(tm, m)
	}
	return cmp.Compare(td, d)
}

// daysIn returns the number of days in month m of year y.
func daysIn(y int, m time.Month) int {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
