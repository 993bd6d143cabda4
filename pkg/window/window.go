// Package window turns "now" into the calendar-aligned [start, end) range
// that a day, week or month query sums over.
//
// Boundaries are local midnights in now's location, or the DST transition
// on a date whose midnight is skipped. Weeks start on Monday.
// Every computation is pure: the same (now, kind) always yields the same
// window, and no clock is read here.
//
// Arithmetic goes through the Calendar capability so that "next day" and
// "next month" are civil-date steps. On a spring-forward night the day
// window is 23 hours long and on a fall-back night 25 hours; both still
// run midnight to midnight.
package window

import (
	"fmt"
	"time"

	"github.com/daviddao/pushups/pkg/model"
)

// LogicFault reports a window the calendar arithmetic should never produce.
// It is raised with panic, not returned: reaching it is a programming
// defect, not a runtime condition a caller can handle.
type LogicFault struct {
	Kind   model.Kind
	Now    time.Time
	Window model.Window
	Reason string
}

func (f *LogicFault) Error() string {
	return fmt.Sprintf("window: logic fault resolving %s at %s: %s (start=%s end=%s)",
		f.Kind, f.Now.Format(time.RFC3339Nano), f.Reason,
		f.Window.Start.Format(time.RFC3339Nano), f.Window.End.Format(time.RFC3339Nano))
}

// Resolver computes windows with a Calendar.
type Resolver struct {
	cal Calendar
}

// NewResolver returns a Resolver backed by cal. A nil cal means Civil.
func NewResolver(cal Calendar) Resolver {
	if cal == nil {
		cal = Civil{}
	}
	return Resolver{cal: cal}
}

// Resolve dispatches on kind. An unknown kind is a LogicFault.
func (r Resolver) Resolve(now time.Time, kind model.Kind) model.Window {
	switch kind {
	case model.Day:
		return r.Day(now)
	case model.Week:
		return r.Week(now)
	case model.Month:
		return r.Month(now)
	}
	panic(&LogicFault{Kind: kind, Now: now, Reason: "unknown window kind"})
}

// Day returns [midnight of now's date, midnight of the next date).
func (r Resolver) Day(now time.Time) model.Window {
	c := r.calendar()
	start := c.TruncateToMidnight(now)
	end := c.TruncateToMidnight(c.AddDays(start, 1))
	return checked(model.Day, now, start, end)
}

// Week returns [Monday midnight, next Monday midnight) for the week
// containing now.
func (r Resolver) Week(now time.Time) model.Window {
	c := r.calendar()
	daysSinceMonday := c.WeekdayIndex(now)
	start := c.TruncateToMidnight(c.AddDays(c.TruncateToMidnight(now), -daysSinceMonday))
	end := c.TruncateToMidnight(c.AddDays(start, 7))
	return checked(model.Week, now, start, end)
}

// Month returns [midnight on the 1st, midnight on the 1st of the next
// month). December rolls over to January of the following year.
func (r Resolver) Month(now time.Time) model.Window {
	c := r.calendar()
	start := c.TruncateToMidnight(c.AddDays(c.TruncateToMidnight(now), 1-now.Day()))
	end := c.TruncateToMidnight(c.AddMonths(start, 1))
	return checked(model.Month, now, start, end)
}

func (r Resolver) calendar() Calendar {
	if r.cal == nil {
		return Civil{}
	}
	return r.cal
}

func checked(kind model.Kind, now, start, end time.Time) model.Window {
	w := model.Window{Start: start, End: end}
	if !start.Before(end) {
		panic(&LogicFault{Kind: kind, Now: now, Window: w, Reason: "start is not before end"})
	}
	return w
}
