// Package model defines the core domain types for pushups.
//
// An Event is one recorded set: a repetition count at a local instant. A
// Window is a half-open calendar interval [Start, End) over which events
// are summed. Windows are never stored; they are recomputed from "now" on
// every query.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Event is a single entry in the append-only log.
//
// Timestamp keeps the UTC offset that was in force when the set was
// recorded, so a later DST change does not move it to another day.
type Event struct {
	ID        int64     `json:"id"`
	Reps      uint32    `json:"reps"`
	Timestamp time.Time `json:"timestamp"`
	Notes     string    `json:"notes,omitempty"`
}

// Kind selects a calendar window.
type Kind int

const (
	Day Kind = iota
	Week
	Month
)

// Kinds lists every window kind in display order.
var Kinds = []Kind{Day, Week, Month}

// String returns the canonical lower-case name.
func (k Kind) String() string {
	switch k {
	case Day:
		return "day"
	case Week:
		return "week"
	case Month:
		return "month"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Phrase returns the kind as it reads at the end of a sentence:
// "today", "this week", "this month".
func (k Kind) Phrase() string {
	switch k {
	case Day:
		return "today"
	case Week:
		return "this week"
	case Month:
		return "this month"
	}
	return k.String()
}

// MarshalText encodes the kind by name so JSON output stays readable.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ParseKind accepts day (or today), week and month, case-insensitive.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "day", "today":
		return Day, nil
	case "week":
		return Week, nil
	case "month":
		return Month, nil
	}
	return 0, fmt.Errorf("unknown window %q: want day, week or month", s)
}

// Window is a half-open local-time interval [Start, End).
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the window. An instant equal to
// End belongs to the next window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Duration is the elapsed time covered by the window. It is 23 or 25 hours
// for a day window on a DST transition date.
func (w Window) Duration() time.Duration { return w.End.Sub(w.Start) }

// Total is the sum of reps in one window.
type Total struct {
	Kind   Kind   `json:"kind"`
	Window Window `json:"window"`
	Reps   uint64 `json:"reps"`
}
