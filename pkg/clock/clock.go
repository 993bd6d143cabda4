// Package clock supplies the "now" that every query and record is anchored
// to.
//
// A CLI invocation reads the clock exactly once and threads that instant
// through window resolution, so the window cannot shift between two reads
// taken a few microseconds apart across midnight.
//
// Note: implementations are not required to be goroutine-safe. Each
// invocation is short-lived and single-threaded.
package clock

import "time"

// Clock returns the current local instant.
type Clock interface {
	Now() time.Time
}

// System reads the machine's wall clock in its local zone.
type System struct{}

// Now returns time.Now().
func (System) Now() time.Time { return time.Now() }

// Fixed always returns T. Used for "as of" queries and in tests.
type Fixed struct {
	T time.Time
}

// Now returns the fixed instant.
func (f Fixed) Now() time.Time { return f.T }

// Location returns the zone that c reports instants in.
func Location(c Clock) *time.Location { return c.Now().Location() }
