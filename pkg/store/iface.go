// iface.go defines the StoreInterface for dependency injection and testing.
//
// The concrete *Store type satisfies this interface. The tally service and
// the CLI depend on the narrow parts they need, which lets tests substitute
// a fake without SQLite.
package store

import (
	"context"
	"time"

	"github.com/daviddao/pushups/pkg/model"
)

// StoreInterface defines the full set of store operations.
type StoreInterface interface {
	// Close closes the database connection.
	Close() error

	// Init ensures the schema exists. Idempotent.
	Init(ctx context.Context) error

	// Record appends one event and returns its row ID.
	Record(ctx context.Context, reps uint32, at time.Time, notes string) (int64, error)

	// SumInRange sums reps for start <= timestamp < end. 0 when empty.
	SumInRange(ctx context.Context, start, end time.Time) (uint64, error)

	// Get returns one event by ID with its original offset.
	Get(ctx context.Context, id int64) (*model.Event, error)

	// Count returns the number of recorded events.
	Count(ctx context.Context) (int64, error)

	// SchemaVersion reports PRAGMA user_version.
	SchemaVersion(ctx context.Context) (int, error)
}

// Compile-time check that *Store implements StoreInterface.
var _ StoreInterface = (*Store)(nil)
