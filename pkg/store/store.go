// Package store manages SQLite persistence for pushups.
//
// The log is a single append-only table. Each row keeps two renderings of
// its instant:
//
//   - timestamp: RFC 3339 with the UTC offset in force when the set was
//     recorded. This is the historical record and is never rewritten.
//   - timestamp_utc: the same instant in fixed-width UTC. Range queries
//     compare this column, so lexicographic order is chronological order
//     no matter which offset was active at record or query time.
//
// Concurrency: one invocation performs one insert or one read. Two racing
// invocations rely on SQLite's atomic single-row insert and busy_timeout;
// nothing here arbitrates between writers.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/daviddao/pushups/pkg/model"

	_ "modernc.org/sqlite"
)

// utcLayout is fixed width: always nine fractional digits and a literal Z.
const utcLayout = "2006-01-02T15:04:05.000000000Z"

// Schema version tracking:
// 0 - table as created by the first release (timestamp only)
// 1 - timestamp_utc comparison column and its index
const currentSchemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS pushups (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	reps          INTEGER NOT NULL,
	timestamp     TEXT NOT NULL,
	notes         TEXT,
	timestamp_utc TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_pushups_timestamp ON pushups(timestamp);
`

// Store is the event log.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the SQLite database and initializes the schema.
func New(path string) (*Store, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(10000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, storageErr("open", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db}
	if err := s.Init(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Init creates the table and indexes if absent and brings the schema to
// currentSchemaVersion. Safe to call on every start and more than once.
func (s *Store) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return storageErr("init", err)
	}
	version, err := s.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	if version < 1 {
		if err := s.migrateToV1(ctx); err != nil {
			return storageErr("migrate v1", err)
		}
		return nil
	}
	if err := s.backfill(ctx); err != nil {
		return storageErr("backfill", err)
	}
	return nil
}

// SchemaVersion reports PRAGMA user_version.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, storageErr("schema version", err)
	}
	return version, nil
}

// migrateToV1 adds timestamp_utc to logs written before it existed and
// fills it from each row's RFC 3339 timestamp. Runs in one transaction.
func (s *Store) migrateToV1(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	has, err := hasColumn(ctx, tx, "pushups", "timestamp_utc")
	if err != nil {
		return err
	}
	if !has {
		if _, err := tx.ExecContext(ctx,
			`ALTER TABLE pushups ADD COLUMN timestamp_utc TEXT NOT NULL DEFAULT ''`); err != nil {
			return fmt.Errorf("add timestamp_utc: %w", err)
		}
	}

	if err := backfillUTC(ctx, tx); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`CREATE INDEX IF NOT EXISTS idx_pushups_timestamp_utc ON pushups(timestamp_utc)`); err != nil {
		return fmt.Errorf("create timestamp_utc index: %w", err)
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return tx.Commit()
}

// backfillUTC fills timestamp_utc for rows that lack it. Besides legacy
// rows found by the v1 migration, these are rows inserted later by tools
// that only know the timestamp column.
func backfillUTC(ctx context.Context, tx *sql.Tx) error {
	type pending struct {
		id int64
		ts string
	}
	rows, err := tx.QueryContext(ctx, `SELECT id, timestamp FROM pushups WHERE timestamp_utc = ''`)
	if err != nil {
		return fmt.Errorf("select rows to backfill: %w", err)
	}
	var todo []pending
	for rows.Next() {
		var p pending
		if err := rows.Scan(&p.id, &p.ts); err != nil {
			rows.Close()
			return err
		}
		todo = append(todo, p)
	}
	if err := rows.Close(); err != nil {
		return err
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, p := range todo {
		at, err := parseTimestamp(p.ts)
		if err != nil {
			return fmt.Errorf("backfill row %d: %w", p.id, err)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE pushups SET timestamp_utc = ? WHERE id = ?`, utcKey(at), p.id); err != nil {
			return fmt.Errorf("backfill row %d: %w", p.id, err)
		}
	}
	return nil
}

// backfill runs backfillUTC in its own transaction when any row needs it.
func (s *Store) backfill(ctx context.Context) error {
	var missing bool
	if err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM pushups WHERE timestamp_utc = '')`).Scan(&missing); err != nil {
		return fmt.Errorf("check rows to backfill: %w", err)
	}
	if !missing {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	if err := backfillUTC(ctx, tx); err != nil {
		return err
	}
	return tx.Commit()
}

// ---------------------------------------------------------------------------
// Events
// ---------------------------------------------------------------------------

// Record appends an event and returns its auto-generated row ID. An empty
// notes string is stored as NULL.
func (s *Store) Record(ctx context.Context, reps uint32, at time.Time, notes string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO pushups (reps, timestamp, notes, timestamp_utc) VALUES (?, ?, ?, ?)`,
		int64(reps), at.Format(time.RFC3339Nano), nullString(notes), utcKey(at),
	)
	if err != nil {
		return 0, storageErr("record", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, storageErr("record", err)
	}
	return id, nil
}

// SumInRange returns the total reps recorded at or after start and strictly
// before end. No matching rows is 0, not an error.
func (s *Store) SumInRange(ctx context.Context, start, end time.Time) (uint64, error) {
	var total int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(reps), 0) FROM pushups
		 WHERE timestamp_utc >= ? AND timestamp_utc < ?`,
		utcKey(start), utcKey(end),
	).Scan(&total)
	if err != nil {
		return 0, storageErr("sum", err)
	}
	if total < 0 {
		// reps is written from a uint32; a negative sum means the file was
		// edited by hand.
		return 0, storageErr("sum", fmt.Errorf("negative total %d", total))
	}
	return uint64(total), nil
}

// Get returns one event by ID with its original offset.
func (s *Store) Get(ctx context.Context, id int64) (*model.Event, error) {
	var (
		e     model.Event
		reps  int64
		ts    string
		notes sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, reps, timestamp, notes FROM pushups WHERE id = ?`, id,
	).Scan(&e.ID, &reps, &ts, &notes)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("event %d: %w", id, err)
	}
	if err != nil {
		return nil, storageErr("get", err)
	}
	e.Reps = uint32(reps)
	e.Notes = notes.String
	if e.Timestamp, err = parseTimestamp(ts); err != nil {
		return nil, fmt.Errorf("parse timestamp for event %d: %w", e.ID, err)
	}
	return &e, nil
}

// Count returns the total number of events in the log.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pushups`).Scan(&n); err != nil {
		return 0, storageErr("count", err)
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func utcKey(t time.Time) string { return t.UTC().Format(utcLayout) }

// legacyLayouts are tried in order when reading a timestamp column.
var legacyLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
}

func parseTimestamp(s string) (time.Time, error) {
	var firstErr error
	for _, layout := range legacyLayouts {
		t, err := time.ParseInLocation(layout, s, time.Local)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

func hasColumn(ctx context.Context, tx *sql.Tx, table, column string) (bool, error) {
	rows, err := tx.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false, fmt.Errorf("table_info %s: %w", table, err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			cid     int
			name    string
			typ     string
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk); err != nil {
			return false, err
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
