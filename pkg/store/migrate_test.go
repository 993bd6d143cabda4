package store

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

// legacySchema is the table layout written by the first release, before
// timestamp_utc existed.
const legacySchema = `
CREATE TABLE IF NOT EXISTS pushups (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	reps INTEGER NOT NULL,
	timestamp DATETIME NOT NULL,
	notes TEXT
);
CREATE INDEX IF NOT EXISTS idx_pushups_timestamp ON pushups(timestamp);
`

func writeLegacyDB(t *testing.T, rows map[int]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "legacy.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	if _, err := db.Exec(legacySchema); err != nil {
		t.Fatal(err)
	}
	for reps, ts := range rows {
		if _, err := db.Exec(`INSERT INTO pushups (reps, timestamp, notes) VALUES (?, ?, NULL)`, reps, ts); err != nil {
			t.Fatal(err)
		}
	}
	return path
}

func TestMigrate_BackfillsLegacyRows(t *testing.T) {
	path := writeLegacyDB(t, map[int]string{
		10: "2024-03-11T09:00:00.123456+00:00",
		20: "2024-03-11T18:00:00-04:00",
		5:  "2024-03-10T23:30:00-05:00",
	})

	s, err := New(path)
	if err != nil {
		t.Fatalf("New on legacy db: %v", err)
	}
	defer s.Close()
	ctx := context.Background()

	v, err := s.SchemaVersion(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if v != 1 {
		t.Fatalf("schema version = %d, want 1", v)
	}

	var blanks int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM pushups WHERE timestamp_utc = ''`).Scan(&blanks); err != nil {
		t.Fatal(err)
	}
	if blanks != 0 {
		t.Fatalf("%d rows left without timestamp_utc", blanks)
	}

	// Monday 2024-03-11 in EDT: all three sets fall inside it.
	start := time.Date(2024, 3, 11, 0, 0, 0, 0, edt)
	got, err := s.SumInRange(ctx, start, start.AddDate(0, 0, 1))
	if err != nil {
		t.Fatal(err)
	}
	if got != 35 {
		t.Fatalf("sum over migrated rows = %d, want 35", got)
	}

	// New rows after migration land next to the old ones.
	if _, err := s.Record(ctx, 1, start.Add(time.Hour), ""); err != nil {
		t.Fatal(err)
	}
	got, _ = s.SumInRange(ctx, start, start.AddDate(0, 0, 1))
	if got != 36 {
		t.Fatalf("sum after new record = %d, want 36", got)
	}
}

func TestInit_BackfillsRowsInsertedAfterMigration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shared.db")
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	s.Close()

	// An older build of the tool writes only the columns it knows about.
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`INSERT INTO pushups (reps, timestamp) VALUES (12, '2024-03-11T09:00:00-04:00')`); err != nil {
		t.Fatal(err)
	}
	db.Close()

	s, err = New(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	start := time.Date(2024, 3, 11, 0, 0, 0, 0, edt)
	got, err := s.SumInRange(context.Background(), start, start.AddDate(0, 0, 1))
	if err != nil {
		t.Fatal(err)
	}
	if got != 12 {
		t.Fatalf("sum = %d, want 12 from the row written without timestamp_utc", got)
	}
}

func TestMigrate_RejectsUnparseableTimestamp(t *testing.T) {
	path := writeLegacyDB(t, map[int]string{7: "last tuesday"})

	_, err := New(path)
	if err == nil {
		t.Fatal("expected migration to fail on an unparseable timestamp")
	}
	var se *StorageError
	if !errors.As(err, &se) || se.Op != "migrate v1" {
		t.Fatalf("error = %v, want StorageError from migrate v1", err)
	}

	// The failed migration rolled back: the column was not added.
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		t.Fatal(err)
	}
	if version != 0 {
		t.Fatalf("user_version = %d after failed migration, want 0", version)
	}
}

func TestParseTimestamp(t *testing.T) {
	cases := []struct {
		in     string
		offset int
	}{
		{"2024-03-10T23:59:59-05:00", -5 * 3600},
		{"2024-03-10T23:59:59.987654321+05:30", 5*3600 + 30*60},
		{"2024-03-10T23:59:59Z", 0},
		{"2024-03-10 23:59:59.5-04:00", -4 * 3600},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := parseTimestamp(tc.in)
			if err != nil {
				t.Fatalf("parseTimestamp(%q): %v", tc.in, err)
			}
			if _, off := got.Zone(); off != tc.offset {
				t.Fatalf("offset = %d, want %d", off, tc.offset)
			}
		})
	}

	if _, err := parseTimestamp("not a time"); err == nil {
		t.Fatal("expected error for garbage timestamp")
	}
}

func TestUTCKeyIsFixedWidthAndOrdered(t *testing.T) {
	// a is 04:30Z, b is 04:15Z plus 5ns, c is 04:15:00.5Z.
	a := time.Date(2024, 3, 10, 23, 30, 0, 0, est)
	b := time.Date(2024, 3, 11, 0, 15, 0, 5, edt)
	c := time.Date(2024, 3, 11, 4, 15, 0, 500000000, time.UTC)

	ka, kb, kc := utcKey(a), utcKey(b), utcKey(c)
	if len(ka) != len(utcLayout) || len(kb) != len(utcLayout) || len(kc) != len(utcLayout) {
		t.Fatalf("keys are not fixed width: %q %q %q", ka, kb, kc)
	}
	if !(kb < kc && kc < ka) {
		t.Fatalf("lexicographic order %q %q %q does not match chronological order", kb, kc, ka)
	}
}
