// Package store persists hit history across batch runs.
package store

import "time"

// Run records one ingest run.
type Run struct {
	ID        string
	StartedAt time.Time
	Root      string
	Format    string
	Lines     int64
	Hits      int64
	Failures  int64
}

// HitRow is one (day, key) count.
type HitRow struct {
	Day   string
	Key   string
	Count int64
}

// FileImport marks a (file, day) pair as ingested, so re-runs over an
// unchanged tree never double count.
type FileImport struct {
	Path string
	Day  string
}

// FailureRow is one persisted parse failure.
type FailureRow struct {
	SourceFile string
	LineNumber int
	Reason     string
	Raw        string
}

// StaleKey is a key that has not produced hits since LastSeen.
type StaleKey struct {
	Key       string
	FirstSeen string
	LastSeen  string
}

// Store persists runs, ingested files and hit counts.
type Store interface {
	// Init creates tables if they don't exist.
	Init() error
	// SaveRun persists everything a finished run produced in a single
	// transaction: hit counts fold into the history, (path, day) pairs are
	// marked as ingested, failures and the run summary row are stored.
	// Either all of it lands or none of it does.
	SaveRun(run Run, hits []HitRow, files []FileImport, failures []FailureRow) error
	// Runs returns all recorded runs, most recent first.
	Runs() ([]Run, error)
	// SeenFile reports whether (path, day) was already ingested.
	SeenFile(path, day string) (bool, error)
	// HitCounts returns day->key->count for the inclusive day range;
	// empty bounds mean unbounded.
	HitCounts(from, to string) (map[string]map[string]int64, error)
	// Failures returns the failures recorded by a run, in insertion order.
	Failures(runID string) ([]FailureRow, error)
	// StaleKeys returns keys whose most recent hit day is before the given
	// day, oldest last-seen first.
	StaleKeys(before string) ([]StaleKey, error)
	// Close releases resources.
	Close() error
}
