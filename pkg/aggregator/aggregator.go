// Package aggregator accumulates hit counts per (day bucket, key) for one
// batch run.
package aggregator

import (
	"github.com/hittracker/hittracker/pkg/parser"
)

// FileError records a file that could not be read during the walk.
type FileError struct {
	Path   string
	Reason string
}

// Snapshot is the immutable result of one aggregation pass.
type Snapshot struct {
	// Buckets maps day (YYYY-MM-DD) to key to count.
	Buckets    map[string]map[string]int64
	Failures   []parser.Failure
	FileErrors []FileError
	Lines      int64
	Hits       int64
	Duplicates int64
}

type provenance struct {
	file string
	line int
}

// Aggregator owns the count map for one run. It is not safe for concurrent
// use: a single goroutine records hits, as in the rest of the pipeline.
type Aggregator struct {
	dedup      bool
	seen       map[provenance]struct{}
	buckets    map[string]map[string]int64
	failures   []parser.Failure
	fileErrors []FileError
	lines      int64
	hits       int64
	duplicates int64
}

// New creates an Aggregator. With dedup enabled, a (file, line) provenance
// pair is counted at most once even if the walker yields it twice.
func New(dedup bool) *Aggregator {
	a := &Aggregator{
		dedup:   dedup,
		buckets: make(map[string]map[string]int64),
	}
	if dedup {
		a.seen = make(map[provenance]struct{})
	}
	return a
}

// Record adds the hit's weight to its (bucket, key) entry. Counts only ever
// grow during a pass.
func (a *Aggregator) Record(hit *parser.Hit) {
	a.lines++
	if a.dedup {
		p := provenance{file: hit.SourceFile, line: hit.LineNumber}
		if _, dup := a.seen[p]; dup {
			a.duplicates++
			return
		}
		a.seen[p] = struct{}{}
	}

	day := hit.Day()
	keys := a.buckets[day]
	if keys == nil {
		keys = make(map[string]int64)
		a.buckets[day] = keys
	}
	keys[hit.Key] += hit.Weight
	a.hits++
}

// Fail records an unparseable line. Failures are never dropped.
func (a *Aggregator) Fail(f *parser.Failure) {
	a.lines++
	a.failures = append(a.failures, *f)
}

// Skip notes a line that was filtered or blank.
func (a *Aggregator) Skip() {
	a.lines++
}

// FileError records an unreadable file; the run continues without it.
func (a *Aggregator) FileError(path string, err error) {
	a.fileErrors = append(a.fileErrors, FileError{Path: path, Reason: err.Error()})
}

// Snapshot returns the accumulated state. The maps are copied so later
// mutation of the Aggregator cannot leak into a handed-out snapshot.
func (a *Aggregator) Snapshot() Snapshot {
	buckets := make(map[string]map[string]int64, len(a.buckets))
	for day, keys := range a.buckets {
		cp := make(map[string]int64, len(keys))
		for k, v := range keys {
			cp[k] = v
		}
		buckets[day] = cp
	}

	return Snapshot{
		Buckets:    buckets,
		Failures:   append([]parser.Failure(nil), a.failures...),
		FileErrors: append([]FileError(nil), a.fileErrors...),
		Lines:      a.lines,
		Hits:       a.hits,
		Duplicates: a.duplicates,
	}
}
