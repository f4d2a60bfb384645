// Package report turns aggregation state into ordered, deterministic report
// models and renders them.
package report

import (
	"sort"

	"github.com/hittracker/hittracker/pkg/aggregator"
	"github.com/hittracker/hittracker/pkg/parser"
)

// Row is one counted key within a section.
type Row struct {
	Key   string
	Count int64
}

// Section holds the rows for one day bucket.
type Section struct {
	Day   string
	Rows  []Row
	Total int64
}

// FailureSummary aggregates parse failures per source file.
type FailureSummary struct {
	SourceFile string
	Count      int
	// Sample is the first failure seen in the file.
	Sample parser.Failure
}

// DriftCluster is a recurring shape among failed lines, used to spot
// format drift.
type DriftCluster struct {
	Pattern string
	Count   int
}

// Report is the final ordered model for one run. Two runs over identical
// input produce identical Reports.
type Report struct {
	Sections   []Section
	Failures   []FailureSummary
	FileErrors []aggregator.FileError
	Drift      []DriftCluster
	TotalHits  int64
}

// Empty reports whether the run produced neither hits nor failures.
func (r *Report) Empty() bool {
	return len(r.Sections) == 0 && len(r.Failures) == 0 && len(r.FileErrors) == 0
}

// Build converts a snapshot into a Report: sections chronological, rows
// sorted by count descending then key ascending, failures summarized per
// source file. Buckets with no hits are omitted, never fabricated.
func Build(snap aggregator.Snapshot) *Report {
	r := &Report{}

	days := make([]string, 0, len(snap.Buckets))
	for day := range snap.Buckets {
		days = append(days, day)
	}
	sort.Strings(days)

	for _, day := range days {
		keys := snap.Buckets[day]
		if len(keys) == 0 {
			continue
		}
		section := Section{Day: day, Rows: make([]Row, 0, len(keys))}
		for key, count := range keys {
			section.Rows = append(section.Rows, Row{Key: key, Count: count})
			section.Total += count
		}
		sort.Slice(section.Rows, func(i, j int) bool {
			if section.Rows[i].Count != section.Rows[j].Count {
				return section.Rows[i].Count > section.Rows[j].Count
			}
			return section.Rows[i].Key < section.Rows[j].Key
		})
		r.Sections = append(r.Sections, section)
		r.TotalHits += section.Total
	}

	byFile := make(map[string]*FailureSummary)
	for _, f := range snap.Failures {
		s := byFile[f.SourceFile]
		if s == nil {
			s = &FailureSummary{SourceFile: f.SourceFile, Sample: f}
			byFile[s.SourceFile] = s
		}
		s.Count++
	}
	for _, s := range byFile {
		r.Failures = append(r.Failures, *s)
	}
	sort.Slice(r.Failures, func(i, j int) bool {
		return r.Failures[i].SourceFile < r.Failures[j].SourceFile
	})

	r.FileErrors = append(r.FileErrors, snap.FileErrors...)
	sort.Slice(r.FileErrors, func(i, j int) bool {
		return r.FileErrors[i].Path < r.FileErrors[j].Path
	})

	r.Drift = clusterFailures(snap.Failures, driftTopClusters)

	return r
}
