package parser

import "time"

// Line is one raw input line with its provenance.
type Line struct {
	File         string
	Number       int
	Text         string
	InferredDate time.Time
	Truncated    bool
}

// Hit is one successfully parsed log event. Immutable once constructed.
type Hit struct {
	Key          string
	Timestamp    time.Time // zero when the line carries no clock of its own
	Weight       int64
	SourceFile   string
	LineNumber   int
	InferredDate time.Time
}

// Day returns the calendar-day bucket for the hit: the line's own timestamp
// when present, otherwise the date inferred from the source directory.
func (h Hit) Day() string {
	if !h.Timestamp.IsZero() {
		return h.Timestamp.Format("2006-01-02")
	}
	return h.InferredDate.Format("2006-01-02")
}

// Failure records an unparseable line. Failures are collected, never dropped.
type Failure struct {
	SourceFile string
	LineNumber int
	Raw        string
	Reason     string
}

// LineParser converts one raw line into a Hit or a Failure.
// A nil, nil return means the line is skipped (blank lines, transcript noise).
// Implementations must not panic on malformed input.
type LineParser interface {
	// Name returns the format name the parser was registered under.
	Name() string
	// Parse processes one line and returns the outcome.
	Parse(line Line) (*Hit, *Failure)
}

// noClock marks formats whose lines carry no timestamp of their own; the
// bucket then comes from the inferred date.
var noClock time.Time

// newHit builds a Hit carrying the line's provenance.
func newHit(line Line, key string, ts time.Time, weight int64) *Hit {
	return &Hit{
		Key:          key,
		Timestamp:    ts,
		Weight:       weight,
		SourceFile:   line.File,
		LineNumber:   line.Number,
		InferredDate: line.InferredDate,
	}
}

// newFailure builds a Failure. A truncated final line is always reported
// as such, regardless of what the format parser objected to.
func newFailure(line Line, reason string) *Failure {
	if line.Truncated {
		reason = "truncated"
	}
	return &Failure{
		SourceFile: line.File,
		LineNumber: line.Number,
		Raw:        line.Text,
		Reason:     reason,
	}
}
