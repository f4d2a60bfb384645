package parser

import (
	"github.com/go-errors/errors"
)

// Format names accepted by New.
const (
	FormatAuto      = "auto"
	FormatFields    = "fields"
	FormatJSON      = "json"
	FormatAccessLog = "accesslog"
	FormatASA       = "asa"
	FormatJunos     = "junos"
)

// Options configure the selected line format.
type Options struct {
	Format    string
	KeyIndex  int    // fields: 1-based key token position, 0 = after timestamp
	KeyField  string // json: field to count by
	TimeField string // json: explicit time field
}

// Info describes a registered format for CLI listings.
type Info struct {
	Name        string
	Description string
}

// Formats returns the registered formats in detection order.
func Formats() []Info {
	return []Info{
		{FormatJSON, "one JSON object per line, counted by a key field"},
		{FormatAccessLog, "Apache common/combined access logs, counted by request path"},
		{FormatASA, "Cisco ASA show access-list output, weighted by hitcnt"},
		{FormatJunos, "Junos show security policies hit-count output"},
		{FormatFields, "whitespace-delimited lines with a leading date"},
	}
}

// New builds the line parser for opts.Format. An unknown format name is a
// configuration error; callers treat it as fatal before any file is read.
// FormatAuto must be resolved through Detect first.
func New(opts Options) (LineParser, error) {
	switch opts.Format {
	case FormatFields:
		return NewFieldsParser(opts.KeyIndex), nil
	case FormatJSON:
		return NewJSONParser(opts.KeyField, opts.TimeField), nil
	case FormatAccessLog:
		return NewAccessLogParser()
	case FormatASA:
		return NewASAParser(), nil
	case FormatJunos:
		return NewJunosParser(), nil
	case FormatAuto:
		return nil, errors.Errorf("format %q must be resolved with Detect before building a parser", opts.Format)
	default:
		return nil, errors.Errorf("unknown log format %q (run 'hittracker formats' for the supported set)", opts.Format)
	}
}
