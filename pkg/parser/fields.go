package parser

import (
	"strings"
	"time"
)

// FieldsParser handles whitespace-delimited lines that start with a date or
// datetime, e.g. "2024-01-02 /api/login 200" or
// "2024-01-02 15:04:05 /api/login 200".
type FieldsParser struct {
	// keyIndex is the 1-based token position of the key. Zero means
	// "first token after the timestamp".
	keyIndex int
}

// NewFieldsParser creates a FieldsParser. keyIndex selects the key token
// (1-based over all tokens); pass 0 to take the first token after the
// timestamp.
func NewFieldsParser(keyIndex int) *FieldsParser {
	return &FieldsParser{keyIndex: keyIndex}
}

// Name returns the format name.
func (p *FieldsParser) Name() string { return "fields" }

// Parse splits the line on whitespace, reads the leading timestamp and
// extracts the key token.
func (p *FieldsParser) Parse(line Line) (*Hit, *Failure) {
	tokens := strings.Fields(line.Text)
	if len(tokens) == 0 {
		return nil, nil
	}

	ts, err := time.Parse("2006-01-02", tokens[0])
	if err != nil {
		return nil, newFailure(line, "leading token is not a date")
	}
	consumed := 1

	// An optional clock token directly after the date.
	if len(tokens) > 1 {
		if clock, err := time.Parse("15:04:05", tokens[1]); err == nil {
			ts = ts.Add(time.Duration(clock.Hour())*time.Hour +
				time.Duration(clock.Minute())*time.Minute +
				time.Duration(clock.Second())*time.Second)
			consumed = 2
		}
	}

	keyAt := consumed
	if p.keyIndex > 0 {
		keyAt = p.keyIndex - 1
	}
	if keyAt >= len(tokens) {
		return nil, newFailure(line, "missing key token")
	}

	return newHit(line, tokens[keyAt], ts, 1), nil
}
