package parser

import (
	"encoding/json"
	"strings"
	"time"
)

// jsonTimeLayouts are tried in order when parsing the time field.
var jsonTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// JSONParser handles one JSON object per line.
type JSONParser struct {
	keyField   string
	timeFields []string
}

// NewJSONParser creates a JSONParser counting by keyField. An explicit
// timeField overrides the default candidates (time, timestamp, ts).
func NewJSONParser(keyField, timeField string) *JSONParser {
	if keyField == "" {
		keyField = "path"
	}
	timeFields := []string{"time", "timestamp", "ts"}
	if timeField != "" {
		timeFields = []string{timeField}
	}
	return &JSONParser{keyField: keyField, timeFields: timeFields}
}

// Name returns the format name.
func (p *JSONParser) Name() string { return "json" }

// Parse decodes the line as a JSON object and extracts the key and time fields.
func (p *JSONParser) Parse(line Line) (*Hit, *Failure) {
	trimmed := strings.TrimSpace(line.Text)
	if trimmed == "" {
		return nil, nil
	}
	if trimmed[0] != '{' {
		return nil, newFailure(line, "not a JSON object")
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &obj); err != nil {
		return nil, newFailure(line, "invalid JSON")
	}

	key := decodeString(obj[p.keyField])
	if key == "" {
		return nil, newFailure(line, "missing key field "+p.keyField)
	}

	var ts time.Time
	for _, f := range p.timeFields {
		raw := decodeString(obj[f])
		if raw == "" {
			continue
		}
		for _, layout := range jsonTimeLayouts {
			if parsed, err := time.Parse(layout, raw); err == nil {
				ts = parsed
				break
			}
		}
		if !ts.IsZero() {
			break
		}
	}

	return newHit(line, key, ts, 1), nil
}

// decodeString unmarshals a raw JSON value as a string, returning "" for
// absent or non-string values.
func decodeString(raw json.RawMessage) string {
	if raw == nil {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}
