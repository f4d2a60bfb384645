package parser

import (
	"strings"
	"time"

	"github.com/trivago/grok"
)

// httpdateLayout matches the clock field of Apache-style access logs.
const httpdateLayout = "02/Jan/2006:15:04:05 -0700"

// accesslogDefs are tried in order; combined is a superset of common.
var accesslogDefs = []string{
	"%{COMBINEDAPACHELOG}",
	"%{COMMONAPACHELOG}",
}

// AccessLogParser matches Apache common/combined access log lines and counts
// hits by request path.
type AccessLogParser struct {
	compiled []*grok.CompiledGrok
}

// NewAccessLogParser creates an AccessLogParser with pre-compiled patterns.
func NewAccessLogParser() (*AccessLogParser, error) {
	g, err := grok.New(grok.Config{
		NamedCapturesOnly: true,
	})
	if err != nil {
		return nil, err
	}

	compiled := make([]*grok.CompiledGrok, 0, len(accesslogDefs))
	for _, def := range accesslogDefs {
		c, err := g.Compile(def)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, c)
	}
	return &AccessLogParser{compiled: compiled}, nil
}

// Name returns the format name.
func (p *AccessLogParser) Name() string { return "accesslog" }

// Parse tries each pattern in order and returns the first match, keyed by
// the request path.
func (p *AccessLogParser) Parse(line Line) (*Hit, *Failure) {
	if strings.TrimSpace(line.Text) == "" {
		return nil, nil
	}

	for _, c := range p.compiled {
		fields := c.ParseString(line.Text)
		if len(fields) == 0 {
			continue
		}

		key := fields["request"]
		if key == "" {
			key = fields["rawrequest"]
		}
		if key == "" {
			return nil, newFailure(line, "access log line without request")
		}

		var ts time.Time
		if raw := fields["timestamp"]; raw != "" {
			if parsed, err := time.Parse(httpdateLayout, raw); err == nil {
				ts = parsed
			}
		}

		return newHit(line, key, ts, 1), nil
	}
	return nil, newFailure(line, "no access log pattern matched")
}
