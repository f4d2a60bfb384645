package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Junos "show security policies hit-count" rows:
//
//	Index   From zone  To zone  Name       Policy count
//	1       trust      untrust  allow-web  120
var reJunosRow = regexp.MustCompile(`^\s*\d+\s+(\S+)\s+(\S+)\s+(\S+)\s+(\d+)\s*$`)

// JunosParser reads Junos "show security policies hit-count" transcripts.
// Keys identify a policy by its zone pair and name; the policy count column
// becomes the hit weight. Command echo, headers and summary lines are
// skipped, not reported.
type JunosParser struct{}

// NewJunosParser creates a JunosParser.
func NewJunosParser() *JunosParser { return &JunosParser{} }

// Name returns the format name.
func (p *JunosParser) Name() string { return "junos" }

// Parse extracts (zone pair + policy name, count) from hit-count table rows.
func (p *JunosParser) Parse(line Line) (*Hit, *Failure) {
	if strings.TrimSpace(line.Text) == "" {
		return nil, nil
	}

	m := reJunosRow.FindStringSubmatch(line.Text)
	if m == nil {
		return nil, nil
	}

	weight, err := strconv.ParseInt(m[4], 10, 64)
	if err != nil {
		return nil, newFailure(line, "hit counter overflows")
	}
	key := fmt.Sprintf("from-zone %s to-zone %s policy %s", m[1], m[2], m[3])
	return newHit(line, key, noClock, weight), nil
}
