package parser

import (
	"regexp"
	"strconv"
	"strings"
)

var reASAHit = regexp.MustCompile(`^\s*access-list\s+(\S+)\s+.*\(hitcnt=(\d+)\)`)

// ASAParser reads Cisco ASA "show access-list" transcripts. Each ACE line
// carries its own hit counter, which becomes the hit weight; the ACL name is
// the key. Transcript noise (banners, prompts, remarks) is skipped, not
// reported, because device output interleaves it with every capture.
type ASAParser struct{}

// NewASAParser creates an ASAParser.
func NewASAParser() *ASAParser { return &ASAParser{} }

// Name returns the format name.
func (p *ASAParser) Name() string { return "asa" }

// Parse extracts (acl name, hitcnt) from access-list lines.
func (p *ASAParser) Parse(line Line) (*Hit, *Failure) {
	if strings.TrimSpace(line.Text) == "" {
		return nil, nil
	}

	m := reASAHit.FindStringSubmatch(line.Text)
	if m == nil {
		return nil, nil
	}

	weight, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return nil, newFailure(line, "hit counter overflows")
	}
	return newHit(line, m[1], noClock, weight), nil
}
