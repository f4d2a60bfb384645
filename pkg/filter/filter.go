// Package filter drops noise lines before they reach the parser, driven by a
// regex list loaded from a filter file.
package filter

import (
	"bufio"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"github.com/go-errors/errors"
)

// Filter holds the compiled drop patterns.
type Filter struct {
	patterns []*regexp.Regexp
}

// Default returns a filter that only drops comment lines.
func Default() *Filter {
	return &Filter{patterns: []*regexp.Regexp{regexp.MustCompile(`^#`)}}
}

// Load reads a filter file with one pattern per line. Blank lines and lines
// starting with # are ignored; an uncompilable pattern is skipped with a
// warning. The default comment pattern is always present. A missing file is
// not an error: the default filter is returned.
func Load(path string) (*Filter, error) {
	f := Default()
	if path == "" {
		return f, nil
	}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Warn("filter file not found, using defaults", "path", path)
			return f, nil
		}
		return nil, errors.Errorf("open filter file: %w", err)
	}
	defer func() { _ = file.Close() }()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" || strings.HasPrefix(raw, "#") {
			continue
		}
		rx, err := regexp.Compile(raw)
		if err != nil {
			slog.Warn("skipping invalid filter pattern", "pattern", raw, "err", err)
			continue
		}
		f.patterns = append(f.patterns, rx)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Errorf("read filter file: %w", err)
	}
	return f, nil
}

// Drop reports whether the line matches any drop pattern.
func (f *Filter) Drop(line string) bool {
	for _, rx := range f.patterns {
		if rx.MatchString(line) {
			return true
		}
	}
	return false
}
