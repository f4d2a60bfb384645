package parser

import (
	"github.com/go-errors/errors"
)

// DetectSampleSize is the default number of lines sampled for detection.
const DetectSampleSize = 100

// Detect picks the concrete format that parses the most sample lines.
// Ties resolve to the earlier format in registration order; zero matches
// across all formats is a configuration error.
func Detect(samples []string, opts Options) (string, error) {
	bestName := ""
	bestCount := 0

	for _, info := range Formats() {
		opts.Format = info.Name
		p, err := New(opts)
		if err != nil {
			return "", err
		}

		count := 0
		for i, s := range samples {
			hit, _ := p.Parse(Line{File: "<sample>", Number: i + 1, Text: s})
			if hit != nil {
				count++
			}
		}
		if count > bestCount {
			bestName = info.Name
			bestCount = count
		}
	}

	if bestName == "" {
		return "", errors.Errorf("could not detect a log format from %d sample lines", len(samples))
	}
	return bestName, nil
}
