package report

import (
	"io"
	"os"
	"path/filepath"

	"github.com/go-errors/errors"
)

// Renderer serializes a report to a writer.
type Renderer func(*Report, io.Writer) error

// WriteFile renders the report into dir/name atomically: the content goes to
// a temp file first and is renamed into place, so an aborted run never
// leaves a half-written artifact behind.
func WriteFile(r *Report, dir, name string, render Renderer) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Errorf("create reports dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, name+".tmp-*")
	if err != nil {
		return "", errors.Errorf("create temp report: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := render(r, tmp); err != nil {
		_ = tmp.Close()
		return "", errors.Errorf("render report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", errors.Errorf("close temp report: %w", err)
	}

	final := filepath.Join(dir, name)
	if err := os.Rename(tmp.Name(), final); err != nil {
		return "", errors.Errorf("rename report into place: %w", err)
	}
	return final, nil
}
