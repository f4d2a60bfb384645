// Package walker enumerates log files under date-named directories and
// streams their lines with provenance.
package walker

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/go-errors/errors"
	"github.com/hittracker/hittracker/pkg/parser"
)

// Result wraps either a successfully read value or a read error,
// similar to Result<T, E> in Rust.
type Result[T any] struct {
	Value T
	Err   error
}

// FileError records a file or directory that could not be read. It is
// recoverable: the walk continues with the next file.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// Folder is one date-named directory under the root.
type Folder struct {
	Path string
	Date time.Time
}

var reEightDigits = regexp.MustCompile(`^\d{8}$`)

// folderDate parses a directory name as a date. Both the legacy MMDDYYYY
// layout and YYYY-MM-DD are accepted.
func folderDate(name string) (time.Time, bool) {
	if reEightDigits.MatchString(name) {
		if d, err := time.Parse("01022006", name); err == nil {
			return d, true
		}
	}
	if d, err := time.Parse("2006-01-02", name); err == nil {
		return d, true
	}
	return time.Time{}, false
}

// Folders lists the date-named subdirectories of root, oldest first.
// Directories whose name is not a date are skipped with a warning.
// A missing root is fatal: nothing has been processed yet.
func Folders(root string) ([]Folder, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, errors.Errorf("read log root: %w", err)
	}

	var folders []Folder
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		date, ok := folderDate(e.Name())
		if !ok {
			slog.Warn("skipping non-date directory", "dir", e.Name())
			continue
		}
		folders = append(folders, Folder{
			Path: filepath.Join(root, e.Name()),
			Date: date,
		})
	}

	sort.Slice(folders, func(i, j int) bool {
		if !folders[i].Date.Equal(folders[j].Date) {
			return folders[i].Date.Before(folders[j].Date)
		}
		return folders[i].Path < folders[j].Path
	})
	return folders, nil
}

// Walker streams raw lines for every file under the given folders.
type Walker struct {
	Folders []Folder
	// SkipFile, when set, is consulted with each file's path and inferred
	// date before the file is opened. Returning true skips the file.
	SkipFile func(path string, date time.Time) bool
	// DoneFile, when set, is called once a file has been read through to
	// EOF. A file that fails mid-read is never reported done.
	DoneFile func(path string, date time.Time)
}

// Walk reads each folder's files in name order, one line at a time.
// Unreadable files surface as *FileError results and the walk continues;
// cancel the context to stop early.
func (w *Walker) Walk(ctx context.Context) <-chan Result[*parser.Line] {
	ch := make(chan Result[*parser.Line], 100)
	go func() {
		defer close(ch)
		for _, folder := range w.Folders {
			entries, err := os.ReadDir(folder.Path)
			if err != nil {
				if !emit(ctx, ch, Result[*parser.Line]{Err: &FileError{Path: folder.Path, Err: err}}) {
					return
				}
				continue
			}
			names := make([]string, 0, len(entries))
			for _, e := range entries {
				if e.IsDir() {
					continue
				}
				names = append(names, e.Name())
			}
			sort.Strings(names)

			for _, name := range names {
				path := filepath.Join(folder.Path, name)
				if w.SkipFile != nil && w.SkipFile(path, folder.Date) {
					continue
				}
				if !w.streamFile(ctx, ch, path, folder.Date) {
					return
				}
			}
		}
	}()
	return ch
}

// streamFile reads one file line by line. The final line of a file without a
// trailing newline is flagged as truncated. Returns false when the context
// was canceled.
func (w *Walker) streamFile(ctx context.Context, ch chan<- Result[*parser.Line], path string, date time.Time) bool {
	file, err := os.Open(path)
	if err != nil {
		return emit(ctx, ch, Result[*parser.Line]{Err: &FileError{Path: path, Err: err}})
	}
	defer func() { _ = file.Close() }()

	reader := bufio.NewReader(file)
	lineNum := 0
	for {
		text, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return emit(ctx, ch, Result[*parser.Line]{Err: &FileError{Path: path, Err: err}})
		}
		if text == "" && err == io.EOF {
			w.done(path, date)
			return true
		}
		lineNum++
		line := &parser.Line{
			File:         path,
			Number:       lineNum,
			Text:         strings.TrimRight(text, "\r\n"),
			InferredDate: date,
			Truncated:    err == io.EOF,
		}
		if !emit(ctx, ch, Result[*parser.Line]{Value: line}) {
			return false
		}
		if err == io.EOF {
			w.done(path, date)
			return true
		}
	}
}

func (w *Walker) done(path string, date time.Time) {
	if w.DoneFile != nil {
		w.DoneFile(path, date)
	}
}

func emit(ctx context.Context, ch chan<- Result[*parser.Line], r Result[*parser.Line]) bool {
	select {
	case ch <- r:
		return true
	case <-ctx.Done():
		return false
	}
}

// Sample collects up to limit non-blank lines from the folders, in walk
// order. Used to resolve the auto format before the real pass.
func Sample(ctx context.Context, folders []Folder, limit int) []string {
	w := &Walker{Folders: folders}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var samples []string
	for rr := range w.Walk(ctx) {
		if rr.Err != nil {
			continue
		}
		if strings.TrimSpace(rr.Value.Text) == "" {
			continue
		}
		samples = append(samples, rr.Value.Text)
		if len(samples) >= limit {
			break
		}
	}
	return samples
}
