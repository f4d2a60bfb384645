package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-errors/errors"
	"github.com/hittracker/hittracker/pkg/filter"
	"github.com/hittracker/hittracker/pkg/parser"
	"github.com/hittracker/hittracker/pkg/store"
	"github.com/hittracker/hittracker/pkg/walker"
)

type stubStore struct {
	seen    map[string]bool
	seenErr error
}

func (s *stubStore) Init() error { return nil }
func (s *stubStore) SaveRun(run store.Run, hits []store.HitRow, files []store.FileImport, failures []store.FailureRow) error {
	return nil
}
func (s *stubStore) Runs() ([]store.Run, error) { return nil, nil }
func (s *stubStore) SeenFile(path, day string) (bool, error) {
	if s.seenErr != nil {
		return false, s.seenErr
	}
	return s.seen[path], nil
}
func (s *stubStore) HitCounts(from, to string) (map[string]map[string]int64, error) {
	return nil, nil
}
func (s *stubStore) Failures(runID string) ([]store.FailureRow, error) { return nil, nil }
func (s *stubStore) StaleKeys(before string) ([]store.StaleKey, error) { return nil, nil }
func (s *stubStore) Close() error                                      { return nil }

func ingestFixture(t *testing.T, root string) ([]walker.Folder, parser.LineParser, *filter.Filter) {
	t.Helper()
	folders, err := walker.Folders(root)
	if err != nil {
		t.Fatalf("Folders: %v", err)
	}
	p, err := parser.New(parser.Options{Format: parser.FormatFields})
	if err != nil {
		t.Fatalf("parser: %v", err)
	}
	return folders, p, filter.Default()
}

func writeLog(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestCollectHits_StoreCheckFailureAborts(t *testing.T) {
	root := t.TempDir()
	writeLog(t, filepath.Join(root, "2024-01-02", "web.log"), "2024-01-02 /a 200\n")
	folders, p, drop := ingestFixture(t, root)

	s := &stubStore{seenErr: errors.New("database handle lost")}
	_, _, _, err := collectHits(context.Background(), folders, p, drop, s, true)
	if err == nil {
		t.Fatal("expected a store check failure to abort the run")
	}
}

func TestCollectHits_UnreadableFileNotMarked(t *testing.T) {
	root := t.TempDir()
	writeLog(t, filepath.Join(root, "2024-01-02", "good.log"), "2024-01-02 /a 200\n")
	bad := filepath.Join(root, "2024-01-02", "z.log")
	if err := os.Symlink("missing-target", bad); err != nil {
		t.Fatalf("symlink: %v", err)
	}
	folders, p, drop := ingestFixture(t, root)

	snap, imports, _, err := collectHits(context.Background(), folders, p, drop, &stubStore{}, true)
	if err != nil {
		t.Fatalf("collectHits: %v", err)
	}
	if snap.Hits != 1 {
		t.Errorf("Hits: got %d, want 1", snap.Hits)
	}
	if len(snap.FileErrors) != 1 {
		t.Fatalf("FileErrors: got %d, want 1", len(snap.FileErrors))
	}
	if len(imports) != 1 {
		t.Fatalf("imports: got %d, want only the completed file", len(imports))
	}
	for f := range imports {
		if filepath.Base(f.Path) != "good.log" {
			t.Errorf("imported %s, want good.log", f.Path)
		}
	}
}

func TestCollectHits_SkipsSeenFiles(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "2024-01-02", "web.log")
	writeLog(t, path, "2024-01-02 /a 200\n")
	folders, p, drop := ingestFixture(t, root)

	s := &stubStore{seen: map[string]bool{path: true}}
	snap, imports, skipped, err := collectHits(context.Background(), folders, p, drop, s, true)
	if err != nil {
		t.Fatalf("collectHits: %v", err)
	}
	if skipped != 1 {
		t.Errorf("skipped: got %d, want 1", skipped)
	}
	if snap.Lines != 0 {
		t.Errorf("Lines: got %d, want 0", snap.Lines)
	}
	if len(imports) != 0 {
		t.Errorf("imports: got %d, want 0 for a fully skipped run", len(imports))
	}
}
