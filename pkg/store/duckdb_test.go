package store

import (
	"testing"
	"time"
)

func newTestStore(t *testing.T) *DuckDBStore {
	t.Helper()
	s, err := NewDuckDBStore("")
	if err != nil {
		t.Fatalf("NewDuckDBStore: %v", err)
	}
	if err := s.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testRun(id string) Run {
	return Run{
		ID:        id,
		StartedAt: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
		Root:      "logs",
		Format:    "fields",
	}
}

func TestInit(t *testing.T) {
	s := newTestStore(t)

	counts, err := s.HitCounts("", "")
	if err != nil {
		t.Fatalf("HitCounts after init: %v", err)
	}
	if len(counts) != 0 {
		t.Fatalf("expected empty hits table, got %d days", len(counts))
	}
}

func TestSaveRun_AccumulatesHits(t *testing.T) {
	s := newTestStore(t)

	if err := s.SaveRun(testRun("run-1"), []HitRow{
		{Day: "2024-01-02", Key: "/api/login", Count: 3},
		{Day: "2024-01-02", Key: "/healthz", Count: 1},
	}, nil, nil); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	// A later run over a new file for the same day folds in.
	if err := s.SaveRun(testRun("run-2"), []HitRow{
		{Day: "2024-01-02", Key: "/api/login", Count: 2},
	}, nil, nil); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	counts, err := s.HitCounts("", "")
	if err != nil {
		t.Fatalf("HitCounts: %v", err)
	}
	if got := counts["2024-01-02"]["/api/login"]; got != 5 {
		t.Errorf("/api/login: got %d, want 5", got)
	}
	if got := counts["2024-01-02"]["/healthz"]; got != 1 {
		t.Errorf("/healthz: got %d, want 1", got)
	}
}

func TestHitCounts_DayRange(t *testing.T) {
	s := newTestStore(t)

	if err := s.SaveRun(testRun("run-1"), []HitRow{
		{Day: "2024-01-01", Key: "/a", Count: 1},
		{Day: "2024-01-02", Key: "/a", Count: 1},
		{Day: "2024-01-03", Key: "/a", Count: 1},
	}, nil, nil); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	counts, err := s.HitCounts("2024-01-02", "2024-01-02")
	if err != nil {
		t.Fatalf("HitCounts: %v", err)
	}
	if len(counts) != 1 {
		t.Fatalf("days: got %d, want 1", len(counts))
	}
	if _, ok := counts["2024-01-02"]; !ok {
		t.Errorf("expected 2024-01-02, got %v", counts)
	}
}

func TestSeenFile(t *testing.T) {
	s := newTestStore(t)

	seen, err := s.SeenFile("logs/2024-01-02/web.log", "2024-01-02")
	if err != nil {
		t.Fatalf("SeenFile: %v", err)
	}
	if seen {
		t.Error("expected unseen file")
	}

	if err := s.SaveRun(testRun("run-1"), nil, []FileImport{
		{Path: "logs/2024-01-02/web.log", Day: "2024-01-02"},
	}, nil); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	seen, err = s.SeenFile("logs/2024-01-02/web.log", "2024-01-02")
	if err != nil {
		t.Fatalf("SeenFile: %v", err)
	}
	if !seen {
		t.Error("expected seen file after SaveRun")
	}

	// Same path for a different day is a separate import.
	seen, err = s.SeenFile("logs/2024-01-02/web.log", "2024-01-03")
	if err != nil {
		t.Fatalf("SeenFile: %v", err)
	}
	if seen {
		t.Error("expected (path, other day) to be unseen")
	}
}

func TestSaveRun_RepeatedFileImportIgnored(t *testing.T) {
	s := newTestStore(t)

	files := []FileImport{{Path: "a.log", Day: "2024-01-02"}}
	if err := s.SaveRun(testRun("run-1"), nil, files, nil); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if err := s.SaveRun(testRun("run-2"), nil, files, nil); err != nil {
		t.Fatalf("SaveRun repeat: %v", err)
	}
}

func TestSaveRun_DuplicateRunRollsBack(t *testing.T) {
	s := newTestStore(t)

	if err := s.SaveRun(testRun("run-1"), []HitRow{
		{Day: "2024-01-02", Key: "/api/login", Count: 3},
	}, nil, nil); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	// Replaying the same run ID must fail, and none of its writes may stick.
	err := s.SaveRun(testRun("run-1"), []HitRow{
		{Day: "2024-01-02", Key: "/api/login", Count: 2},
	}, []FileImport{{Path: "b.log", Day: "2024-01-02"}}, nil)
	if err == nil {
		t.Fatal("expected an error for a duplicate run ID")
	}

	counts, err := s.HitCounts("", "")
	if err != nil {
		t.Fatalf("HitCounts: %v", err)
	}
	if got := counts["2024-01-02"]["/api/login"]; got != 3 {
		t.Errorf("/api/login after failed save: got %d, want 3", got)
	}
	seen, err := s.SeenFile("b.log", "2024-01-02")
	if err != nil {
		t.Fatalf("SeenFile: %v", err)
	}
	if seen {
		t.Error("file import from a failed save must not stick")
	}
}

func TestRunsRoundTrip(t *testing.T) {
	s := newTestStore(t)

	first := testRun("run-1")
	first.Lines, first.Hits, first.Failures = 10, 8, 2
	second := testRun("run-2")
	second.StartedAt = first.StartedAt.Add(time.Hour)
	second.Lines, second.Hits = 4, 4

	for _, r := range []Run{first, second} {
		if err := s.SaveRun(r, nil, nil, nil); err != nil {
			t.Fatalf("SaveRun: %v", err)
		}
	}

	got, err := s.Runs()
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("runs: got %d, want 2", len(got))
	}
	// Most recent first.
	if got[0].ID != "run-2" || got[1].ID != "run-1" {
		t.Errorf("run order: got %s, %s", got[0].ID, got[1].ID)
	}
	if got[1].Failures != 2 {
		t.Errorf("run-1 failures: got %d, want 2", got[1].Failures)
	}
}

func TestFailuresRoundTrip(t *testing.T) {
	s := newTestStore(t)

	rows := []FailureRow{
		{SourceFile: "b.log", LineNumber: 9, Reason: "leading token is not a date", Raw: "garbage"},
		{SourceFile: "a.log", LineNumber: 4, Reason: "truncated", Raw: "202"},
	}
	if err := s.SaveRun(testRun("run-1"), nil, nil, rows); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	got, err := s.Failures("run-1")
	if err != nil {
		t.Fatalf("Failures: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("failures: got %d, want 2", len(got))
	}
	// Ordered by file then line.
	if got[0].SourceFile != "a.log" || got[1].SourceFile != "b.log" {
		t.Errorf("failure order: got %s, %s", got[0].SourceFile, got[1].SourceFile)
	}

	other, err := s.Failures("run-2")
	if err != nil {
		t.Fatalf("Failures other run: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("expected no failures for run-2, got %d", len(other))
	}
}

func TestStaleKeys(t *testing.T) {
	s := newTestStore(t)

	if err := s.SaveRun(testRun("run-1"), []HitRow{
		{Day: "2024-01-01", Key: "old-policy", Count: 4},
		{Day: "2024-02-01", Key: "old-policy", Count: 2},
		{Day: "2024-06-01", Key: "live-policy", Count: 7},
	}, nil, nil); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	stale, err := s.StaleKeys("2024-05-01")
	if err != nil {
		t.Fatalf("StaleKeys: %v", err)
	}
	if len(stale) != 1 {
		t.Fatalf("stale keys: got %d, want 1", len(stale))
	}
	if stale[0].Key != "old-policy" {
		t.Errorf("Key: got %q", stale[0].Key)
	}
	if stale[0].FirstSeen != "2024-01-01" || stale[0].LastSeen != "2024-02-01" {
		t.Errorf("seen range: got %s..%s", stale[0].FirstSeen, stale[0].LastSeen)
	}
}
