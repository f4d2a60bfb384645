package store

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2"
)

// DuckDBStore implements Store using DuckDB.
type DuckDBStore struct {
	db *sql.DB
}

var _ Store = (*DuckDBStore)(nil)

// NewDuckDBStore creates a new DuckDB-backed store.
// Pass dsn="" for in-memory, or a file path for persistent storage.
func NewDuckDBStore(dsn string) (*DuckDBStore, error) {
	db, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	return &DuckDBStore{db: db}, nil
}

// Init creates the runs, ingested_files, hits and parse_failures tables if
// they do not exist.
func (s *DuckDBStore) Init() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			run_id VARCHAR PRIMARY KEY,
			started_at TIMESTAMP,
			root VARCHAR,
			format VARCHAR,
			lines BIGINT,
			hits BIGINT,
			failures BIGINT
		)`,
		`CREATE TABLE IF NOT EXISTS ingested_files (
			path VARCHAR,
			day VARCHAR,
			run_id VARCHAR,
			PRIMARY KEY (path, day)
		)`,
		`CREATE TABLE IF NOT EXISTS hits (
			day VARCHAR,
			key VARCHAR,
			count BIGINT,
			PRIMARY KEY (day, key)
		)`,
		`CREATE TABLE IF NOT EXISTS parse_failures (
			run_id VARCHAR,
			source_file VARCHAR,
			line_number INTEGER,
			reason VARCHAR,
			raw VARCHAR
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("create tables: %w", err)
		}
	}
	return nil
}

// SaveRun persists one finished run in a single transaction, so a crash
// mid-persist can never leave hits counted without their files marked.
// The run row goes in last: a conflicting run ID rolls everything back.
func (s *DuckDBStore) SaveRun(run Run, hits []HitRow, files []FileImport, failures []FailureRow) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := saveHits(tx, hits); err != nil {
		return err
	}
	if err := saveFiles(tx, run.ID, files); err != nil {
		return err
	}
	if err := saveFailures(tx, run.ID, failures); err != nil {
		return err
	}

	if _, err := tx.Exec(
		`INSERT INTO runs (run_id, started_at, root, format, lines, hits, failures)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt, run.Root, run.Format, run.Lines, run.Hits, run.Failures,
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func saveHits(tx *sql.Tx, rows []HitRow) error {
	if len(rows) == 0 {
		return nil
	}
	stmt, err := tx.Prepare(
		`INSERT INTO hits (day, key, count) VALUES (?, ?, ?)
		 ON CONFLICT (day, key) DO UPDATE SET count = count + excluded.count`,
	)
	if err != nil {
		return fmt.Errorf("prepare hits: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, r := range rows {
		if _, err := stmt.Exec(r.Day, r.Key, r.Count); err != nil {
			return fmt.Errorf("insert hit: %w", err)
		}
	}
	return nil
}

func saveFiles(tx *sql.Tx, runID string, files []FileImport) error {
	if len(files) == 0 {
		return nil
	}
	stmt, err := tx.Prepare(
		`INSERT OR IGNORE INTO ingested_files (path, day, run_id) VALUES (?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("prepare files: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, f := range files {
		if _, err := stmt.Exec(f.Path, f.Day, runID); err != nil {
			return fmt.Errorf("insert file: %w", err)
		}
	}
	return nil
}

func saveFailures(tx *sql.Tx, runID string, rows []FailureRow) error {
	if len(rows) == 0 {
		return nil
	}
	stmt, err := tx.Prepare(
		`INSERT INTO parse_failures (run_id, source_file, line_number, reason, raw)
		 VALUES (?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("prepare failures: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, r := range rows {
		if _, err := stmt.Exec(runID, r.SourceFile, r.LineNumber, r.Reason, r.Raw); err != nil {
			return fmt.Errorf("insert failure: %w", err)
		}
	}
	return nil
}

// Runs returns all recorded runs, most recent first.
func (s *DuckDBStore) Runs() ([]Run, error) {
	rows, err := s.db.Query(
		`SELECT run_id, started_at, root, format, lines, hits, failures
		 FROM runs ORDER BY started_at DESC, run_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.Root, &r.Format, &r.Lines, &r.Hits, &r.Failures); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return runs, nil
}

// SeenFile reports whether (path, day) was already ingested by a prior run.
func (s *DuckDBStore) SeenFile(path, day string) (bool, error) {
	var seen bool
	err := s.db.QueryRow(
		`SELECT COUNT(*) > 0 FROM ingested_files WHERE path = ? AND day = ?`,
		path, day,
	).Scan(&seen)
	if err != nil {
		return false, fmt.Errorf("seen file: %w", err)
	}
	return seen, nil
}

// HitCounts returns day->key->count for the inclusive day range. Empty
// bounds mean unbounded.
func (s *DuckDBStore) HitCounts(from, to string) (map[string]map[string]int64, error) {
	var conditions []string
	var args []any
	if from != "" {
		conditions = append(conditions, "day >= ?")
		args = append(args, from)
	}
	if to != "" {
		conditions = append(conditions, "day <= ?")
		args = append(args, to)
	}

	query := "SELECT day, key, count FROM hits"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY day, key"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query hits: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[string]map[string]int64)
	for rows.Next() {
		var day, key string
		var count int64
		if err := rows.Scan(&day, &key, &count); err != nil {
			return nil, fmt.Errorf("scan hit: %w", err)
		}
		if counts[day] == nil {
			counts[day] = make(map[string]int64)
		}
		counts[day][key] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return counts, nil
}

// Failures returns the failures recorded by a run.
func (s *DuckDBStore) Failures(runID string) ([]FailureRow, error) {
	rows, err := s.db.Query(
		`SELECT source_file, line_number, reason, raw
		 FROM parse_failures WHERE run_id = ?
		 ORDER BY source_file, line_number`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query failures: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []FailureRow
	for rows.Next() {
		var r FailureRow
		if err := rows.Scan(&r.SourceFile, &r.LineNumber, &r.Reason, &r.Raw); err != nil {
			return nil, fmt.Errorf("scan failure: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

// StaleKeys returns keys whose most recent hit day is before the given day.
func (s *DuckDBStore) StaleKeys(before string) ([]StaleKey, error) {
	rows, err := s.db.Query(
		`SELECT key, MIN(day) AS first_seen, MAX(day) AS last_seen
		 FROM hits GROUP BY key
		 HAVING MAX(day) < ?
		 ORDER BY last_seen, key`,
		before,
	)
	if err != nil {
		return nil, fmt.Errorf("query stale keys: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []StaleKey
	for rows.Next() {
		var k StaleKey
		if err := rows.Scan(&k.Key, &k.FirstSeen, &k.LastSeen); err != nil {
			return nil, fmt.Errorf("scan stale key: %w", err)
		}
		out = append(out, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

// Close closes the underlying database connection.
func (s *DuckDBStore) Close() error {
	return s.db.Close()
}
