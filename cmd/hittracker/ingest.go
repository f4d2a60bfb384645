package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/go-errors/errors"
	"github.com/google/uuid"
	"github.com/hittracker/hittracker/pkg/aggregator"
	"github.com/hittracker/hittracker/pkg/config"
	"github.com/hittracker/hittracker/pkg/filter"
	"github.com/hittracker/hittracker/pkg/parser"
	"github.com/hittracker/hittracker/pkg/report"
	"github.com/hittracker/hittracker/pkg/store"
	"github.com/hittracker/hittracker/pkg/walker"
	"github.com/spf13/cobra"
)

func ingestCmd() *cobra.Command {
	var (
		format     string
		filterFile string
		reportsDir string
		dedup      bool
		noReport   bool
	)

	cmd := &cobra.Command{
		Use:   "ingest <root>",
		Short: "Walk a date-named log tree and count hits per key and day",
		Long:  "Read every log file under the date-named directories of <root>, parse each line, aggregate hit counts and write a report.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("format") {
				cfg.Format = format
			}
			if cmd.Flags().Changed("filter") {
				cfg.FilterFile = filterFile
			}
			if cmd.Flags().Changed("reports") {
				cfg.ReportsDir = reportsDir
			}
			if cmd.Flags().Changed("dedup") {
				cfg.Dedup = dedup
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runIngest(cmd.Context(), cfg, args[0], noReport)
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "line format (overrides config; see 'hittracker formats')")
	cmd.Flags().StringVar(&filterFile, "filter", "", "regex drop-list file applied before parsing")
	cmd.Flags().StringVar(&reportsDir, "reports", "", "directory for report artifacts")
	cmd.Flags().BoolVar(&dedup, "dedup", true, "count each (file, line) at most once within the run")
	cmd.Flags().BoolVar(&noReport, "no-report", false, "skip writing the report artifact")
	return cmd
}

func runIngest(ctx context.Context, cfg *config.Config, root string, noReport bool) error {
	folders, err := walker.Folders(root)
	if err != nil {
		return err
	}

	opts := cfg.ParserOptions()
	if opts.Format == parser.FormatAuto {
		samples := walker.Sample(ctx, folders, parser.DetectSampleSize)
		if len(samples) == 0 {
			// Nothing but blank lines (or no files at all): any format
			// yields the same empty run.
			slog.Info("no sample lines found, using the fields format")
			opts.Format = parser.FormatFields
		} else {
			detected, err := parser.Detect(samples, opts)
			if err != nil {
				return err
			}
			slog.Info("detected log format", "format", detected, "samples", len(samples))
			opts.Format = detected
		}
		cfg.Format = opts.Format
	}
	lineParser, err := parser.New(opts)
	if err != nil {
		return err
	}

	drop, err := filter.Load(cfg.FilterFile)
	if err != nil {
		return err
	}

	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	runID := uuid.NewString()
	snap, imports, skipped, err := collectHits(ctx, folders, lineParser, drop, s, cfg.Dedup)
	if err != nil {
		return err
	}
	if err := persistRun(s, runID, cfg, root, snap, imports); err != nil {
		return err
	}

	rep := report.Build(snap)
	reportPath := ""
	if !noReport {
		name := fmt.Sprintf("hits-%s.txt", runID[:8])
		reportPath, err = report.WriteFile(rep, cfg.ReportsDir, name, report.RenderText)
		if err != nil {
			return err
		}
	}

	fmt.Fprintf(os.Stderr, "Ingested %d lines: %d hits, %d failures, %d duplicates (%d files skipped)\n",
		snap.Lines, snap.Hits, len(snap.Failures), snap.Duplicates, skipped)
	if reportPath != "" {
		fmt.Fprintf(os.Stderr, "Report: %s\n", reportPath)
	}
	fmt.Fprintf(os.Stderr, "Database: %s (run %s)\n", cfg.Database, runID)
	return nil
}

// collectHits drives one pass over the folders: filter and parse each line,
// fold the outcome into an aggregator. Only files read through to EOF end up
// in the imports set, so a file that fails mid-read stays unmarked and the
// next run picks it up again. A store error during the skip check aborts the
// run rather than risk double counting.
func collectHits(ctx context.Context, folders []walker.Folder, lineParser parser.LineParser, drop *filter.Filter, s store.Store, dedup bool) (aggregator.Snapshot, map[store.FileImport]struct{}, int, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	agg := aggregator.New(dedup)
	imports := make(map[store.FileImport]struct{})
	skipped := 0
	var skipErr error

	w := &walker.Walker{
		Folders: folders,
		SkipFile: func(path string, date time.Time) bool {
			day := date.Format("2006-01-02")
			seen, err := s.SeenFile(path, day)
			if err != nil {
				skipErr = errors.Errorf("check ingested files: %w", err)
				cancel()
				return true
			}
			if seen {
				slog.Info("skipping already ingested file", "file", path, "day", day)
				skipped++
			}
			return seen
		},
		DoneFile: func(path string, date time.Time) {
			imports[store.FileImport{Path: path, Day: date.Format("2006-01-02")}] = struct{}{}
		},
	}

	for rr := range w.Walk(ctx) {
		if rr.Err != nil {
			var fe *walker.FileError
			if errors.As(rr.Err, &fe) {
				slog.Warn("unreadable file, continuing", "path", fe.Path, "err", fe.Err)
				agg.FileError(fe.Path, fe.Err)
				continue
			}
			return aggregator.Snapshot{}, nil, 0, errors.Errorf("walk: %w", rr.Err)
		}

		line := rr.Value
		if drop.Drop(line.Text) {
			agg.Skip()
			continue
		}
		hit, fail := lineParser.Parse(*line)
		switch {
		case hit != nil:
			agg.Record(hit)
		case fail != nil:
			agg.Fail(fail)
		default:
			agg.Skip()
		}
	}
	if skipErr != nil {
		return aggregator.Snapshot{}, nil, 0, skipErr
	}
	return agg.Snapshot(), imports, skipped, nil
}

// persistRun saves the snapshot in one store transaction: hit counts, file
// provenance, failures and the run summary row.
func persistRun(s store.Store, runID string, cfg *config.Config, root string, snap aggregator.Snapshot, imports map[store.FileImport]struct{}) error {
	var hitRows []store.HitRow
	for day, keys := range snap.Buckets {
		for key, count := range keys {
			hitRows = append(hitRows, store.HitRow{Day: day, Key: key, Count: count})
		}
	}

	files := make([]store.FileImport, 0, len(imports))
	for f := range imports {
		files = append(files, f)
	}

	failRows := make([]store.FailureRow, 0, len(snap.Failures))
	for _, f := range snap.Failures {
		failRows = append(failRows, store.FailureRow{
			SourceFile: f.SourceFile,
			LineNumber: f.LineNumber,
			Reason:     f.Reason,
			Raw:        f.Raw,
		})
	}

	run := store.Run{
		ID:        runID,
		StartedAt: time.Now().UTC(),
		Root:      root,
		Format:    cfg.Format,
		Lines:     snap.Lines,
		Hits:      snap.Hits,
		Failures:  int64(len(snap.Failures)),
	}
	if err := s.SaveRun(run, hitRows, files, failRows); err != nil {
		return errors.Errorf("persist run: %w", err)
	}
	return nil
}
