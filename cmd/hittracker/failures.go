package main

import (
	"fmt"
	"os"

	"github.com/go-errors/errors"
	"github.com/hittracker/hittracker/pkg/config"
	"github.com/spf13/cobra"
)

func failuresCmd() *cobra.Command {
	var runID string

	cmd := &cobra.Command{
		Use:   "failures",
		Short: "Show the parse failures recorded by an ingest run",
		Long:  "Print every line a run failed to parse, with file, line number and reason. Defaults to the most recent run.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runFailures(cfg, runID)
		},
	}
	cmd.Flags().StringVar(&runID, "run", "", "run ID (default: most recent run)")
	return cmd
}

func runFailures(cfg *config.Config, runID string) error {
	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	if runID == "" {
		runs, err := s.Runs()
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			return errors.Errorf("no runs recorded yet, run 'hittracker ingest' first")
		}
		runID = runs[0].ID
	}

	rows, err := s.Failures(runID)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Fprintf(os.Stderr, "Run %s: no parse failures\n", runID)
		return nil
	}

	for _, r := range rows {
		fmt.Printf("%s:%d [%s] %s\n", r.SourceFile, r.LineNumber, r.Reason, r.Raw)
	}
	fmt.Fprintf(os.Stderr, "Run %s: %d parse failures\n", runID, len(rows))
	return nil
}
