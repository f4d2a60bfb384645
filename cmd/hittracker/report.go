package main

import (
	"fmt"
	"os"

	"github.com/go-errors/errors"
	"github.com/hittracker/hittracker/pkg/aggregator"
	"github.com/hittracker/hittracker/pkg/config"
	"github.com/hittracker/hittracker/pkg/report"
	"github.com/spf13/cobra"
)

func reportCmd() *cobra.Command {
	var (
		from       string
		to         string
		outFormat  string
		reportsDir string
		toStdout   bool
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Rebuild a hit report from the history store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("reports") {
				cfg.ReportsDir = reportsDir
			}
			return runReport(cfg, from, to, outFormat, toStdout)
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "first day to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "last day to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&outFormat, "format", "text", "output format: text or csv")
	cmd.Flags().StringVar(&reportsDir, "reports", "", "directory for report artifacts")
	cmd.Flags().BoolVar(&toStdout, "stdout", false, "print the report instead of writing an artifact")
	return cmd
}

func runReport(cfg *config.Config, from, to, outFormat string, toStdout bool) error {
	var render report.Renderer
	ext := ""
	switch outFormat {
	case "text":
		render, ext = report.RenderText, "txt"
	case "csv":
		render, ext = report.RenderCSV, "csv"
	default:
		return errors.Errorf("unknown report format %q (want text or csv)", outFormat)
	}

	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	counts, err := s.HitCounts(from, to)
	if err != nil {
		return errors.Errorf("query hits: %w", err)
	}
	rep := report.Build(aggregator.Snapshot{Buckets: counts})

	if toStdout {
		return render(rep, os.Stdout)
	}

	name := reportName(from, to, ext)
	path, err := report.WriteFile(rep, cfg.ReportsDir, name, render)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Report: %s (%d days, %d hits)\n", path, len(rep.Sections), rep.TotalHits)
	return nil
}

func reportName(from, to, ext string) string {
	if from == "" {
		from = "start"
	}
	if to == "" {
		to = "latest"
	}
	return fmt.Sprintf("hits-%s-to-%s.%s", from, to, ext)
}
