package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/hittracker/hittracker/pkg/config"
	"github.com/spf13/cobra"
)

func staleCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "stale",
		Short: "List keys with no hits in the recent window",
		Long:  "List every key whose most recent hit day is older than the given window, oldest first. Useful for finding rules or endpoints that nothing touches anymore.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runStale(cfg, days)
		},
	}
	cmd.Flags().IntVar(&days, "days", 90, "window size: keys unseen for this many days are stale")
	return cmd
}

func runStale(cfg *config.Config, days int) error {
	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	before := time.Now().UTC().AddDate(0, 0, -days).Format("2006-01-02")
	keys, err := s.StaleKeys(before)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		fmt.Fprintf(os.Stderr, "No stale keys (threshold %s)\n", before)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tFIRST SEEN\tLAST SEEN")
	for _, k := range keys {
		fmt.Fprintf(w, "%s\t%s\t%s\n", k.Key, k.FirstSeen, k.LastSeen)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "%d stale keys (no hits since %s)\n", len(keys), before)
	return nil
}
