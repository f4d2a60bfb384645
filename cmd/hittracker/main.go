package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	dbPath     string
	configPath string
)

func main() {
	// Load .env file if present (does not override existing env vars)
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:   "hittracker",
		Short: "Count hits in date-organized log trees",
		Long:  "HitTracker walks date-named log directories, counts hits per key and day, and renders deterministic reports.",
	}

	root.PersistentFlags().StringVar(&dbPath, "db", "", "path to DuckDB database (default hittracker.duckdb, or HITTRACKER_DB)")
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")

	root.AddCommand(ingestCmd())
	root.AddCommand(reportCmd())
	root.AddCommand(staleCmd())
	root.AddCommand(failuresCmd())
	root.AddCommand(formatsCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
