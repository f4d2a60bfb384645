package main

import (
	"github.com/go-errors/errors"
	"github.com/hittracker/hittracker/pkg/config"
	"github.com/hittracker/hittracker/pkg/store"
)

// loadConfig resolves the effective configuration: config file first, then
// the persistent --db flag on top.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.Database = dbPath
	}
	return cfg, nil
}

// openStore opens and initializes the history store.
func openStore(cfg *config.Config) (*store.DuckDBStore, error) {
	s, err := store.NewDuckDBStore(cfg.Database)
	if err != nil {
		return nil, errors.Errorf("store: %w", err)
	}
	if err := s.Init(); err != nil {
		_ = s.Close()
		return nil, errors.Errorf("store init: %w", err)
	}
	return s, nil
}
