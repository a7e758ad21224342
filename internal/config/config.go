// Package config loads calculator settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Store kinds.
const (
	StoreSQLite  = "sqlite"
	StoreJournal = "journal"
	StoreNone    = "none"
)

// Config holds the settings shared by the front ends.
type Config struct {
	Precision   int    `yaml:"precision"`
	MemorySlots int    `yaml:"memory_slots"`
	StatusSlots int    `yaml:"status_slots"`
	Store       string `yaml:"store"`
	DBPath      string `yaml:"db_path"`
	HistoryFile string `yaml:"history_file"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Precision:   8,
		MemorySlots: 100,
		StatusSlots: 8,
		Store:       StoreSQLite,
		DBPath:      "calc.db",
		HistoryFile: "",
	}
}

// Load reads the file at path. Settings missing from the file keep their
// default value. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that all settings are in range.
func (c Config) Validate() error {
	if c.Precision < 0 || c.Precision > 15 {
		return fmt.Errorf("precision %d out of range [0, 15]", c.Precision)
	}
	if c.MemorySlots < 1 || c.MemorySlots > 10000 {
		return fmt.Errorf("memory_slots %d out of range [1, 10000]", c.MemorySlots)
	}
	if c.StatusSlots < 1 {
		return fmt.Errorf("status_slots must be positive, got %d", c.StatusSlots)
	}
	switch c.Store {
	case StoreSQLite, StoreJournal:
		if c.DBPath == "" {
			return fmt.Errorf("store %q needs db_path", c.Store)
		}
	case StoreNone:
	default:
		return fmt.Errorf("unknown store %q", c.Store)
	}
	return nil
}
