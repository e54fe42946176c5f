// Package models defines the canonical recipe record and runtime configuration.
package models

import "time"

// ExtractConfig holds runtime configuration for extract operations.
// All values come from CLI flags; only the selector cascade may be loaded
// from a YAML file.
type ExtractConfig struct {
	URLs          []string
	WorkerCount   int
	Format        string
	OutputDir     string
	SelectorsFile string
	Store         bool
	DBPath        string
	SkipArticle   bool
	Timeout       time.Duration
}
