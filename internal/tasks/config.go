package tasks

import (
	"time"

	"github.com/mrlokans/portfolio/internal/config"
)

// Config holds configuration for the task queue system.
type Config struct {
	// DBPath is the dedicated SQLite file backing the queue.
	DBPath string

	// Workers is the number of concurrent task workers. Default: 2
	Workers int

	// ReleaseAfter is when stuck tasks are released back to queue. Default: 45m
	ReleaseAfter time.Duration

	// CleanupInterval is how often to clean up completed tasks. Default: 1h
	CleanupInterval time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		DBPath:          config.DefaultTasksDatabasePath,
		Workers:         2,
		ReleaseAfter:    45 * time.Minute,
		CleanupInterval: 1 * time.Hour,
	}
}

// FromConfig fills a Config from the application settings, keeping defaults
// for anything unset.
func FromConfig(cfg config.Tasks) Config {
	out := DefaultConfig()
	if cfg.DBPath != "" {
		out.DBPath = cfg.DBPath
	}
	if cfg.Workers > 0 {
		out.Workers = cfg.Workers
	}
	if cfg.ReleaseAfter > 0 {
		out.ReleaseAfter = cfg.ReleaseAfter
	}
	if cfg.CleanupInterval > 0 {
		out.CleanupInterval = cfg.CleanupInterval
	}
	return out
}
