package preflight

import (
	"context"
	"log/slog"

	"flightrec/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// RunAll executes every preflight check for the given config. The device
// check is skipped while another process holds the lock.
func RunAll(ctx context.Context, cfg *config.Config, logger *slog.Logger) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Data directory", cfg.Paths.DataDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
		CheckCreatable("Track directory", cfg.Paths.TrackDir),
		CheckJournal(ctx, cfg.JournalPath()),
	}

	lock := CheckLock(cfg.LockPath())
	results = append(results, lock)
	if lock.Passed {
		results = append(results, CheckDevice(ctx, cfg, logger))
	}
	return results
}

// Failed counts the results that did not pass.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if !r.Passed {
			n++
		}
	}
	return n
}
