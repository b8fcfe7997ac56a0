package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"flightrec/internal/failure"
	"flightrec/internal/logging"
	"flightrec/internal/logs"
)

const defaultLogLines = 50

func (c *commandContext) runLogs(_ context.Context, args []string) error {
	limit := defaultLogLines
	switch len(args) {
	case 0:
	case 1:
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 {
			return failure.Wrap(failure.ErrValidation, "logs", "tail",
				fmt.Sprintf("expected a line count, got %q", args[0]), nil)
		}
		limit = n
	default:
		return usageError("logs [N]")
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	lines, err := logs.Last(filepath.Join(cfg.Paths.LogDir, logging.LogFileName), limit)
	if err != nil {
		return err
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(c.stdout, line); err != nil {
			return err
		}
	}
	return nil
}
