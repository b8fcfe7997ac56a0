package main

import (
	"context"
	"fmt"
	"io"

	"flightrec/internal/preflight"
)

func (c *commandContext) runDoctor(ctx context.Context, args []string) error {
	if err := noArgs("doctor", args); err != nil {
		return err
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	results := preflight.RunAll(ctx, cfg, c.componentLogger(ctx, "preflight"))
	if err := c.emit(results, func(w io.Writer) error {
		rows := make([][]string, 0, len(results))
		for _, r := range results {
			status := "ok"
			if !r.Passed {
				status = "FAIL"
			}
			rows = append(rows, []string{r.Name, status, r.Detail})
		}
		return printTable(w, []string{"Check", "Status", "Detail"}, rows, nil)
	}); err != nil {
		return err
	}
	if failed := preflight.Failed(results); failed > 0 {
		return fmt.Errorf("%d of %d checks failed", failed, len(results))
	}
	return nil
}
