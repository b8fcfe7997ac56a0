package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"flightrec/internal/device"
	"flightrec/internal/failure"
	"flightrec/internal/progress"
)

func (c *commandContext) runFirmwareFlash(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("firmware flash FILE")
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	image, err := os.ReadFile(args[0])
	if err != nil {
		if os.IsNotExist(err) {
			return failure.Wrap(failure.ErrValidation, "firmware", "read", fmt.Sprintf("no such file %s", args[0]), nil)
		}
		return fmt.Errorf("read firmware image: %w", err)
	}

	return c.withDevice(ctx, func(ctx context.Context, dev device.Device) error {
		logger := c.componentLogger(ctx, "firmware")
		renderer := newProgressRenderer(c.stderr, "flash "+filepath.Base(args[0]), logger)
		defer renderer.Done()

		est := progress.New(progress.WithWarmup(c.warmup(cfg.Warmup())))
		est.Start(time.Now())
		for step, err := range dev.Flash(ctx, image) {
			if err != nil {
				return fmt.Errorf("flash firmware: %w", err)
			}
			if state, ok := est.Observe(step.Done, step.Total, time.Now()); ok {
				renderer.Update(state)
			}
		}
		renderer.Done()
		logger.Info("firmware flashed", slog.Int("bytes", len(image)))
		_, err := fmt.Fprintf(c.stdout, "Flashed %d bytes from %s\n", len(image), args[0])
		return err
	})
}
