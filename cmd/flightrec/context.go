package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"flightrec/internal/config"
	"flightrec/internal/device"
	_ "flightrec/internal/device/emulator"
	"flightrec/internal/failure"
	"flightrec/internal/journal"
	"flightrec/internal/logging"
)

type globalFlags struct {
	config   string
	device   string
	format   string
	logLevel string
}

// commandContext carries the lazily loaded config, logger and output
// streams shared by every handler of one invocation.
type commandContext struct {
	flags *globalFlags

	stdout io.Writer
	stderr io.Writer

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error

	loggerOnce  sync.Once
	logger      *slog.Logger
	closeLogger func() error
	sessionID   string
}

func newCommandContext(flags *globalFlags) *commandContext {
	return &commandContext{
		flags:     flags,
		stdout:    io.Discard,
		stderr:    io.Discard,
		sessionID: uuid.NewString(),
	}
}

func (c *commandContext) bind(cmd *cobra.Command) {
	c.stdout = cmd.OutOrStdout()
	c.stderr = cmd.ErrOrStderr()
}

func (c *commandContext) close() {
	if c.closeLogger != nil {
		_ = c.closeLogger()
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, _, err := config.Load(strings.TrimSpace(c.flags.config))
		if err != nil {
			c.configErr = err
			return
		}
		if override := strings.TrimSpace(c.flags.device); override != "" {
			expanded, err := config.ExpandPath(override)
			if err != nil {
				c.configErr = err
				return
			}
			cfg.Device.Path = expanded
		}
		if level := strings.TrimSpace(c.flags.logLevel); level != "" {
			cfg.Logging.Level = level
			if err := cfg.Validate(); err != nil {
				c.configErr = err
				return
			}
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = path
	})
	return c.config, c.configErr
}

// ensureLogger builds the invocation logger once the config is known. Before
// that, or when the config cannot be loaded, logs are discarded.
func (c *commandContext) ensureLogger() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		logger, closeFn, err := logging.NewFromConfig(cfg, c.stderr, c.sessionID)
		if err != nil {
			fmt.Fprintf(c.stderr, "flightrec: logging disabled: %v\n", err)
			c.logger = logging.NewNop()
			return
		}
		c.logger, c.closeLogger = logger, closeFn
	})
	return c.logger
}

// withDevice locks the recorder link, opens the configured device and runs
// fn against it with per-transaction timeouts.
func (c *commandContext) withDevice(ctx context.Context, fn func(context.Context, device.Device) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger := c.ensureLogger()

	lock, err := device.AcquireLock(cfg.LockPath())
	if err != nil {
		if errors.Is(err, device.ErrBusy) {
			return failure.Wrap(failure.ErrDevice, "device", "lock", err.Error(), nil)
		}
		return err
	}
	defer lock.Release()

	dev, err := device.Open(cfg.Device.Driver, cfg.Device.Path, logger)
	if err != nil {
		return err
	}
	defer dev.Close()

	ctx = logging.WithDevice(ctx, cfg.Device.Driver)
	logging.WithContext(ctx, logger).Debug("device opened", slog.String("path", cfg.Device.Path))
	return fn(ctx, timed(dev, cfg.DeviceTimeout()))
}

func (c *commandContext) withJournal(fn func(*journal.Journal) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	j, err := journal.Open(cfg.JournalPath())
	if err != nil {
		return err
	}
	defer j.Close()
	return fn(j)
}

func (c *commandContext) componentLogger(ctx context.Context, component string) *slog.Logger {
	return logging.NewComponentLogger(logging.WithContext(ctx, c.ensureLogger()), component)
}
