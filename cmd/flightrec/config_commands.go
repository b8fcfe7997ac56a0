package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"flightrec/internal/config"
	"flightrec/internal/failure"
)

func (c *commandContext) runConfigInit(_ context.Context, args []string) error {
	set := pflag.NewFlagSet("config init", pflag.ContinueOnError)
	set.SetOutput(c.stderr)
	targetPath := set.StringP("path", "p", "", "Destination for the configuration file")
	overwrite := set.Bool("overwrite", false, "Overwrite existing configuration if present")
	if err := set.Parse(args); err != nil {
		return failure.Wrap(failure.ErrValidation, "cli", "config init", err.Error(), nil)
	}
	if set.NArg() > 0 {
		return usageError("config init [--path FILE] [--overwrite]")
	}

	target := strings.TrimSpace(*targetPath)
	if target == "" {
		target = strings.TrimSpace(c.flags.config)
	}
	var err error
	if target == "" {
		target, err = config.DefaultConfigPath()
	} else {
		target, err = config.ExpandPath(target)
	}
	if err != nil {
		return fmt.Errorf("resolve config path: %w", err)
	}

	if !*overwrite {
		if _, err := os.Stat(target); err == nil {
			return failure.Wrap(failure.ErrValidation, "cli", "config init",
				fmt.Sprintf("config file already exists at %s (use --overwrite to replace it)", target), nil)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("check config path: %w", err)
		}
	}
	if err := config.CreateSample(target); err != nil {
		return err
	}
	_, err = fmt.Fprintf(c.stdout, "Wrote sample configuration to %s\n", target)
	return err
}

func (c *commandContext) runConfigShow(_ context.Context, args []string) error {
	if err := noArgs("config show", args); err != nil {
		return err
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	format, err := c.outputFormat()
	if err != nil {
		return err
	}
	if format == formatJSON {
		return writeJSON(c.stdout, cfg)
	}
	encoded, err := cfg.Encode()
	if err != nil {
		return err
	}
	source := c.configPath
	if _, statErr := os.Stat(source); statErr != nil {
		source += " (not present, defaults)"
	}
	_, err = fmt.Fprintf(c.stdout, "# source: %s\n%s", source, encoded)
	return err
}
