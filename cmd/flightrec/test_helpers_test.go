package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"flightrec/internal/config"
	"flightrec/internal/device/emulator"
	"flightrec/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

// setupCLITestEnv writes a config pointing at per-test directories. When
// faults is non-nil a demo-seeded emulator is created with those faults.
func setupCLITestEnv(t *testing.T, faults *emulator.Faults) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	base := testsupport.BaseDir(cfg)
	t.Setenv("HOME", filepath.Join(base, "home"))
	t.Setenv("FLIGHTREC_DEVICE", "")
	t.Setenv("FLIGHTREC_DEVICE_DRIVER", "")

	if faults != nil {
		testsupport.NewEmulator(t, cfg, *faults)
	}

	configPath := filepath.Join(base, "flightrec.toml")
	writeTestConfig(t, configPath, cfg)
	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	encoded, err := cfg.Encode()
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	if err := os.WriteFile(path, []byte(encoded), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func (env *cliTestEnv) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return runCLI(t, append([]string{"--config", env.configPath}, args...))
}

func runCLI(t *testing.T, args []string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(t.Context())
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func requireNotContains(t *testing.T, output, substr string) {
	t.Helper()
	if strings.Contains(output, substr) {
		t.Fatalf("expected %q not to contain %q", output, substr)
	}
}
