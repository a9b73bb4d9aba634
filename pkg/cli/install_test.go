/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v3"

	"github.com/mchmarny/obstack/pkg/config"
)

// runParse runs a command with the install flag set and captures the
// configuration the action would see.
func runParse(t *testing.T, args []string) (config.Config, error) {
	t.Helper()

	var cfg config.Config
	var parseErr error
	cmd := &cli.Command{
		Name:  "test",
		Flags: installFlags(),
		Action: func(_ context.Context, c *cli.Command) error {
			cfg, parseErr = parseInstallConfig(c)
			return nil
		},
	}
	if err := cmd.Run(context.Background(), append([]string{"test"}, args...)); err != nil {
		return config.Config{}, err
	}
	return cfg, parseErr
}

func TestParseInstallConfigDefaults(t *testing.T) {
	cfg, err := runParse(t, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.GrafanaPort != config.DefaultGrafanaPort {
		t.Errorf("GrafanaPort = %d, want %d", cfg.GrafanaPort, config.DefaultGrafanaPort)
	}
	if cfg.PrometheusVersion != config.DefaultPrometheusVersion {
		t.Errorf("PrometheusVersion = %q, want %q", cfg.PrometheusVersion, config.DefaultPrometheusVersion)
	}
	if cfg.PrometheusMemoryLimit != config.DefaultPrometheusMemoryLimit {
		t.Errorf("PrometheusMemoryLimit = %q, want %q", cfg.PrometheusMemoryLimit, config.DefaultPrometheusMemoryLimit)
	}
}

func TestParseInstallConfigEnvOverridesDefault(t *testing.T) {
	t.Setenv(config.EnvGrafanaPort, "3001")
	t.Setenv(config.EnvPrometheusVersion, "2.55.0")

	cfg, err := runParse(t, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.GrafanaPort != 3001 {
		t.Errorf("GrafanaPort = %d, want 3001", cfg.GrafanaPort)
	}
	if cfg.PrometheusVersion != "2.55.0" {
		t.Errorf("PrometheusVersion = %q, want 2.55.0", cfg.PrometheusVersion)
	}
}

func TestParseInstallConfigFlagOverridesEnv(t *testing.T) {
	t.Setenv(config.EnvGrafanaPort, "3001")

	cfg, err := runParse(t, []string{"--grafana-port", "3002"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.GrafanaPort != 3002 {
		t.Errorf("GrafanaPort = %d, want 3002", cfg.GrafanaPort)
	}
}

func TestParseInstallConfigEnvOnlyPaths(t *testing.T) {
	t.Setenv(config.EnvWorkDir, "/mnt/scratch")
	t.Setenv(config.EnvLogFile, "/tmp/test-install.log")

	cfg, err := runParse(t, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.WorkDir != "/mnt/scratch" {
		t.Errorf("WorkDir = %q, want /mnt/scratch", cfg.WorkDir)
	}
	if cfg.LogFile != "/tmp/test-install.log" {
		t.Errorf("LogFile = %q, want /tmp/test-install.log", cfg.LogFile)
	}
}

func TestParseInstallConfigRejectsInvalid(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		errMsg string
	}{
		{
			name:   "port out of range",
			args:   []string{"--grafana-port", "70000"},
			errMsg: "port",
		},
		{
			name:   "duplicate ports",
			args:   []string{"--grafana-port", "9090"},
			errMsg: "port",
		},
		{
			name:   "malformed memory limit",
			args:   []string{"--memory-limit", "lots"},
			errMsg: "memory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runParse(t, tt.args)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(strings.ToLower(err.Error()), tt.errMsg) {
				t.Errorf("error %q does not mention %q", err, tt.errMsg)
			}
		})
	}
}

func TestHelpHasNoSideEffects(t *testing.T) {
	root := t.TempDir()
	workDir := filepath.Join(root, "work")
	logFile := filepath.Join(root, "install.log")
	t.Setenv(config.EnvWorkDir, workDir)
	t.Setenv(config.EnvLogFile, logFile)

	var out strings.Builder
	cmd := rootCmd()
	cmd.Writer = &out

	if err := cmd.Run(context.Background(), []string{"obstack", "install", "--help"}); err != nil {
		t.Fatalf("--help should succeed: %v", err)
	}
	if !strings.Contains(out.String(), "USAGE") {
		t.Errorf("expected usage text, got: %q", out.String())
	}

	// Help must not touch the filesystem: no log file, no workspace.
	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no filesystem side effects, found: %v", entries)
	}
}

func TestUnknownFlagFails(t *testing.T) {
	cmd := rootCmd()
	cmd.Writer = io.Discard
	cmd.ErrWriter = io.Discard

	err := cmd.Run(context.Background(), []string{"obstack", "install", "--bogus"})
	if err == nil {
		t.Fatal("expected error for unknown flag")
	}
	if !strings.Contains(err.Error(), "bogus") {
		t.Errorf("error should name the unknown flag: %v", err)
	}
}

func TestLocalEndpoints(t *testing.T) {
	cfg := config.Default()
	endpoints := localEndpoints(cfg)
	if len(endpoints) != 3 {
		t.Fatalf("endpoints = %d, want 3", len(endpoints))
	}
	if endpoints[2].URL != "http://127.0.0.1:9100/metrics" {
		t.Errorf("exporter URL = %q", endpoints[2].URL)
	}
}
