/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package config

import (
	"fmt"
	"os"
	"regexp"

	"github.com/mchmarny/obstack/pkg/errors"
)

// Built-in defaults. Environment variables override these, command-line flags
// override both. Once merged the Config value is immutable for the run.
const (
	DefaultGrafanaPort      = 3000
	DefaultPrometheusPort   = 9090
	DefaultNodeExporterPort = 9100

	DefaultPrometheusVersion   = "2.53.1"
	DefaultNodeExporterVersion = "1.8.2"

	// DefaultPrometheusMemoryLimit is the memory ceiling applied to the
	// generated prometheus unit. The exporter unit carries no limit by
	// default; both are per-service policy, not hardcoded behavior.
	DefaultPrometheusMemoryLimit = "1G"

	DefaultWorkDir             = "/tmp"
	DefaultLogFile             = "/var/log/obstack-install.log"
	DefaultGrafanaDatasources  = "/etc/grafana/provisioning/datasources/prometheus.yaml"
	DefaultGrafanaIni          = "/etc/grafana/grafana.ini"
	DefaultBinDir              = "/usr/local/bin"
	DefaultUnitDir             = "/etc/systemd/system"
	DefaultPrometheusConfigDir = "/etc/prometheus"
	DefaultPrometheusDataDir   = "/var/lib/prometheus"
	DefaultAptKeyringDir       = "/etc/apt/keyrings"
	DefaultAptSourcesDir       = "/etc/apt/sources.list.d"
)

// Environment variable names recognized as default overrides.
const (
	EnvGrafanaPort           = "GRAFANA_PORT"
	EnvPrometheusPort        = "PROMETHEUS_PORT"
	EnvNodeExporterPort      = "NODE_EXPORTER_PORT"
	EnvPrometheusVersion     = "PROMETHEUS_VERSION"
	EnvNodeExporterVersion   = "NODE_EXPORTER_VERSION"
	EnvPrometheusMemoryLimit = "PROMETHEUS_MEMORY_LIMIT"
	EnvWorkDir               = "WORKDIR"
	EnvLogFile               = "LOG_FILE"
	EnvGrafanaDatasources    = "GRAFANA_DS_PROVISION"
)

// memoryLimitPattern accepts systemd MemoryMax values: plain bytes or a
// suffixed size such as 512M or 1G.
var memoryLimitPattern = regexp.MustCompile(`^[0-9]+[KMGT]?$`)

// Config holds the resolved target configuration for a provisioning run.
// It is constructed once at startup and passed by value to every routine.
type Config struct {
	// Listen ports for the three services.
	GrafanaPort      int
	PrometheusPort   int
	NodeExporterPort int

	// Pinned release versions for the archive-installed services.
	PrometheusVersion   string
	NodeExporterVersion string

	// PrometheusMemoryLimit is the MemoryMax value for the prometheus unit.
	// Empty means no ceiling.
	PrometheusMemoryLimit string

	// WorkDir is the parent directory for the per-run download workspace.
	WorkDir string

	// LogFile receives a copy of every log record.
	LogFile string

	// Managed file locations. Defaults target a standard Debian layout;
	// tests point them at temporary directories.
	GrafanaDatasourcePath string
	GrafanaIniPath        string
	BinDir                string
	UnitDir               string
	PrometheusConfigDir   string
	PrometheusDataDir     string
	AptKeyringDir         string
	AptSourcesDir         string
}

// Default returns a Config populated with built-in defaults.
func Default() Config {
	return Config{
		GrafanaPort:           DefaultGrafanaPort,
		PrometheusPort:        DefaultPrometheusPort,
		NodeExporterPort:      DefaultNodeExporterPort,
		PrometheusVersion:     DefaultPrometheusVersion,
		NodeExporterVersion:   DefaultNodeExporterVersion,
		PrometheusMemoryLimit: DefaultPrometheusMemoryLimit,
		WorkDir:               DefaultWorkDir,
		LogFile:               DefaultLogFile,
		GrafanaDatasourcePath: DefaultGrafanaDatasources,
		GrafanaIniPath:        DefaultGrafanaIni,
		BinDir:                DefaultBinDir,
		UnitDir:               DefaultUnitDir,
		PrometheusConfigDir:   DefaultPrometheusConfigDir,
		PrometheusDataDir:     DefaultPrometheusDataDir,
		AptKeyringDir:         DefaultAptKeyringDir,
		AptSourcesDir:         DefaultAptSourcesDir,
	}
}

// ApplyEnvironment overlays the path-related environment overrides that have
// no corresponding command-line flag (WORKDIR, LOG_FILE, GRAFANA_DS_PROVISION).
// Port and version variables are resolved by the flag layer, which gives flags
// precedence over the environment.
func (c Config) ApplyEnvironment() Config {
	if v := os.Getenv(EnvWorkDir); v != "" {
		c.WorkDir = v
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		c.LogFile = v
	}
	if v := os.Getenv(EnvGrafanaDatasources); v != "" {
		c.GrafanaDatasourcePath = v
	}
	return c
}

// Validate checks the merged configuration before any action executes.
func (c Config) Validate() error {
	ports := map[string]int{
		"grafana-port":       c.GrafanaPort,
		"prometheus-port":    c.PrometheusPort,
		"node-exporter-port": c.NodeExporterPort,
	}
	seen := make(map[int]string, len(ports))
	for name, port := range ports {
		if port < 1 || port > 65535 {
			return errors.NewWithContext(errors.ErrCodeInvalidConfig,
				fmt.Sprintf("invalid %s: %d", name, port),
				map[string]any{"port": port})
		}
		if prev, ok := seen[port]; ok {
			return errors.New(errors.ErrCodeInvalidConfig,
				fmt.Sprintf("%s and %s both set to %d", prev, name, port))
		}
		seen[port] = name
	}

	if c.PrometheusVersion == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "prometheus version is required")
	}
	if c.NodeExporterVersion == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "node exporter version is required")
	}
	if c.PrometheusMemoryLimit != "" && !memoryLimitPattern.MatchString(c.PrometheusMemoryLimit) {
		return errors.NewWithContext(errors.ErrCodeInvalidConfig,
			"invalid memory limit, expected bytes with optional K/M/G/T suffix",
			map[string]any{"memoryLimit": c.PrometheusMemoryLimit})
	}
	if c.WorkDir == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "work directory is required")
	}
	return nil
}
