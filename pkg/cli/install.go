/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	goerrors "errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/mchmarny/obstack/pkg/config"
	"github.com/mchmarny/obstack/pkg/logging"
	"github.com/mchmarny/obstack/pkg/probe"
	"github.com/mchmarny/obstack/pkg/provision"
)

// portFlags is the flag surface shared by install and status: built-in
// defaults, overridden by environment variables, overridden by flags.
func portFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:    "grafana-port",
			Value:   config.DefaultGrafanaPort,
			Usage:   "Grafana listen port",
			Sources: cli.EnvVars(config.EnvGrafanaPort),
		},
		&cli.IntFlag{
			Name:    "prometheus-port",
			Value:   config.DefaultPrometheusPort,
			Usage:   "Prometheus listen port",
			Sources: cli.EnvVars(config.EnvPrometheusPort),
		},
		&cli.IntFlag{
			Name:    "node-exporter-port",
			Value:   config.DefaultNodeExporterPort,
			Usage:   "node exporter listen port (loopback only)",
			Sources: cli.EnvVars(config.EnvNodeExporterPort),
		},
	}
}

// installFlags adds the install-only version and resource-limit overrides.
func installFlags() []cli.Flag {
	return append(portFlags(),
		&cli.StringFlag{
			Name:    "prometheus-version",
			Value:   config.DefaultPrometheusVersion,
			Usage:   "Prometheus release version to install",
			Sources: cli.EnvVars(config.EnvPrometheusVersion),
		},
		&cli.StringFlag{
			Name:    "node-exporter-version",
			Value:   config.DefaultNodeExporterVersion,
			Usage:   "node exporter release version to install",
			Sources: cli.EnvVars(config.EnvNodeExporterVersion),
		},
		&cli.StringFlag{
			Name:    "memory-limit",
			Value:   config.DefaultPrometheusMemoryLimit,
			Usage:   "memory ceiling for the Prometheus unit (e.g. 1G, 512M)",
			Sources: cli.EnvVars(config.EnvPrometheusMemoryLimit),
		},
	)
}

// parseInstallConfig builds the effective configuration from defaults,
// environment, and parsed flags, and validates it.
func parseInstallConfig(cmd *cli.Command) (config.Config, error) {
	cfg := config.Default().ApplyEnvironment()

	cfg.GrafanaPort = cmd.Int("grafana-port")
	cfg.PrometheusPort = cmd.Int("prometheus-port")
	cfg.NodeExporterPort = cmd.Int("node-exporter-port")
	cfg.PrometheusVersion = cmd.String("prometheus-version")
	cfg.NodeExporterVersion = cmd.String("node-exporter-version")
	cfg.PrometheusMemoryLimit = cmd.String("memory-limit")

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func installCmd() *cli.Command {
	return &cli.Command{
		Name:  "install",
		Usage: "Provision the full observability stack",
		Description: `Installs and starts Grafana (vendor apt repository), Prometheus, and
node exporter (versioned release archives), opens their firewall ports,
and prints where each service is reachable.

Requires superuser privileges. Safe to re-run: already installed
components are skipped and overwritten configuration files are backed up
in place.`,
		Flags: installFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := parseInstallConfig(cmd)
			if err != nil {
				return err
			}

			closer, err := logging.SetDefaultStructuredLoggerWithFile(
				name, version, cmd.String("log-level"), cfg.LogFile)
			if err != nil {
				return err
			}
			defer closer.Close()

			summary, err := provision.New(cfg).Run(ctx)
			if err != nil {
				slog.Error("provisioning failed", "error", err)
				return fmt.Errorf("CRITICAL ERROR: %w (see %s)", err, cfg.LogFile)
			}

			werr := waitForStack(ctx, cfg)
			summary.Print(os.Stdout)
			if werr != nil {
				return fmt.Errorf("stack installed but not confirmed healthy: %w (see %s)", werr, cfg.LogFile)
			}
			return nil
		},
	}
}

// waitForStack gives the freshly started services a bounded window to begin
// answering. The stack stays installed either way; a service that never
// answers makes the install exit non-zero with the probe diagnostic.
func waitForStack(ctx context.Context, cfg config.Config) error {
	prober := probe.New()
	var errs []error
	for _, e := range localEndpoints(cfg) {
		if err := prober.WaitReady(ctx, e, config.ReadyBudget); err != nil {
			slog.Warn("service not answering", "service", e.Name, "error", err)
			errs = append(errs, err)
		}
	}
	return goerrors.Join(errs...)
}

// localEndpoints returns the loopback addresses of the three services.
func localEndpoints(cfg config.Config) []probe.Endpoint {
	return []probe.Endpoint{
		{Name: "grafana", URL: fmt.Sprintf("http://127.0.0.1:%d/api/health", cfg.GrafanaPort)},
		{Name: "prometheus", URL: fmt.Sprintf("http://127.0.0.1:%d/-/healthy", cfg.PrometheusPort)},
		{Name: "node_exporter", URL: fmt.Sprintf("http://127.0.0.1:%d/metrics", cfg.NodeExporterPort)},
	}
}
