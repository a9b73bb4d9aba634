/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/mchmarny/obstack/pkg/config"
	"github.com/mchmarny/obstack/pkg/logging"
	"github.com/mchmarny/obstack/pkg/probe"
	"github.com/mchmarny/obstack/pkg/serializer"
)

// statusReport is the status command's output document.
type statusReport struct {
	Services []probe.Result `json:"services" yaml:"services"`
	Targets  []probe.Target `json:"targets,omitempty" yaml:"targets,omitempty"`
}

// String renders the human-readable form used by the text output format.
func (r statusReport) String() string {
	var b strings.Builder
	for _, s := range r.Services {
		state := "DOWN"
		if s.Up {
			state = "UP"
		}
		fmt.Fprintf(&b, "%-14s %-5s %-40s %s\n", s.Name, state, s.URL, s.Detail)
	}
	for _, tgt := range r.Targets {
		fmt.Fprintf(&b, "target %-20s %-6s %s\n", tgt.Job, tgt.Health, tgt.ScrapeURL)
	}
	return b.String()
}

// parseStatusConfig builds the port configuration the probes need; status
// has no use for the install-only version and limit overrides.
func parseStatusConfig(cmd *cli.Command) (config.Config, error) {
	cfg := config.Default().ApplyEnvironment()

	cfg.GrafanaPort = cmd.Int("grafana-port")
	cfg.PrometheusPort = cmd.Int("prometheus-port")
	cfg.NodeExporterPort = cmd.Int("node-exporter-port")

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func statusCmd() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Probe a provisioned stack and report service and scrape-target health",
		Flags: append(portFlags(),
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   string(serializer.FormatText),
				Usage:   fmt.Sprintf("output format: %s", strings.Join(serializer.SupportedFormats(), ", ")),
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := parseStatusConfig(cmd)
			if err != nil {
				return err
			}
			logging.SetDefaultStructuredLoggerWithLevel(name, version, cmd.String("log-level"))

			format := serializer.Format(cmd.String("format"))
			if format.IsUnknown() {
				return fmt.Errorf("--format must be one of %s, got '%s'",
					strings.Join(serializer.SupportedFormats(), ", "), format)
			}

			report := statusReport{
				Services: probe.New().Check(ctx, localEndpoints(cfg)),
			}

			// Target health is best-effort: with the metrics server down the
			// service probes above already tell the story.
			promURL := fmt.Sprintf("http://127.0.0.1:%d", cfg.PrometheusPort)
			if targets, err := probe.ActiveTargets(ctx, promURL); err == nil {
				report.Targets = targets
			}

			return serializer.NewWriter(format, nil).Serialize(report)
		},
	}
}
