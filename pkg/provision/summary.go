/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package provision

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mchmarny/obstack/pkg/config"
	"github.com/mchmarny/obstack/pkg/stack"
)

// externalIPURL answers plain-text requests with the caller's public address.
const externalIPURL = "https://api.ipify.org"

var titleCaser = cases.Title(language.English)

// Endpoint is one reachable service address in the run summary.
type Endpoint struct {
	Name string `json:"name" yaml:"name"`
	URL  string `json:"url" yaml:"url"`
}

// Summary reports where the provisioned services are reachable.
type Summary struct {
	Endpoints   []Endpoint `json:"endpoints" yaml:"endpoints"`
	LogFile     string     `json:"logFile" yaml:"logFile"`
	CompletedAt time.Time  `json:"completedAt" yaml:"completedAt"`
}

// buildSummary resolves the visualization server's public-facing URL via an
// external IP lookup; the metrics server and exporter are reported as
// loopback URLs. A failed lookup degrades to loopback instead of failing the
// run.
func (p *Provisioner) buildSummary(ctx context.Context) *Summary {
	host := "127.0.0.1"

	lctx, cancel := context.WithTimeout(ctx, config.HTTPClientTimeout)
	defer cancel()
	if ip, err := p.downloader.FetchString(lctx, externalIPURL); err != nil {
		slog.Warn("external IP lookup failed, reporting loopback", "error", err)
	} else if ip != "" {
		host = ip
	}

	return &Summary{
		Endpoints: []Endpoint{
			{Name: displayName(stack.GrafanaName), URL: fmt.Sprintf("http://%s:%d", host, p.cfg.GrafanaPort)},
			{Name: displayName(stack.PrometheusName), URL: fmt.Sprintf("http://127.0.0.1:%d", p.cfg.PrometheusPort)},
			{Name: displayName(stack.NodeExporterName), URL: fmt.Sprintf("http://127.0.0.1:%d/metrics", p.cfg.NodeExporterPort)},
		},
		LogFile:     p.cfg.LogFile,
		CompletedAt: time.Now(),
	}
}

// Print writes the operator-facing completion block.
func (s *Summary) Print(w io.Writer) {
	fmt.Fprintln(w, "Observability stack provisioned:")
	for _, e := range s.Endpoints {
		fmt.Fprintf(w, "  %-14s %s\n", e.Name, e.URL)
	}
	fmt.Fprintf(w, "Log file: %s\n", s.LogFile)
	fmt.Fprintf(w, "Completed at: %s\n", s.CompletedAt.Format(time.RFC3339))
}

// displayName renders a service name for operators, e.g. "node_exporter"
// becomes "Node Exporter".
func displayName(name string) string {
	return titleCaser.String(strings.ReplaceAll(name, "_", " "))
}
