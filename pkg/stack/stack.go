/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package stack

import (
	"fmt"
	"path/filepath"

	"github.com/mchmarny/obstack/pkg/config"
)

// Service names. These double as the dedicated service-account names for the
// archive-installed services.
const (
	GrafanaName      = "grafana"
	PrometheusName   = "prometheus"
	NodeExporterName = "node_exporter"

	GrafanaUnit      = "grafana-server.service"
	PrometheusUnit   = "prometheus.service"
	NodeExporterUnit = "node_exporter.service"
)

// Release archives target a fixed platform; the provisioner only supports
// Debian-based amd64 hosts.
const releasePlatform = "linux-amd64"

const (
	prometheusReleaseURL   = "https://github.com/prometheus/prometheus/releases/download/v%s/prometheus-%s.%s.tar.gz"
	nodeExporterReleaseURL = "https://github.com/prometheus/node_exporter/releases/download/v%s/node_exporter-%s.%s.tar.gz"
)

// Definition describes one archive-installed service: where its release
// comes from, which executables it ships, the identity it runs as, and the
// supervisor unit generated for it.
type Definition struct {
	// Name is the service name and dedicated account name.
	Name string

	// Description appears in the generated unit.
	Description string

	// Version is the pinned release version.
	Version string

	// URL is the release archive location.
	URL string

	// ArchiveDir is the top-level directory inside the release archive.
	ArchiveDir string

	// Binaries are the executables installed from the archive, relative to
	// ArchiveDir.
	Binaries []string

	// Unit is the supervisor unit file name.
	Unit string

	// ExecStart is the unit's executable invocation.
	ExecStart string

	// MemoryMax is the unit's memory ceiling. Empty means no limit; this is
	// per-service policy, not a global setting.
	MemoryMax string
}

// BinaryName returns the service's primary executable name.
func (d Definition) BinaryName() string {
	return d.Binaries[0]
}

// Prometheus returns the metrics-server definition for the given
// configuration. The generated unit launches the server with explicit
// config-file, data-path and listen-address flags and applies the configured
// memory ceiling.
func Prometheus(cfg config.Config) Definition {
	v := cfg.PrometheusVersion
	return Definition{
		Name:        PrometheusName,
		Description: "Prometheus metrics server",
		Version:     v,
		URL:         fmt.Sprintf(prometheusReleaseURL, v, v, releasePlatform),
		ArchiveDir:  fmt.Sprintf("prometheus-%s.%s", v, releasePlatform),
		Binaries:    []string{"prometheus", "promtool"},
		Unit:        PrometheusUnit,
		ExecStart: fmt.Sprintf("%s --config.file=%s --storage.tsdb.path=%s --web.listen-address=0.0.0.0:%d",
			filepath.Join(cfg.BinDir, "prometheus"),
			filepath.Join(cfg.PrometheusConfigDir, "prometheus.yml"),
			cfg.PrometheusDataDir,
			cfg.PrometheusPort),
		MemoryMax: cfg.PrometheusMemoryLimit,
	}
}

// NodeExporter returns the host-metrics exporter definition. The exporter
// binds to loopback only and enables the systemd and processes collectors;
// no memory ceiling is applied by default (the exporter's footprint is small
// compared to the metrics server).
func NodeExporter(cfg config.Config) Definition {
	v := cfg.NodeExporterVersion
	return Definition{
		Name:        NodeExporterName,
		Description: "Prometheus node exporter",
		Version:     v,
		URL:         fmt.Sprintf(nodeExporterReleaseURL, v, v, releasePlatform),
		ArchiveDir:  fmt.Sprintf("node_exporter-%s.%s", v, releasePlatform),
		Binaries:    []string{"node_exporter"},
		Unit:        NodeExporterUnit,
		ExecStart: fmt.Sprintf("%s --web.listen-address=127.0.0.1:%d --collector.systemd --collector.processes",
			filepath.Join(cfg.BinDir, "node_exporter"),
			cfg.NodeExporterPort),
	}
}
