/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package provision

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mchmarny/obstack/pkg/config"
	"github.com/mchmarny/obstack/pkg/fsutil"
	"github.com/mchmarny/obstack/pkg/stack"
	"github.com/mchmarny/obstack/pkg/version"
	"github.com/mchmarny/obstack/pkg/workspace"
)

// installPrometheus installs the metrics server from a versioned release
// archive. The routine is skipped entirely when a binary of the same name is
// already resolvable on the execution path; version drift is reported but
// not reconciled.
func (p *Provisioner) installPrometheus(ctx context.Context, ws *workspace.Workspace) error {
	def := stack.Prometheus(p.cfg)

	if path, err := p.runner.LookPath(def.BinaryName()); err == nil {
		slog.Info("install skipped, binary already present",
			"service", def.Name, "path", path, "requested", def.Version)
		p.reportVersionDrift(ctx, def, path)
		return nil
	}

	if err := p.installFromArchive(ctx, ws, def); err != nil {
		return err
	}

	for _, dir := range []string{p.cfg.PrometheusConfigDir, p.cfg.PrometheusDataDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	scrape := stack.NewScrapeConfig(p.cfg.NodeExporterPort)
	data, err := scrape.Render()
	if err != nil {
		return err
	}
	confFile := filepath.Join(p.cfg.PrometheusConfigDir, "prometheus.yml")
	slog.Info("writing scrape configuration", "path", confFile)
	if err := fsutil.WriteFileWithBackup(confFile, data); err != nil {
		return err
	}

	if err := p.accounts.EnsureSystemAccount(ctx, def.Name); err != nil {
		return err
	}
	for _, dir := range []string{p.cfg.PrometheusConfigDir, p.cfg.PrometheusDataDir} {
		if err := p.accounts.ChownRecursive(ctx, def.Name, dir); err != nil {
			return err
		}
	}

	return p.writeUnit(def)
}

// installFromArchive downloads, extracts, and installs the service's
// executables into the standard binary location.
func (p *Provisioner) installFromArchive(ctx context.Context, ws *workspace.Workspace, def stack.Definition) error {
	slog.Info("installing from release archive",
		"service", def.Name, "version", def.Version)

	archive := ws.Join(filepath.Base(def.URL))
	dctx, cancel := context.WithTimeout(ctx, config.HTTPDownloadTimeout)
	defer cancel()
	if err := p.downloader.Fetch(dctx, def.URL, archive); err != nil {
		return err
	}

	if err := p.extractor.Extract(ctx, archive, ws.Path()); err != nil {
		return err
	}

	for _, bin := range def.Binaries {
		src := ws.Join(def.ArchiveDir, bin)
		if _, err := fsutil.InstallBinary(src, p.cfg.BinDir); err != nil {
			return err
		}
	}
	return nil
}

// reportVersionDrift compares the installed executable's version banner to
// the pinned release and logs any difference. Drift is reported, never
// reconciled.
func (p *Provisioner) reportVersionDrift(ctx context.Context, def stack.Definition, path string) {
	out, err := p.runner.Output(ctx, path, "--version")
	if err != nil {
		slog.Debug("could not read installed version", "path", path, "error", err)
		return
	}
	installed, err := version.FromCommandOutput(string(out))
	if err != nil {
		slog.Debug("could not parse installed version", "path", path, "error", err)
		return
	}
	pinned, err := version.Parse(def.Version)
	if err != nil || installed.Equals(pinned) {
		return
	}
	slog.Warn("installed version differs from pinned release",
		"service", def.Name, "installed", installed.String(), "pinned", def.Version)
}

// writeUnit generates the supervisor unit descriptor for the service.
func (p *Provisioner) writeUnit(def stack.Definition) error {
	data, err := def.RenderUnit()
	if err != nil {
		return err
	}

	path := filepath.Join(p.cfg.UnitDir, def.Unit)
	slog.Info("writing supervisor unit", "unit", def.Unit, "path", path)
	return fsutil.WriteFileWithBackup(path, data)
}
