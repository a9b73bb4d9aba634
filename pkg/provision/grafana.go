/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package provision

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/mchmarny/obstack/pkg/config"
	"github.com/mchmarny/obstack/pkg/fsutil"
	"github.com/mchmarny/obstack/pkg/stack"
	"github.com/mchmarny/obstack/pkg/workspace"
)

const (
	grafanaPackage = "grafana"
	grafanaKeyURL  = "https://apt.grafana.com/gpg.key"
	grafanaRepo    = "https://apt.grafana.com"
)

// installGrafana installs the visualization server from the vendor package
// repository and provisions it against the local metrics server. The package
// install is skipped when the package database already has an installed
// record; the datasource document and port patch are applied on every run so
// configuration drift is corrected (with a backup of whatever was there).
func (p *Provisioner) installGrafana(ctx context.Context, ws *workspace.Workspace) error {
	installed, err := p.packages.Installed(ctx, grafanaPackage)
	if err != nil {
		return err
	}

	if installed {
		slog.Info("install skipped, package already present", "package", grafanaPackage)
	} else {
		if err := p.addGrafanaRepository(ctx, ws); err != nil {
			return err
		}

		rctx, cancel := context.WithTimeout(ctx, config.PackageRefreshTimeout)
		defer cancel()
		if err := p.packages.Refresh(rctx); err != nil {
			return err
		}

		ictx, cancel := context.WithTimeout(ctx, config.PackageInstallTimeout)
		defer cancel()
		if err := p.packages.Install(ictx, grafanaPackage); err != nil {
			return err
		}
	}

	if err := p.provisionDatasource(); err != nil {
		return err
	}
	return p.patchGrafanaPort()
}

// addGrafanaRepository stages the vendor signing key and package repository.
func (p *Provisioner) addGrafanaRepository(ctx context.Context, ws *workspace.Workspace) error {
	slog.Info("adding vendor package repository", "repo", grafanaRepo)

	dctx, cancel := context.WithTimeout(ctx, config.HTTPClientTimeout)
	defer cancel()

	keyFile := ws.Join("grafana.gpg.key")
	if err := p.downloader.Fetch(dctx, grafanaKeyURL, keyFile); err != nil {
		return err
	}

	keyring := filepath.Join(p.cfg.AptKeyringDir, "grafana.gpg")
	if err := p.runner.Run(ctx, "gpg", "--dearmor", "--yes", "-o", keyring, keyFile); err != nil {
		return err
	}

	sources := filepath.Join(p.cfg.AptSourcesDir, "grafana.list")
	line := fmt.Sprintf("deb [signed-by=%s] %s stable main\n", keyring, grafanaRepo)
	return fsutil.WriteFileWithBackup(sources, []byte(line))
}

// provisionDatasource writes the datasource provisioning document pointing
// at the local metrics server.
func (p *Provisioner) provisionDatasource() error {
	doc := stack.NewDatasourceDocument(p.cfg.PrometheusPort)
	data, err := doc.Render()
	if err != nil {
		return err
	}

	slog.Info("writing datasource provisioning document", "path", p.cfg.GrafanaDatasourcePath)
	return fsutil.WriteFileWithBackup(p.cfg.GrafanaDatasourcePath, data)
}

// patchGrafanaPort rewrites the http_port line of the server's main
// configuration file in place. Both the commented default shipped by the
// package and a previously patched value are matched.
func (p *Provisioner) patchGrafanaPort() error {
	replacement := fmt.Sprintf("http_port = %d", p.cfg.GrafanaPort)

	n, err := fsutil.PatchLines(p.cfg.GrafanaIniPath, func(line string) bool {
		trimmed := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), ";"))
		return strings.HasPrefix(trimmed, "http_port")
	}, replacement)
	if err != nil {
		return err
	}

	slog.Info("patched listening port", "path", p.cfg.GrafanaIniPath,
		"port", p.cfg.GrafanaPort, "lines", n)
	return nil
}
