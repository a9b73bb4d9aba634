/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package provision

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/mchmarny/obstack/pkg/config"
	"github.com/mchmarny/obstack/pkg/host"
	"github.com/mchmarny/obstack/pkg/stack"
	"github.com/mchmarny/obstack/pkg/workspace"
)

// Provisioner brings a host from an unknown state to "stack installed and
// running". All host mutation goes through the collaborator interfaces.
type Provisioner struct {
	cfg config.Config

	runner     host.Runner
	packages   host.PackageManager
	firewall   host.Firewall
	accounts   host.Accounts
	supervisor host.Supervisor
	downloader host.Downloader
	extractor  host.Extractor

	euid func() int
}

// Option configures a Provisioner.
type Option func(*Provisioner)

// WithRunner overrides the command runner.
func WithRunner(r host.Runner) Option {
	return func(p *Provisioner) { p.runner = r }
}

// WithPackageManager overrides the package manager.
func WithPackageManager(m host.PackageManager) Option {
	return func(p *Provisioner) { p.packages = m }
}

// WithFirewall overrides the firewall controller.
func WithFirewall(f host.Firewall) Option {
	return func(p *Provisioner) { p.firewall = f }
}

// WithAccounts overrides the account manager.
func WithAccounts(a host.Accounts) Option {
	return func(p *Provisioner) { p.accounts = a }
}

// WithSupervisor overrides the service supervisor.
func WithSupervisor(s host.Supervisor) Option {
	return func(p *Provisioner) { p.supervisor = s }
}

// WithDownloader overrides the downloader.
func WithDownloader(d host.Downloader) Option {
	return func(p *Provisioner) { p.downloader = d }
}

// WithExtractor overrides the archive extractor.
func WithExtractor(e host.Extractor) Option {
	return func(p *Provisioner) { p.extractor = e }
}

// withEUID overrides the effective-uid probe in tests.
func withEUID(f func() int) Option {
	return func(p *Provisioner) { p.euid = f }
}

// New creates a Provisioner with exec- and dbus-backed collaborators,
// overridable via options.
func New(cfg config.Config, opts ...Option) *Provisioner {
	runner := host.NewExecRunner()
	p := &Provisioner{
		cfg:        cfg,
		runner:     runner,
		packages:   host.NewAptManager(runner),
		firewall:   host.NewUFW(runner),
		accounts:   host.NewExecAccounts(runner),
		supervisor: host.NewDbusSupervisor(),
		downloader: host.NewHTTPDownloader(),
		extractor:  host.NewTarGzExtractor(),
		euid:       os.Geteuid,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes the full provisioning sequence and returns the endpoint
// summary. The download workspace is removed on every exit path, including
// mid-run failure and interrupt (context cancellation).
func (p *Provisioner) Run(ctx context.Context) (*Summary, error) {
	started := time.Now()

	if err := p.preflight(ctx); err != nil {
		return nil, err
	}

	ws, err := workspace.New(p.cfg.WorkDir)
	if err != nil {
		return nil, err
	}
	defer ws.Release()

	if err := p.prepareSystem(ctx); err != nil {
		return nil, err
	}
	if err := p.configureFirewall(ctx); err != nil {
		return nil, err
	}
	if err := p.installGrafana(ctx, ws); err != nil {
		return nil, err
	}
	if err := p.installPrometheus(ctx, ws); err != nil {
		return nil, err
	}
	if err := p.installNodeExporter(ctx, ws); err != nil {
		return nil, err
	}

	rctx, rcancel := context.WithTimeout(ctx, config.SupervisorTimeout)
	defer rcancel()
	if err := p.supervisor.Reload(rctx); err != nil {
		return nil, err
	}

	sctx, scancel := context.WithTimeout(ctx, config.SupervisorTimeout)
	defer scancel()
	if err := p.supervisor.EnableAndStart(sctx,
		stack.GrafanaUnit, stack.PrometheusUnit, stack.NodeExporterUnit); err != nil {
		return nil, err
	}

	summary := p.buildSummary(ctx)
	slog.Info("provisioning complete",
		"duration", time.Since(started).Round(time.Second).String(),
		"logFile", p.cfg.LogFile)
	return summary, nil
}

// prepareSystem refreshes package metadata, applies pending upgrades, and
// installs the base tooling the install routines depend on.
func (p *Provisioner) prepareSystem(ctx context.Context) error {
	slog.Info("preparing system")

	rctx, cancel := context.WithTimeout(ctx, config.PackageRefreshTimeout)
	defer cancel()
	if err := p.packages.Refresh(rctx); err != nil {
		return err
	}

	ictx, cancel := context.WithTimeout(ctx, config.PackageInstallTimeout)
	defer cancel()
	if err := p.packages.Upgrade(ictx); err != nil {
		return err
	}
	return p.packages.Install(ictx,
		"apt-transport-https",
		"software-properties-common",
		"gnupg2",
		"curl",
		"wget",
		"ufw",
	)
}

// configureFirewall stages default policies and the three service ports,
// then turns enforcement on. Enable is deliberately last: enforcement must
// never activate before the allow rules are staged, or a remote operator
// would be locked out.
func (p *Provisioner) configureFirewall(ctx context.Context) error {
	slog.Info("configuring firewall",
		"grafana", p.cfg.GrafanaPort,
		"prometheus", p.cfg.PrometheusPort,
		"nodeExporter", p.cfg.NodeExporterPort)

	if err := p.firewall.DefaultDenyInbound(ctx); err != nil {
		return err
	}
	if err := p.firewall.DefaultAllowOutbound(ctx); err != nil {
		return err
	}
	for _, port := range []int{p.cfg.GrafanaPort, p.cfg.PrometheusPort, p.cfg.NodeExporterPort} {
		if err := p.firewall.AllowTCP(ctx, port); err != nil {
			return err
		}
	}
	return p.firewall.Enable(ctx)
}
