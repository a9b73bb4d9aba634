/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package host

import (
	"context"
	"log/slog"
	"strings"
)

// dpkg lock files probed before any package operation. The check detects a
// concurrent holder, it never acquires the lock itself.
var dpkgLockPaths = []string{
	"/var/lib/dpkg/lock-frontend",
	"/var/lib/dpkg/lock",
}

// PackageManager manages OS packages and vendor repositories.
type PackageManager interface {
	// LockHeld reports whether another process currently holds the package
	// database lock.
	LockHeld(ctx context.Context) (bool, error)

	// Refresh updates package metadata.
	Refresh(ctx context.Context) error

	// Upgrade applies pending package upgrades.
	Upgrade(ctx context.Context) error

	// Install installs the named packages.
	Install(ctx context.Context, packages ...string) error

	// Installed reports whether the package database has an installed
	// record for the named package.
	Installed(ctx context.Context, name string) (bool, error)
}

// AptManager is the apt/dpkg-backed PackageManager for Debian-based hosts.
type AptManager struct {
	runner Runner
}

// NewAptManager creates an apt-backed package manager.
func NewAptManager(runner Runner) *AptManager {
	return &AptManager{runner: runner}
}

// LockHeld implements PackageManager. It probes the dpkg lock files with
// fuser; exit zero means some process holds the lock.
func (m *AptManager) LockHeld(ctx context.Context) (bool, error) {
	for _, lock := range dpkgLockPaths {
		if err := m.runner.Run(ctx, "fuser", lock); err == nil {
			slog.Warn("package manager lock held", "lock", lock)
			return true, nil
		}
	}
	// fuser exits non-zero when no process holds the file, which is the
	// normal uncontended case.
	return false, nil
}

// Refresh implements PackageManager.
func (m *AptManager) Refresh(ctx context.Context) error {
	slog.Info("refreshing package metadata")
	return m.runner.Run(ctx, "apt-get", "update", "-yq")
}

// Upgrade implements PackageManager.
func (m *AptManager) Upgrade(ctx context.Context) error {
	slog.Info("upgrading installed packages")
	return m.runner.Run(ctx, "apt-get", "upgrade", "-yq")
}

// Install implements PackageManager.
func (m *AptManager) Install(ctx context.Context, packages ...string) error {
	slog.Info("installing packages", "packages", strings.Join(packages, " "))
	args := append([]string{"install", "-yq"}, packages...)
	return m.runner.Run(ctx, "apt-get", args...)
}

// Installed implements PackageManager.
func (m *AptManager) Installed(ctx context.Context, name string) (bool, error) {
	out, err := m.runner.Output(ctx, "dpkg-query", "-W", "-f=${Status}", name)
	if err != nil {
		// dpkg-query exits non-zero for unknown packages.
		return false, nil
	}
	return strings.Contains(string(out), "install ok installed"), nil
}
