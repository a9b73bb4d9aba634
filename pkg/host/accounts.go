/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package host

import (
	"context"
	"fmt"
	"log/slog"
)

// Accounts manages the dedicated unprivileged service accounts the generated
// units run as.
type Accounts interface {
	// Exists reports whether the named account is present.
	Exists(ctx context.Context, name string) (bool, error)

	// EnsureSystemAccount creates a non-login system account if absent.
	EnsureSystemAccount(ctx context.Context, name string) error

	// ChownRecursive transfers ownership of path to the named account.
	ChownRecursive(ctx context.Context, name, path string) error
}

// ExecAccounts manages accounts via the standard user utilities.
type ExecAccounts struct {
	runner Runner
}

// NewExecAccounts creates an exec-backed account manager.
func NewExecAccounts(runner Runner) *ExecAccounts {
	return &ExecAccounts{runner: runner}
}

// Exists implements Accounts.
func (a *ExecAccounts) Exists(ctx context.Context, name string) (bool, error) {
	// id exits non-zero for unknown accounts.
	if err := a.runner.Run(ctx, "id", "-u", name); err != nil {
		return false, nil
	}
	return true, nil
}

// EnsureSystemAccount implements Accounts.
func (a *ExecAccounts) EnsureSystemAccount(ctx context.Context, name string) error {
	exists, err := a.Exists(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		slog.Info("service account already present", "account", name)
		return nil
	}

	slog.Info("creating service account", "account", name)
	return a.runner.Run(ctx, "useradd",
		"--system",
		"--no-create-home",
		"--shell", "/usr/sbin/nologin",
		name)
}

// ChownRecursive implements Accounts.
func (a *ExecAccounts) ChownRecursive(ctx context.Context, name, path string) error {
	return a.runner.Run(ctx, "chown", "-R", fmt.Sprintf("%s:%s", name, name), path)
}
