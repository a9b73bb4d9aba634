/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package host

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/coreos/go-systemd/v22/dbus"

	"github.com/mchmarny/obstack/pkg/errors"
)

// Supervisor drives the process supervisor that owns the long-running
// services after provisioning: unit-file queries, daemon reload, and
// enable/start.
type Supervisor interface {
	// UnitFileExists reports whether a unit file record matching the named
	// unit is known to the supervisor.
	UnitFileExists(ctx context.Context, name string) (bool, error)

	// Reload makes the supervisor re-read unit definitions from disk.
	Reload(ctx context.Context) error

	// EnableAndStart enables the named units for boot and starts them now.
	EnableAndStart(ctx context.Context, names ...string) error
}

// DbusSupervisor talks to systemd over the system D-Bus. A fresh connection
// is established per operation; provisioning makes a handful of supervisor
// calls per run so connection reuse buys nothing.
type DbusSupervisor struct{}

// NewDbusSupervisor creates a systemd-backed Supervisor.
func NewDbusSupervisor() *DbusSupervisor {
	return &DbusSupervisor{}
}

// UnitFileExists implements Supervisor.
func (s *DbusSupervisor) UnitFileExists(ctx context.Context, name string) (bool, error) {
	conn, err := dbus.NewSystemdConnectionContext(ctx)
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeInternal, "failed to connect to systemd", err)
	}
	defer conn.Close()

	files, err := conn.ListUnitFilesByPatternsContext(ctx, nil, []string{name})
	if err != nil {
		return false, errors.WrapWithContext(errors.ErrCodeInternal,
			"failed to list unit files", err, map[string]any{"unit": name})
	}
	return len(files) > 0, nil
}

// Reload implements Supervisor.
func (s *DbusSupervisor) Reload(ctx context.Context) error {
	conn, err := dbus.NewSystemdConnectionContext(ctx)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to connect to systemd", err)
	}
	defer conn.Close()

	slog.Info("reloading supervisor unit definitions")
	if err := conn.ReloadContext(ctx); err != nil {
		return errors.Wrap(errors.ErrCodeCommand, "failed to reload systemd", err)
	}
	return nil
}

// EnableAndStart implements Supervisor.
func (s *DbusSupervisor) EnableAndStart(ctx context.Context, names ...string) error {
	conn, err := dbus.NewSystemdConnectionContext(ctx)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to connect to systemd", err)
	}
	defer conn.Close()

	if _, _, err := conn.EnableUnitFilesContext(ctx, names, false, true); err != nil {
		return errors.WrapWithContext(errors.ErrCodeCommand,
			"failed to enable units", err, map[string]any{"units": names})
	}

	for _, name := range names {
		slog.Info("starting service", "unit", name)
		done := make(chan string, 1)
		if _, err := conn.StartUnitContext(ctx, name, "replace", done); err != nil {
			return errors.WrapWithContext(errors.ErrCodeCommand,
				"failed to start unit", err, map[string]any{"unit": name})
		}

		select {
		case result := <-done:
			if result != "done" {
				return errors.NewWithContext(errors.ErrCodeCommand,
					fmt.Sprintf("unit start finished with result %q", result),
					map[string]any{"unit": name})
			}
		case <-ctx.Done():
			return errors.Wrap(errors.ErrCodeTimeout, "timed out starting unit", ctx.Err())
		}
	}
	return nil
}
