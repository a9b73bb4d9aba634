/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package provision

import (
	"context"
	"log/slog"

	"github.com/mchmarny/obstack/pkg/stack"
	"github.com/mchmarny/obstack/pkg/workspace"
)

// installNodeExporter installs the host-metrics exporter from a versioned
// release archive. Two independent idempotency signals are honored: a binary
// of the same name resolvable on the execution path, or a matching
// supervisor unit record. Either one skips the routine.
func (p *Provisioner) installNodeExporter(ctx context.Context, ws *workspace.Workspace) error {
	def := stack.NodeExporter(p.cfg)

	if path, err := p.runner.LookPath(def.BinaryName()); err == nil {
		slog.Info("install skipped, binary already present",
			"service", def.Name, "path", path, "requested", def.Version)
		p.reportVersionDrift(ctx, def, path)
		return nil
	}

	unitExists, err := p.supervisor.UnitFileExists(ctx, def.Unit)
	if err != nil {
		return err
	}
	if unitExists {
		slog.Info("install skipped, unit record already present",
			"service", def.Name, "unit", def.Unit, "requested", def.Version)
		return nil
	}

	if err := p.installFromArchive(ctx, ws, def); err != nil {
		return err
	}

	if err := p.accounts.EnsureSystemAccount(ctx, def.Name); err != nil {
		return err
	}

	return p.writeUnit(def)
}
