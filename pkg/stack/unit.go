/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package stack

import (
	"io"

	"github.com/coreos/go-systemd/v22/unit"

	"github.com/mchmarny/obstack/pkg/errors"
)

// UnitOptions returns the supervisor unit descriptor for the service:
// ordered after networking, run as the dedicated account, restarted on
// failure, with a memory ceiling only when the definition's policy sets one.
func (d Definition) UnitOptions() []*unit.UnitOption {
	opts := []*unit.UnitOption{
		unit.NewUnitOption("Unit", "Description", d.Description),
		unit.NewUnitOption("Unit", "Wants", "network-online.target"),
		unit.NewUnitOption("Unit", "After", "network-online.target"),
		unit.NewUnitOption("Service", "Type", "simple"),
		unit.NewUnitOption("Service", "User", d.Name),
		unit.NewUnitOption("Service", "Group", d.Name),
		unit.NewUnitOption("Service", "ExecStart", d.ExecStart),
		unit.NewUnitOption("Service", "Restart", "on-failure"),
		unit.NewUnitOption("Service", "RestartSec", "5"),
	}
	if d.MemoryMax != "" {
		opts = append(opts, unit.NewUnitOption("Service", "MemoryMax", d.MemoryMax))
	}
	opts = append(opts, unit.NewUnitOption("Install", "WantedBy", "multi-user.target"))
	return opts
}

// RenderUnit serializes the unit descriptor to its file form.
func (d Definition) RenderUnit() ([]byte, error) {
	data, err := io.ReadAll(unit.Serialize(d.UnitOptions()))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to serialize unit", err)
	}
	return data, nil
}
