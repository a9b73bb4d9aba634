/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package provision

import (
	"context"
	"log/slog"

	"github.com/mchmarny/obstack/pkg/errors"
)

// preflight fails fast before any side effect. Two preconditions only:
// superuser privilege and an uncontended package-manager lock. The lock
// check detects a concurrent holder, it does not acquire anything, so a
// second run racing past the check is still possible.
func (p *Provisioner) preflight(ctx context.Context) error {
	if p.euid() != 0 {
		return errors.New(errors.ErrCodePrecondition,
			"provisioning requires superuser privileges")
	}

	held, err := p.packages.LockHeld(ctx)
	if err != nil {
		return err
	}
	if held {
		return errors.New(errors.ErrCodePrecondition,
			"package manager lock is held by another process")
	}

	slog.Debug("preflight checks passed")
	return nil
}
