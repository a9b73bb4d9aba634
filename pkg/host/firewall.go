/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package host

import (
	"context"
	"log/slog"
	"strconv"
)

// Firewall stages packet-filter rules and turns enforcement on. Rules must be
// staged before Enable so enforcement never activates with an empty rule set.
type Firewall interface {
	// DefaultDenyInbound sets the default policy for inbound traffic to deny.
	DefaultDenyInbound(ctx context.Context) error

	// DefaultAllowOutbound sets the default policy for outbound traffic to allow.
	DefaultAllowOutbound(ctx context.Context) error

	// AllowTCP stages an inbound allow rule for the given TCP port.
	AllowTCP(ctx context.Context, port int) error

	// Enable turns enforcement on. Must be called after all rules are staged.
	Enable(ctx context.Context) error
}

// UFW is the uncomplicated-firewall-backed Firewall.
type UFW struct {
	runner Runner
}

// NewUFW creates a ufw-backed firewall controller.
func NewUFW(runner Runner) *UFW {
	return &UFW{runner: runner}
}

// DefaultDenyInbound implements Firewall.
func (f *UFW) DefaultDenyInbound(ctx context.Context) error {
	return f.runner.Run(ctx, "ufw", "default", "deny", "incoming")
}

// DefaultAllowOutbound implements Firewall.
func (f *UFW) DefaultAllowOutbound(ctx context.Context) error {
	return f.runner.Run(ctx, "ufw", "default", "allow", "outgoing")
}

// AllowTCP implements Firewall.
func (f *UFW) AllowTCP(ctx context.Context, port int) error {
	slog.Info("allowing inbound port", "port", port, "proto", "tcp")
	return f.runner.Run(ctx, "ufw", "allow", strconv.Itoa(port)+"/tcp")
}

// Enable implements Firewall. The force flag suppresses the interactive
// confirmation prompt.
func (f *UFW) Enable(ctx context.Context) error {
	slog.Info("enabling firewall enforcement")
	return f.runner.Run(ctx, "ufw", "--force", "enable")
}
