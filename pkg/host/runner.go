/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package host

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/mchmarny/obstack/pkg/errors"
)

// Runner executes external commands on the host.
type Runner interface {
	// Run executes a command and waits for completion. A non-zero exit is
	// returned as a COMMAND_FAILED structured error.
	Run(ctx context.Context, name string, args ...string) error

	// Output executes a command and returns its standard output.
	Output(ctx context.Context, name string, args ...string) ([]byte, error)

	// LookPath reports the absolute path of an executable resolvable on the
	// execution path, or an error when it is not.
	LookPath(name string) (string, error)
}

// ExecRunner runs commands via os/exec. All commands inherit the process
// environment with DEBIAN_FRONTEND forced to noninteractive so package
// operations never prompt.
type ExecRunner struct{}

// NewExecRunner creates an exec-backed Runner.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = append(os.Environ(), "DEBIAN_FRONTEND=noninteractive")

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	slog.Debug("running command", "cmd", name, "args", strings.Join(args, " "))
	if err := cmd.Run(); err != nil {
		return errors.WrapWithContext(errors.ErrCodeCommand,
			fmt.Sprintf("command failed: %s", name), err,
			map[string]any{
				"command": name,
				"args":    strings.Join(args, " "),
				"stderr":  strings.TrimSpace(stderr.String()),
			})
	}
	return nil
}

// Output implements Runner.
func (r *ExecRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = append(os.Environ(), "DEBIAN_FRONTEND=noninteractive")

	slog.Debug("running command for output", "cmd", name, "args", strings.Join(args, " "))
	out, err := cmd.Output()
	if err != nil {
		return out, errors.WrapWithContext(errors.ErrCodeCommand,
			fmt.Sprintf("command failed: %s", name), err,
			map[string]any{
				"command": name,
				"args":    strings.Join(args, " "),
			})
	}
	return out, nil
}

// LookPath implements Runner.
func (r *ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
