/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/mchmarny/obstack/pkg/errors"
)

const dirPerm = 0o700

// Workspace is a uniquely named temporary directory owned exclusively by a
// single provisioning run. It holds downloaded archives and extracted trees
// and is removed unconditionally when released.
type Workspace struct {
	path string
}

// New creates a workspace directory under parent. The name embeds a random
// uuid so concurrent runs never collide on the filesystem.
func New(parent string) (*Workspace, error) {
	path := filepath.Join(parent, fmt.Sprintf("obstack-%s", uuid.NewString()))
	if err := os.MkdirAll(path, dirPerm); err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeInternal,
			"failed to create workspace directory", err, map[string]any{"path": path})
	}

	slog.Debug("created workspace", "path", path)
	return &Workspace{path: path}, nil
}

// Path returns the workspace directory.
func (w *Workspace) Path() string {
	return w.path
}

// Join returns a path inside the workspace.
func (w *Workspace) Join(elem ...string) string {
	return filepath.Join(append([]string{w.path}, elem...)...)
}

// Release removes the workspace directory and everything in it. It is safe
// to call more than once and is intended to run deferred on every exit path.
func (w *Workspace) Release() {
	if w == nil || w.path == "" {
		return
	}
	if err := os.RemoveAll(w.path); err != nil {
		slog.Warn("failed to remove workspace", "path", w.path, "error", err)
		return
	}
	slog.Debug("removed workspace", "path", w.path)
}
