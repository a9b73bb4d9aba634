/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package fsutil

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mchmarny/obstack/pkg/errors"
)

const (
	// backupTimeFormat is second-resolution; one backup per overwritten file
	// per run, never pruned.
	backupTimeFormat = "20060102150405"

	dirPerm    = 0o755
	filePerm   = 0o644
	binaryPerm = 0o755
)

// timeNow is swapped in tests to make backup names deterministic.
var timeNow = time.Now

// BackupPath returns the sibling path a backup of path would be written to
// at time now.
func BackupPath(path string, now time.Time) string {
	return fmt.Sprintf("%s.bak-%s", path, now.Format(backupTimeFormat))
}

// Backup copies an existing file to a timestamped sibling path and returns
// the backup location. If the file does not exist, no backup is created and
// the returned path is empty.
func Backup(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", errors.Wrap(errors.ErrCodeInternal, "failed to stat file for backup", err)
	}

	backup := BackupPath(path, timeNow())
	if err := copyFile(path, backup, info.Mode().Perm()); err != nil {
		return "", errors.WrapWithContext(errors.ErrCodeInternal, "failed to back up file", err,
			map[string]any{"path": path, "backup": backup})
	}

	slog.Info("backed up existing file", "path", path, "backup", backup)
	return backup, nil
}

// WriteFileWithBackup writes data to path, backing up any pre-existing file
// first. Files that do not yet exist are written directly. Parent directories
// are created as needed.
func WriteFileWithBackup(path string, data []byte) error {
	if _, err := Backup(path); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to create parent directory", err)
	}
	if err := os.WriteFile(path, data, filePerm); err != nil {
		return errors.WrapWithContext(errors.ErrCodeInternal, "failed to write file", err,
			map[string]any{"path": path})
	}
	return nil
}

// PatchLines rewrites path line by line, replacing every line for which match
// returns true with the replacement. The original file is backed up first.
// Returns the number of lines replaced.
func PatchLines(path string, match func(line string) bool, replacement string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, errors.WrapWithContext(errors.ErrCodeNotFound, "failed to read file to patch", err,
			map[string]any{"path": path})
	}

	if _, err := Backup(path); err != nil {
		return 0, err
	}

	lines := strings.Split(string(data), "\n")
	replaced := 0
	for i, line := range lines {
		if match(line) {
			lines[i] = replacement
			replaced++
		}
	}

	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), filePerm); err != nil {
		return 0, errors.WrapWithContext(errors.ErrCodeInternal, "failed to write patched file", err,
			map[string]any{"path": path})
	}
	return replaced, nil
}

// InstallBinary copies src into dir as an executable, creating dir as needed.
// Returns the installed path.
func InstallBinary(src, dir string) (string, error) {
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, "failed to create binary directory", err)
	}

	dst := filepath.Join(dir, filepath.Base(src))
	if err := copyFile(src, dst, binaryPerm); err != nil {
		return "", errors.WrapWithContext(errors.ErrCodeInternal, "failed to install binary", err,
			map[string]any{"src": src, "dst": dst})
	}

	slog.Debug("installed binary", "path", dst)
	return dst, nil
}

func copyFile(src, dst string, perm os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm)
	if err != nil {
		return err
	}
	// OpenFile perm is subject to umask; make the mode exact.
	if err := out.Chmod(perm); err != nil {
		out.Close()
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
