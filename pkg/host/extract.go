/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package host

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mchmarny/obstack/pkg/errors"
)

// Extractor unpacks downloaded release archives.
type Extractor interface {
	// Extract unpacks the archive into dest.
	Extract(ctx context.Context, archive, dest string) error
}

// TarGzExtractor unpacks gzip-compressed tarballs, the distribution format of
// both archive-installed services.
type TarGzExtractor struct{}

// NewTarGzExtractor creates a tar.gz Extractor.
func NewTarGzExtractor() *TarGzExtractor {
	return &TarGzExtractor{}
}

// Extract implements Extractor. Entries that would escape dest are rejected.
func (e *TarGzExtractor) Extract(ctx context.Context, archive, dest string) error {
	slog.Info("extracting archive", "archive", archive, "dest", dest)

	file, err := os.Open(archive)
	if err != nil {
		return errors.Wrap(errors.ErrCodeNotFound, "failed to open archive", err)
	}
	defer file.Close()

	gz, err := gzip.NewReader(file)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "archive is not gzip compressed", err)
	}
	defer gz.Close()

	reader := tar.NewReader(gz)
	for {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(errors.ErrCodeTimeout, "extraction canceled", err)
		}

		header, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, "failed to read archive entry", err)
		}

		target, err := safeJoin(dest, header.Name)
		if err != nil {
			return err
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return errors.Wrap(errors.ErrCodeInternal, "failed to create directory", err)
			}
		case tar.TypeReg:
			if err := writeEntry(reader, target, header.FileInfo().Mode()); err != nil {
				return err
			}
		default:
			// Symlinks and special files never appear in the release
			// archives; skip rather than fail.
			slog.Debug("skipping archive entry", "name", header.Name, "type", header.Typeflag)
		}
	}
}

func writeEntry(r io.Reader, target string, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to create entry directory", err)
	}

	out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode.Perm())
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to create extracted file", err)
	}

	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return errors.Wrap(errors.ErrCodeInternal, "failed to write extracted file", err)
	}
	return out.Close()
}

func safeJoin(dest, name string) (string, error) {
	target := filepath.Join(dest, name)
	if !strings.HasPrefix(target, filepath.Clean(dest)+string(os.PathSeparator)) {
		return "", errors.NewWithContext(errors.ErrCodeInternal,
			"archive entry escapes extraction directory",
			map[string]any{"entry": name})
	}
	return target, nil
}
