/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

const (
	// LevelEnvVar controls the default log level when no explicit level is set.
	LevelEnvVar = "LOG_LEVEL"

	logFilePerm = 0o644
	logDirPerm  = 0o755
)

// ParseLevel converts a level name to a slog.Level.
// Unknown or empty values default to slog.LevelInfo.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "info", "":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewStructuredLogger creates a JSON slog.Logger writing to w with module and
// version attributes attached to every record. Source location is included
// when the level is debug.
func NewStructuredLogger(module, version, level string, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	lvl := ParseLevel(level)
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl <= slog.LevelDebug,
	})
	return slog.New(handler).With(
		slog.String("module", module),
		slog.String("version", version),
	)
}

// SetDefaultStructuredLogger configures the process-wide default slog logger
// writing to stderr. The level is taken from the LOG_LEVEL environment
// variable, defaulting to info.
func SetDefaultStructuredLogger(module, version string) {
	SetDefaultStructuredLoggerWithLevel(module, version, os.Getenv(LevelEnvVar))
}

// SetDefaultStructuredLoggerWithLevel configures the process-wide default slog
// logger writing to stderr at the given level.
func SetDefaultStructuredLoggerWithLevel(module, version, level string) {
	slog.SetDefault(NewStructuredLogger(module, version, level, os.Stderr))
}

// SetDefaultStructuredLoggerWithFile configures the process-wide default slog
// logger so that every record is written both to stderr and to the log file at
// path. Parent directories are created as needed and the file is opened in
// append mode so successive runs accumulate in the same log. The returned
// closer releases the file handle; it is safe to close at process exit.
func SetDefaultStructuredLoggerWithFile(module, version, level, path string) (io.Closer, error) {
	if strings.TrimSpace(path) == "" {
		SetDefaultStructuredLoggerWithLevel(module, version, level)
		return noopCloser{}, nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, logDirPerm); err != nil {
			return nil, err
		}
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, logFilePerm)
	if err != nil {
		return nil, err
	}

	slog.SetDefault(NewStructuredLogger(module, version, level, io.MultiWriter(os.Stderr, file)))
	return file, nil
}

type noopCloser struct{}

func (noopCloser) Close() error { return nil }
