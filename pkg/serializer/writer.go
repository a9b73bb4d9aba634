/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package serializer writes report documents in the output formats the CLI
// supports: human-readable text, JSON, and YAML.
package serializer

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Format is the output format type.
type Format string

const (
	// FormatText outputs a human-readable rendering.
	FormatText Format = "text"
	// FormatJSON outputs indented JSON.
	FormatJSON Format = "json"
	// FormatYAML outputs YAML.
	FormatYAML Format = "yaml"
)

func (f Format) IsUnknown() bool {
	switch f {
	case FormatText, FormatJSON, FormatYAML:
		return false
	default:
		return true
	}
}

// SupportedFormats returns all supported output format names.
func SupportedFormats() []string {
	return []string{string(FormatText), string(FormatJSON), string(FormatYAML)}
}

// Writer serializes report documents to an output destination.
type Writer struct {
	format Format
	output io.Writer
}

// NewWriter creates a Writer with the given format and destination. A nil
// output means stdout; an unknown format falls back to text.
func NewWriter(format Format, output io.Writer) *Writer {
	if output == nil {
		output = os.Stdout
	}
	if format.IsUnknown() {
		slog.Warn("unknown format, defaulting to text", "format", format)
		format = FormatText
	}
	return &Writer{format: format, output: output}
}

// Serialize writes v in the Writer's format. Text format uses the value's
// fmt.Stringer rendering when available and falls back to JSON otherwise.
func (w *Writer) Serialize(v any) error {
	switch w.format {
	case FormatYAML:
		enc := yaml.NewEncoder(w.output)
		defer enc.Close()
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to serialize to yaml: %w", err)
		}
		return nil
	case FormatText:
		if s, ok := v.(fmt.Stringer); ok {
			_, err := io.WriteString(w.output, s.String())
			return err
		}
		fallthrough
	default:
		enc := json.NewEncoder(w.output)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to serialize to json: %w", err)
		}
		return nil
	}
}
