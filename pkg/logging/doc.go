// Package logging provides structured logging utilities for obstack components.
//
// # Overview
//
// This package wraps the standard library slog package with obstack-specific
// defaults and conventions for consistent logging across all components. It
// supports environment-based log level configuration, module/version context
// injection, automatic source location tracking for debug logs, and duplication
// of every record to a provisioning log file in addition to the terminal.
//
// # Log Levels
//
// Supported log levels (case-insensitive):
//   - DEBUG: Detailed diagnostic information with source location
//   - INFO: General informational messages (default)
//   - WARN/WARNING: Warning messages for potentially problematic situations
//   - ERROR: Error messages for failures requiring attention
//
// # Usage
//
// Setting the default logger (recommended):
//
//	func main() {
//	    logging.SetDefaultStructuredLogger("obstack", "v1.0.0")
//
//	    slog.Info("installing component", "name", "prometheus")
//	    slog.Error("step failed", "error", err)
//	}
//
// Duplicating output to the provisioning log file:
//
//	closer, err := logging.SetDefaultStructuredLoggerWithFile("obstack", version, "info", "/var/log/obstack-install.log")
//	if err != nil { ... }
//	defer closer.Close()
//
// # Environment Configuration
//
// The LOG_LEVEL environment variable controls logging verbosity when no
// explicit level is given:
//
//	LOG_LEVEL=debug obstack install
//
// If LOG_LEVEL is not set, defaults to INFO level.
//
// # Output Format
//
// All logs are written in JSON format with module and version attributes:
//
//	{
//	    "time": "2025-01-15T10:30:00.123Z",
//	    "level": "INFO",
//	    "msg": "service started",
//	    "module": "obstack",
//	    "version": "v1.0.0",
//	    "unit": "prometheus.service"
//	}
package logging
