// Package errors provides structured error types for better observability
// and programmatic error handling across the application.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeCommand,
//	    "failed to install package",
//	    execErr,
//	    map[string]interface{}{
//	        "command": "apt-get",
//	        "package": pkg,
//	    },
//	)
package errors
