// Package config defines the resolved target configuration for a provisioning
// run and the precedence rules used to build it.
//
// Precedence, lowest to highest: built-in defaults, environment variables,
// command-line flags. Flag-backed values are merged by the CLI layer (urfave
// env sources); the handful of environment-only overrides (WORKDIR, LOG_FILE,
// GRAFANA_DS_PROVISION) are overlaid by ApplyEnvironment. The resulting Config
// is a plain immutable value passed to every routine, so each installer can be
// exercised in tests with an injected configuration pointing at temporary
// directories.
package config
