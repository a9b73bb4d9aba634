// Package fsutil implements the file conventions shared by the installers:
// backup-on-overwrite for configuration files, line-oriented in-place
// patching, and executable installation.
//
// Every destructive write to a pre-existing file first copies it to a sibling
// path suffixed with a second-resolution timestamp. Backups accumulate across
// runs and are never pruned.
package fsutil
