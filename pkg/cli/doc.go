/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package cli implements the obstack command line interface: the install
// command that provisions the observability stack and the status command
// that probes an already provisioned host.
package cli
