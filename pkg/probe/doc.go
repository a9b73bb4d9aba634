/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package probe checks the health of provisioned stack endpoints: HTTP
// liveness probes, a paced readiness wait for freshly started services, and
// scrape-target health queried from the metrics server's own API.
package probe
