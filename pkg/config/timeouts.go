// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import "time"

// Package manager timeouts. Upgrades can legitimately take a long time on a
// host that has not been updated recently.
const (
	// PackageRefreshTimeout bounds a package metadata refresh.
	PackageRefreshTimeout = 5 * time.Minute

	// PackageInstallTimeout bounds a single package install or upgrade run.
	PackageInstallTimeout = 20 * time.Minute
)

// HTTP client timeouts for outbound requests (release archive downloads,
// signing key fetch, external IP lookup).
const (
	// HTTPClientTimeout is the default total timeout for small HTTP requests.
	HTTPClientTimeout = 30 * time.Second

	// HTTPDownloadTimeout is the total timeout for release archive downloads.
	HTTPDownloadTimeout = 5 * time.Minute

	// HTTPConnectTimeout is the timeout for establishing connections.
	HTTPConnectTimeout = 5 * time.Second

	// HTTPTLSHandshakeTimeout is the timeout for TLS handshake.
	HTTPTLSHandshakeTimeout = 5 * time.Second

	// HTTPResponseHeaderTimeout is the timeout for reading response headers.
	HTTPResponseHeaderTimeout = 10 * time.Second

	// HTTPIdleConnTimeout is the timeout for idle connections in the pool.
	HTTPIdleConnTimeout = 90 * time.Second

	// HTTPKeepAlive is the keep-alive duration for connections.
	HTTPKeepAlive = 30 * time.Second
)

// Service supervisor timeouts.
const (
	// SupervisorTimeout bounds individual systemd operations
	// (daemon-reload, enable, start).
	SupervisorTimeout = 30 * time.Second
)

// Readiness verification timeouts used after the services are started.
const (
	// ReadyPollInterval is the pace of endpoint readiness probes.
	ReadyPollInterval = 2 * time.Second

	// ReadyBudget is the total time allowed for the stack to report healthy.
	ReadyBudget = 90 * time.Second

	// ProbeTimeout bounds a single endpoint probe.
	ProbeTimeout = 5 * time.Second
)
