/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package probe

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/mchmarny/obstack/pkg/config"
	"github.com/mchmarny/obstack/pkg/errors"
)

// Endpoint is a named HTTP address to probe.
type Endpoint struct {
	Name string
	URL  string
}

// Result is the outcome of probing one endpoint.
type Result struct {
	Name    string        `json:"name" yaml:"name"`
	URL     string        `json:"url" yaml:"url"`
	Up      bool          `json:"up" yaml:"up"`
	Detail  string        `json:"detail" yaml:"detail"`
	Latency time.Duration `json:"latency" yaml:"latency"`
}

// Prober issues liveness probes against stack endpoints.
type Prober struct {
	client *http.Client
}

// New creates a Prober with the standard probe timeout.
func New() *Prober {
	return &Prober{
		client: &http.Client{Timeout: config.ProbeTimeout},
	}
}

// Check probes all endpoints concurrently and returns one result per
// endpoint, ordered as given. Probe failures are reported in the result,
// never as an error.
func (p *Prober) Check(ctx context.Context, endpoints []Endpoint) []Result {
	results := make([]Result, len(endpoints))

	g, gctx := errgroup.WithContext(ctx)
	for i, e := range endpoints {
		g.Go(func() error {
			results[i] = p.probe(gctx, e)
			return nil
		})
	}
	g.Wait() //nolint:errcheck // workers never return errors
	return results
}

func (p *Prober) probe(ctx context.Context, e Endpoint) Result {
	r := Result{Name: e.Name, URL: e.URL}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.URL, nil)
	if err != nil {
		r.Detail = err.Error()
		return r
	}

	started := time.Now()
	resp, err := p.client.Do(req)
	r.Latency = time.Since(started)
	if err != nil {
		r.Detail = err.Error()
		return r
	}
	defer resp.Body.Close()

	r.Detail = resp.Status
	r.Up = resp.StatusCode >= 200 && resp.StatusCode < 400
	return r
}

// WaitReady polls the endpoint until it answers successfully or the budget
// is spent. Polling is paced by a rate limiter so a fast-failing endpoint
// does not hot-loop.
func (p *Prober) WaitReady(ctx context.Context, e Endpoint, budget time.Duration) error {
	wctx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	limiter := rate.NewLimiter(rate.Every(config.ReadyPollInterval), 1)
	var last Result
	for {
		if err := limiter.Wait(wctx); err != nil {
			return errors.NewWithContext(errors.ErrCodeTimeout,
				fmt.Sprintf("%s not ready within %s", e.Name, budget),
				map[string]any{"url": e.URL, "last": last.Detail})
		}
		if last = p.probe(wctx, e); last.Up {
			return nil
		}
	}
}
