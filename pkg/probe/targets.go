/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package probe

import (
	"context"

	"github.com/prometheus/client_golang/api"
	v1 "github.com/prometheus/client_golang/api/prometheus/v1"
	"github.com/prometheus/common/model"

	"github.com/mchmarny/obstack/pkg/errors"
)

// Target is the scrape-target health the metrics server reports for one of
// its configured jobs.
type Target struct {
	Job       string `json:"job" yaml:"job"`
	ScrapeURL string `json:"scrapeUrl" yaml:"scrapeUrl"`
	Health    string `json:"health" yaml:"health"`
	LastError string `json:"lastError,omitempty" yaml:"lastError,omitempty"`
}

// Healthy reports whether the target's last scrape succeeded.
func (t Target) Healthy() bool {
	return t.Health == string(v1.HealthGood)
}

// ActiveTargets queries the metrics server's API for the health of its
// active scrape targets.
func ActiveTargets(ctx context.Context, address string) ([]Target, error) {
	client, err := api.NewClient(api.Config{Address: address})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, "invalid metrics server address", err)
	}

	result, err := v1.NewAPI(client).Targets(ctx)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeInternal, "failed to query scrape targets", err,
			map[string]any{"address": address})
	}

	targets := make([]Target, 0, len(result.Active))
	for _, a := range result.Active {
		targets = append(targets, Target{
			Job:       string(a.Labels[model.JobLabel]),
			ScrapeURL: a.ScrapeURL,
			Health:    string(a.Health),
			LastError: a.LastError,
		})
	}
	return targets, nil
}
