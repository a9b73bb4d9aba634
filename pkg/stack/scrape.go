/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package stack

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/mchmarny/obstack/pkg/errors"
)

// Fixed scrape cadence for the generated metrics-server configuration.
const (
	scrapeInterval     = "15s"
	evaluationInterval = "15s"
)

// ScrapeConfig is the minimal metrics-server configuration: global intervals
// plus one static job per scraped target.
type ScrapeConfig struct {
	Global        GlobalConfig `yaml:"global"`
	ScrapeConfigs []ScrapeJob  `yaml:"scrape_configs"`
}

// GlobalConfig holds the global scrape and rule-evaluation intervals.
type GlobalConfig struct {
	ScrapeInterval     string `yaml:"scrape_interval"`
	EvaluationInterval string `yaml:"evaluation_interval"`
}

// ScrapeJob declares one scrape job with static targets.
type ScrapeJob struct {
	JobName       string         `yaml:"job_name"`
	StaticConfigs []StaticConfig `yaml:"static_configs"`
}

// StaticConfig lists statically declared scrape targets.
type StaticConfig struct {
	Targets []string `yaml:"targets"`
}

// NewScrapeConfig builds the scrape configuration declaring the local
// host-metrics exporter as the single static target.
func NewScrapeConfig(nodeExporterPort int) ScrapeConfig {
	return ScrapeConfig{
		Global: GlobalConfig{
			ScrapeInterval:     scrapeInterval,
			EvaluationInterval: evaluationInterval,
		},
		ScrapeConfigs: []ScrapeJob{
			{
				JobName: NodeExporterName,
				StaticConfigs: []StaticConfig{
					{Targets: []string{fmt.Sprintf("127.0.0.1:%d", nodeExporterPort)}},
				},
			},
		},
	}
}

// Render marshals the configuration to YAML.
func (c ScrapeConfig) Render() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to marshal scrape config", err)
	}
	return data, nil
}
