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

// datasourceAPIVersion is the fixed schema version of the grafana datasource
// provisioning document.
const datasourceAPIVersion = 1

// DatasourceDocument is the visualization-server datasource provisioning
// document. The schema is fixed: apiVersion plus a datasources list.
type DatasourceDocument struct {
	APIVersion  int          `yaml:"apiVersion"`
	Datasources []Datasource `yaml:"datasources"`
}

// Datasource declares one datasource entry.
type Datasource struct {
	Name      string `yaml:"name"`
	Type      string `yaml:"type"`
	Access    string `yaml:"access"`
	URL       string `yaml:"url"`
	IsDefault bool   `yaml:"isDefault"`
	Editable  bool   `yaml:"editable"`
}

// NewDatasourceDocument builds the provisioning document pointing the
// visualization server at the local metrics server. The datasource is marked
// default and non-editable so the provisioned value survives UI sessions.
func NewDatasourceDocument(prometheusPort int) DatasourceDocument {
	return DatasourceDocument{
		APIVersion: datasourceAPIVersion,
		Datasources: []Datasource{
			{
				Name:      "Prometheus",
				Type:      "prometheus",
				Access:    "proxy",
				URL:       fmt.Sprintf("http://127.0.0.1:%d", prometheusPort),
				IsDefault: true,
				Editable:  false,
			},
		},
	}
}

// Render marshals the document to YAML.
func (d DatasourceDocument) Render() ([]byte, error) {
	data, err := yaml.Marshal(d)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to marshal datasource document", err)
	}
	return data, nil
}
