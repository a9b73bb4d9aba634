package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mchmarny/obstack/pkg/errors"
)

func TestDefault(t *testing.T) {
	c := Default()

	assert.Equal(t, DefaultGrafanaPort, c.GrafanaPort)
	assert.Equal(t, DefaultPrometheusPort, c.PrometheusPort)
	assert.Equal(t, DefaultNodeExporterPort, c.NodeExporterPort)
	assert.Equal(t, DefaultPrometheusVersion, c.PrometheusVersion)
	assert.Equal(t, DefaultNodeExporterVersion, c.NodeExporterVersion)
	assert.Equal(t, DefaultPrometheusMemoryLimit, c.PrometheusMemoryLimit)
	assert.NoError(t, c.Validate())
}

func TestApplyEnvironment(t *testing.T) {
	t.Setenv(EnvWorkDir, "/mnt/scratch")
	t.Setenv(EnvLogFile, "/tmp/test.log")
	t.Setenv(EnvGrafanaDatasources, "/tmp/ds.yaml")

	c := Default().ApplyEnvironment()

	assert.Equal(t, "/mnt/scratch", c.WorkDir)
	assert.Equal(t, "/tmp/test.log", c.LogFile)
	assert.Equal(t, "/tmp/ds.yaml", c.GrafanaDatasourcePath)
}

func TestApplyEnvironmentEmptyKeepsDefaults(t *testing.T) {
	t.Setenv(EnvWorkDir, "")
	t.Setenv(EnvLogFile, "")
	t.Setenv(EnvGrafanaDatasources, "")

	c := Default().ApplyEnvironment()

	assert.Equal(t, DefaultWorkDir, c.WorkDir)
	assert.Equal(t, DefaultLogFile, c.LogFile)
	assert.Equal(t, DefaultGrafanaDatasources, c.GrafanaDatasourcePath)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "defaults are valid",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "zero port",
			mutate:  func(c *Config) { c.GrafanaPort = 0 },
			wantErr: true,
		},
		{
			name:    "port above range",
			mutate:  func(c *Config) { c.NodeExporterPort = 70000 },
			wantErr: true,
		},
		{
			name:    "duplicate ports",
			mutate:  func(c *Config) { c.PrometheusPort = c.GrafanaPort },
			wantErr: true,
		},
		{
			name:    "missing prometheus version",
			mutate:  func(c *Config) { c.PrometheusVersion = "" },
			wantErr: true,
		},
		{
			name:    "missing exporter version",
			mutate:  func(c *Config) { c.NodeExporterVersion = "" },
			wantErr: true,
		},
		{
			name:    "bad memory limit",
			mutate:  func(c *Config) { c.PrometheusMemoryLimit = "lots" },
			wantErr: true,
		},
		{
			name:    "empty memory limit means no ceiling",
			mutate:  func(c *Config) { c.PrometheusMemoryLimit = "" },
			wantErr: false,
		},
		{
			name:    "memory limit plain bytes",
			mutate:  func(c *Config) { c.PrometheusMemoryLimit = "1073741824" },
			wantErr: false,
		},
		{
			name:    "missing work dir",
			mutate:  func(c *Config) { c.WorkDir = "" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, errors.ErrCodeInvalidConfig, errors.CodeOf(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}
