package stack

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mchmarny/obstack/pkg/config"
)

func TestPrometheusDefinition(t *testing.T) {
	cfg := config.Default()
	d := Prometheus(cfg)

	assert.Equal(t, PrometheusName, d.Name)
	assert.Equal(t, PrometheusUnit, d.Unit)
	assert.Equal(t, "prometheus", d.BinaryName())
	assert.Equal(t, []string{"prometheus", "promtool"}, d.Binaries)
	assert.Equal(t,
		fmt.Sprintf("https://github.com/prometheus/prometheus/releases/download/v%s/prometheus-%s.linux-amd64.tar.gz",
			cfg.PrometheusVersion, cfg.PrometheusVersion),
		d.URL)
	assert.Contains(t, d.ExecStart, "--config.file=/etc/prometheus/prometheus.yml")
	assert.Contains(t, d.ExecStart, "--storage.tsdb.path=/var/lib/prometheus")
	assert.Contains(t, d.ExecStart, fmt.Sprintf("--web.listen-address=0.0.0.0:%d", cfg.PrometheusPort))
	assert.Equal(t, cfg.PrometheusMemoryLimit, d.MemoryMax)
}

func TestNodeExporterDefinition(t *testing.T) {
	cfg := config.Default()
	cfg.NodeExporterPort = 9123
	d := NodeExporter(cfg)

	assert.Equal(t, NodeExporterName, d.Name)
	assert.Contains(t, d.ExecStart, "--web.listen-address=127.0.0.1:9123")
	assert.Contains(t, d.ExecStart, "--collector.systemd")
	assert.Contains(t, d.ExecStart, "--collector.processes")
	assert.Empty(t, d.MemoryMax, "exporter carries no memory ceiling by default")
}

func TestRenderUnit(t *testing.T) {
	cfg := config.Default()

	t.Run("prometheus unit has memory ceiling", func(t *testing.T) {
		data, err := Prometheus(cfg).RenderUnit()
		require.NoError(t, err)

		text := string(data)
		assert.Contains(t, text, "Description=Prometheus metrics server")
		assert.Contains(t, text, "After=network-online.target")
		assert.Contains(t, text, "User=prometheus")
		assert.Contains(t, text, "Group=prometheus")
		assert.Contains(t, text, "Restart=on-failure")
		assert.Contains(t, text, fmt.Sprintf("MemoryMax=%s", cfg.PrometheusMemoryLimit))
		assert.Contains(t, text, "WantedBy=multi-user.target")
	})

	t.Run("exporter unit has no memory ceiling", func(t *testing.T) {
		data, err := NodeExporter(cfg).RenderUnit()
		require.NoError(t, err)

		text := string(data)
		assert.NotContains(t, text, "MemoryMax")
		assert.Contains(t, text, "User=node_exporter")
		assert.Contains(t, text, "Restart=on-failure")
	})

	t.Run("memory ceiling is per-service policy", func(t *testing.T) {
		d := NodeExporter(cfg)
		d.MemoryMax = "128M"
		data, err := d.RenderUnit()
		require.NoError(t, err)
		assert.Contains(t, string(data), "MemoryMax=128M")
	})
}

func TestDatasourceDocument(t *testing.T) {
	doc := NewDatasourceDocument(9090)
	data, err := doc.Render()
	require.NoError(t, err)

	// The document must round-trip through the fixed schema.
	var parsed DatasourceDocument
	require.NoError(t, yaml.Unmarshal(data, &parsed))

	require.Len(t, parsed.Datasources, 1)
	ds := parsed.Datasources[0]
	assert.Equal(t, 1, parsed.APIVersion)
	assert.Equal(t, "Prometheus", ds.Name)
	assert.Equal(t, "prometheus", ds.Type)
	assert.Equal(t, "proxy", ds.Access)
	assert.Equal(t, "http://127.0.0.1:9090", ds.URL)
	assert.True(t, ds.IsDefault)
	assert.False(t, ds.Editable)
}

func TestDatasourceURLTracksConfiguredPort(t *testing.T) {
	doc := NewDatasourceDocument(19090)
	assert.Equal(t, "http://127.0.0.1:19090", doc.Datasources[0].URL)
}

func TestScrapeConfig(t *testing.T) {
	c := NewScrapeConfig(9100)
	data, err := c.Render()
	require.NoError(t, err)

	var parsed ScrapeConfig
	require.NoError(t, yaml.Unmarshal(data, &parsed))

	assert.Equal(t, "15s", parsed.Global.ScrapeInterval)
	assert.Equal(t, "15s", parsed.Global.EvaluationInterval)
	require.Len(t, parsed.ScrapeConfigs, 1)
	job := parsed.ScrapeConfigs[0]
	assert.Equal(t, NodeExporterName, job.JobName)
	require.Len(t, job.StaticConfigs, 1)
	assert.Equal(t, []string{"127.0.0.1:9100"}, job.StaticConfigs[0].Targets)

	// Generated YAML uses the metrics-server key names.
	assert.True(t, strings.Contains(string(data), "scrape_interval"))
	assert.True(t, strings.Contains(string(data), "static_configs"))
}
