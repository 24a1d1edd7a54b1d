package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ogulcanaydogan/cur-scenarios/internal/config"
	"github.com/ogulcanaydogan/cur-scenarios/pkg/cur"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Listen)
	assert.Equal(t, "30s", cfg.Server.ReadTimeout)
	assert.Equal(t, "60s", cfg.Server.WriteTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.InDelta(t, 0.30, cfg.Scenario.AdditionalCoverage, 1e-9)
	assert.InDelta(t, 0.60, cfg.Scenario.SpotDiscount, 1e-9)
	assert.Equal(t, []float64{0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 1.0}, cfg.Scenario.PassThrough)
	assert.Equal(t, cur.DefaultComputeProductCodes(), cfg.Scenario.ComputeProductCodes)
	assert.Zero(t, cfg.Alerts.MinCoverage)
	assert.Equal(t, cur.DefaultSchema(), cfg.Schema.CURSchema())
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	data := []byte(`
storage:
  path: /tmp/test.db
server:
  listen: ":9090"
scenario:
  additional_coverage: 0.2
  pass_through: [0.5, 1.0]
  exclude_services: ["Tax"]
schema:
  net_cost: lineItem/UnblendedCost
s3:
  region: eu-west-1
alerts:
  min_coverage: 0.6
  webhook:
    enabled: true
    url: https://hooks.example.com/cur
logging:
  level: debug
`)
	require.NoError(t, os.WriteFile(cfgPath, data, 0o644))

	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/test.db", cfg.Storage.Path)
	assert.Equal(t, ":9090", cfg.Server.Listen)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "eu-west-1", cfg.S3.Region)
	assert.InDelta(t, 0.6, cfg.Alerts.MinCoverage, 1e-9)
	assert.True(t, cfg.Alerts.Webhook.Enabled)

	params := cfg.Scenario.Params()
	assert.InDelta(t, 0.2, params.AdditionalCoverage, 1e-9)
	assert.InDelta(t, 0.6, params.SpotDiscount, 1e-9)
	assert.Equal(t, []float64{0.5, 1.0}, params.PassThrough)
	assert.Equal(t, []string{"Tax"}, params.ExcludeServices)

	schema := cfg.Schema.CURSchema()
	assert.Equal(t, "lineItem/UnblendedCost", schema.NetCost)
	assert.Equal(t, cur.DefaultSchema().ProductCode, schema.ProductCode)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("CURSCEN_LOGGING_LEVEL", "error")
	t.Setenv("CURSCEN_SERVER_LISTEN", ":7070")
	t.Setenv("CURSCEN_SCENARIO_SPOT_DISCOUNT", "0.45")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.Logging.Level)
	assert.Equal(t, ":7070", cfg.Server.Listen)
	assert.InDelta(t, 0.45, cfg.Scenario.SpotDiscount, 1e-9)
}

func TestLoad_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("invalid: [yaml"), 0o644))

	_, err := config.Load(cfgPath)
	assert.Error(t, err)
}

func TestScenarioConfig_ParamsCopiesSlices(t *testing.T) {
	sc := config.ScenarioConfig{PassThrough: []float64{0.5}}
	p := sc.Params()
	p.PassThrough[0] = 1
	assert.Equal(t, []float64{0.5}, sc.PassThrough)
}
