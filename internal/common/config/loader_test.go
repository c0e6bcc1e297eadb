package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadFromFile(t *testing.T) {
	t.Setenv("TEST_PG_PASSWORD", "s3cret")

	path := writeConfig(t, `
app:
  name: credit-risk-workers
camunda:
  broker_address: localhost:26500
  max_jobs_active: 8
  timeout: 20000
database:
  postgres:
    host: localhost
    database: credit
    user: scorer
    password: ${TEST_PG_PASSWORD}
  redis:
    address: localhost:6379
model:
  artifact_path: configs/model.json
  cache_ttl: 120
workers:
  assess-credit-risk:
    enabled: true
  map-credit-rating:
    enabled: true
    max_jobs_active: 2
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.Database.Postgres.Password)
	assert.Equal(t, 5432, cfg.Database.Postgres.Port)
	assert.Equal(t, "disable", cfg.Database.Postgres.SSLMode)
	assert.Equal(t, 300.0, cfg.Model.BaseScore)
	assert.Equal(t, 300.0, cfg.Model.ScaleLength)
	assert.Equal(t, 2*time.Minute, cfg.Model.CacheTTLDuration())
	assert.Equal(t, ":8080", cfg.HTTP.Address)
	assert.Equal(t, "json", cfg.Logging.Format)

	assert.Equal(t, "dev", cfg.App.Version)
	assert.Equal(t, TraceExporterNone, cfg.Tracing.Exporter)
	assert.Equal(t, 1.0, cfg.Tracing.SampleRatio)

	w := GetWorkerConfig(cfg, "assess-credit-risk")
	assert.True(t, w.Enabled)
	assert.Equal(t, 8, w.MaxJobsActive)
	assert.Equal(t, 20000, w.Timeout)
	assert.Equal(t, 3, w.MaxRetries)

	m := GetWorkerConfig(cfg, "map-credit-rating")
	assert.Equal(t, 2, m.MaxJobsActive)
	assert.Equal(t, 20000, m.Timeout)

	unlisted := GetWorkerConfig(cfg, "score-batch")
	assert.Equal(t, 8, unlisted.MaxJobsActive)
	assert.Equal(t, 20000, unlisted.Timeout)
	assert.True(t, IsWorkerEnabled(cfg, "score-batch"))
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "broker required when camunda enabled",
			body:    "database:\n  postgres:\n    enabled: false\n  redis:\n    enabled: false\n",
			wantErr: "camunda.broker_address",
		},
		{
			name:    "postgres host required",
			body:    "camunda:\n  enabled: false\ndatabase:\n  redis:\n    enabled: false\n",
			wantErr: "database.postgres.host",
		},
		{
			name:    "redis address required",
			body:    "camunda:\n  enabled: false\ndatabase:\n  postgres:\n    enabled: false\n",
			wantErr: "database.redis.address",
		},
		{
			name: "scale length must be positive",
			body: "camunda:\n  enabled: false\ndatabase:\n  postgres:\n    enabled: false\n  redis:\n    enabled: false\n" +
				"model:\n  scale_length: -1\n",
			wantErr: "model.scale_length",
		},
		{
			name: "unknown trace exporter",
			body: "camunda:\n  enabled: false\ndatabase:\n  postgres:\n    enabled: false\n  redis:\n    enabled: false\n" +
				"tracing:\n  exporter: zipkin\n",
			wantErr: "tracing.exporter",
		},
		{
			name: "otlp exporter needs an endpoint",
			body: "camunda:\n  enabled: false\ndatabase:\n  postgres:\n    enabled: false\n  redis:\n    enabled: false\n" +
				"tracing:\n  exporter: otlp\n",
			wantErr: "tracing.endpoint",
		},
		{
			name: "sample ratio above one",
			body: "camunda:\n  enabled: false\ndatabase:\n  postgres:\n    enabled: false\n  redis:\n    enabled: false\n" +
				"tracing:\n  sample_ratio: 1.5\n",
			wantErr: "tracing.sample_ratio",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFromFile_Minimal(t *testing.T) {
	path := writeConfig(t, "camunda:\n  enabled: false\ndatabase:\n  postgres:\n    enabled: false\n  redis:\n    enabled: false\n")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "configs/model.json", cfg.Model.ArtifactPath)
	assert.Equal(t, time.Hour, cfg.Model.CacheTTLDuration())
}

func TestLoadFromFile_Missing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
