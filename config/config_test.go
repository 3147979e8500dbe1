package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv testlerin makinedeki gerçek ortamdan etkilenmemesi için ilgili değişkenleri boşaltır.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ASSET_CONFIG", "PORT", "LISTEN_ADDR", "LOG_MODE", "DB_DRIVER", "DB_DSN",
		"MEMORY_BACKEND", "MEMORY_DB_PATH", "REDIS_ADDR", "REDIS_PASSWORD", "MEMORY_HISTORY_LIMIT",
		"LLM_PROVIDER", "LLM_MODEL", "LLM_TEMPERATURE", "LLM_MAX_RETRIES", "HTTP_CLIENT_TIMEOUT_SECONDS",
		"OPENAI_API_KEY", "OPENAI_BASE_URL", "OLLAMA_BASE_URL", "AGENT_MAX_STEPS", "NATS_URL", "OTEL_ENABLED",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8000", cfg.ListenAddress)
	assert.Equal(t, DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, "./data/assets.db", cfg.DB.DSN)
	assert.Equal(t, "./data/agent_memory.db", cfg.Memory.Path)
	assert.Equal(t, 20, cfg.Memory.HistoryLimit)
	assert.Equal(t, ProviderOpenAI, cfg.LLM.Provider)
	assert.Nil(t, cfg.LLM.Temperature)
	assert.Equal(t, 2, cfg.LLM.MaxRetries)
	assert.Equal(t, 60*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 8, cfg.Agent.MaxSteps)
	assert.False(t, cfg.Telemetry.Enabled)
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "asset-smith.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
listen_address: ":9000"
db:
  driver: postgres
  dsn: "host=localhost user=app dbname=assets"
memory:
  backend: redis
  redis_addr: "localhost:6379"
  ttl: 30m
llm:
  provider: ollama
  model: llama3.1
  timeout: 15s
`), 0o644))

	t.Setenv("LLM_MODEL", "qwen2.5")
	t.Setenv("LLM_TEMPERATURE", "0.2")
	t.Setenv("PORT", "7000")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.ListenAddress)
	assert.Equal(t, DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, BackendRedis, cfg.Memory.Backend)
	assert.Equal(t, 30*time.Minute, cfg.Memory.TTL)
	assert.Equal(t, ProviderOllama, cfg.LLM.Provider)
	assert.Equal(t, "qwen2.5", cfg.LLM.Model)
	require.NotNil(t, cfg.LLM.Temperature)
	assert.Equal(t, 0.2, *cfg.LLM.Temperature)
	assert.Equal(t, 15*time.Second, cfg.LLM.Timeout)
	// YAML'da olmayan alanlar varsayılanda kalır
	assert.Equal(t, 8, cfg.Agent.MaxSteps)
}

func TestLoad_ConfigFromEnvPath(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "c.yaml")
	require.NoError(t, os.WriteFile(path, []byte("agent:\n  max_steps: 3\n"), 0o644))
	t.Setenv("ASSET_CONFIG", path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Agent.MaxSteps)
}

func TestLoad_InvalidEnv(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"HTTP_CLIENT_TIMEOUT_SECONDS", "sixty"},
		{"LLM_TEMPERATURE", "warm"},
		{"LLM_MAX_RETRIES", "two"},
		{"MEMORY_HISTORY_LIMIT", "x"},
		{"AGENT_MAX_STEPS", "1.5"},
		{"OTEL_ENABLED", "maybe"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load("")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.DB.Driver = " SQLite "
	cfg.LLM.Provider = "Ollama"
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, ProviderOllama, cfg.LLM.Provider)

	bad := Default()
	bad.DB.Driver = "oracle"
	bad.Memory.Backend = BackendRedis
	bad.LLM.Provider = "bard"
	bad.LLM.MaxRetries = -1
	bad.Agent.MaxSteps = 0
	err := bad.Validate()
	require.Error(t, err)
	for _, want := range []string{"db.driver", "memory.redis_addr", "llm.provider", "llm.max_retries", "agent.max_steps"} {
		assert.Contains(t, err.Error(), want)
	}
}
