package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("VOYAGE_LLM_API_KEY", "k")

	cfg, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "groq", cfg.LLM.Provider)
	assert.Equal(t, "k", cfg.LLM.APIKey)
	assert.Equal(t, 30*time.Second, cfg.Invoke.Timeout)
	assert.Equal(t, 2, cfg.Invoke.MaxRetries)
	assert.Equal(t, 500*time.Millisecond, cfg.Invoke.InitialBackoff)
	assert.Equal(t, "combined", cfg.Prompt.Strategy)
	assert.Equal(t, "Asia/Kolkata", cfg.Activity.Timezone)
	assert.True(t, cfg.Activity.StartupRecord)
	assert.Equal(t, "voyage:activity", cfg.Sink.RedisStream)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("VOYAGE_LLM_PROVIDER", "Static")
	t.Setenv("VOYAGE_INVOKE_TIMEOUT", "5s")
	t.Setenv("VOYAGE_INVOKE_MAX_RETRIES", "4")
	t.Setenv("VOYAGE_PROMPT_STRATEGY", "chunked")
	t.Setenv("VOYAGE_SINK_REDIS_ADDR", "localhost:6379")

	cfg, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, "static", cfg.LLM.Provider)
	assert.Equal(t, 5*time.Second, cfg.Invoke.Timeout)
	assert.Equal(t, 4, cfg.Invoke.MaxRetries)
	assert.Equal(t, "chunked", cfg.Prompt.Strategy)
	assert.Equal(t, "localhost:6379", cfg.Sink.RedisAddr)
}

func TestLoadProviderKeyFallback(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "gsk_test")
	cfg, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, "gsk_test", cfg.LLM.APIKey)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "voyage.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
llm:
  provider: gemini
  api_key: from-file
invoke:
  max_retries: 1
activity:
  timezone: UTC
`), 0o600))

	cfg, err := Load(New(), path)
	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "from-file", cfg.LLM.APIKey)
	assert.Equal(t, 1, cfg.Invoke.MaxRetries)
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestValidate(t *testing.T) {
	t.Setenv("VOYAGE_LLM_PROVIDER", "claude")
	t.Setenv("VOYAGE_INVOKE_MAX_RETRIES", "-1")
	t.Setenv("VOYAGE_INVOKE_TIMEOUT", "0s")

	_, err := Load(New(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "llm.provider")
	assert.Contains(t, err.Error(), "invoke.max_retries")
	assert.Contains(t, err.Error(), "invoke.timeout")
}

func TestMissingAPIKey(t *testing.T) {
	for _, k := range []string{"VOYAGE_LLM_API_KEY", "GROQ_API_KEY", "GEMINI_API_KEY", "OPENAI_API_KEY"} {
		t.Setenv(k, "")
	}
	_, err := Load(New(), "")
	assert.ErrorContains(t, err, "llm.api_key is required")
}

func TestDefaultTimezoneWithoutTZDatabase(t *testing.T) {
	orig := loadLocation
	loadLocation = func(string) (*time.Location, error) { return nil, errors.New("unknown time zone") }
	t.Cleanup(func() { loadLocation = orig })

	t.Setenv("VOYAGE_LLM_PROVIDER", "static")
	cfg, err := Load(New(), "")
	require.NoError(t, err)

	_, offset := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC).In(cfg.Location()).Zone()
	assert.Equal(t, 5*3600+1800, offset)

	cfg.Activity.Timezone = "Europe/Paris"
	assert.ErrorContains(t, cfg.Validate(), "activity.timezone")
}
