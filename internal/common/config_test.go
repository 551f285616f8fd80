package common

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearProviderEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"OLLAMA_HOST", "OPENAI_API_KEY", "OPENAI_BASE_URL", "GEMINI_API_KEY", "GOOGLE_API_KEY"} {
		t.Setenv(k, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearProviderEnv(t)

	cfg, err := LoadConfigFrom(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "input", cfg.InputDir)
	assert.Equal(t, "output", cfg.OutputDir)
	assert.Equal(t, ProviderOllama, cfg.LLM.Provider)
	assert.Equal(t, "llama3", cfg.LLM.Model)
	assert.Equal(t, "http://localhost:11434", cfg.LLM.BaseURL)
	assert.Nil(t, cfg.LLM.Temperature)
	assert.Zero(t, cfg.LLM.Timeout)
	assert.Equal(t, "antiword", cfg.Extract.Antiword)
	assert.Zero(t, cfg.Extract.MaxFileSize)
	assert.Empty(t, cfg.Jobs.DBPath)
	assert.Empty(t, cfg.Report.Path)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("DOC2JSON_INPUT_DIR", "in")
	t.Setenv("DOC2JSON_LLM_PROVIDER", "openai")
	t.Setenv("DOC2JSON_LLM_TEMPERATURE", "0.2")
	t.Setenv("DOC2JSON_LLM_TIMEOUT", "90s")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := LoadConfigFrom(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "in", cfg.InputDir)
	assert.Equal(t, ProviderOpenAI, cfg.LLM.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, "https://api.openai.com/v1", cfg.LLM.BaseURL)
	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
	require.NotNil(t, cfg.LLM.Temperature)
	assert.InDelta(t, 0.2, *cfg.LLM.Temperature, 1e-6)
	assert.Equal(t, 90*time.Second, cfg.LLM.Timeout)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_OllamaHostWithoutScheme(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("OLLAMA_HOST", "gpu-box:11434")

	cfg, err := LoadConfigFrom(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "http://gpu-box:11434", cfg.LLM.BaseURL)
}

func TestLoadConfig_YAMLFile(t *testing.T) {
	clearProviderEnv(t)
	dir := t.TempDir()
	yaml := "output_dir: out\nllm:\n  model: mistral\nreport:\n  path: run.xlsx\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "doc2json.yaml"), []byte(yaml), 0o644))

	cfg, err := LoadConfigFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.Equal(t, "mistral", cfg.LLM.Model)
	assert.Equal(t, "run.xlsx", cfg.Report.Path)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{InputDir: "input", OutputDir: "output", LLM: LLMConfig{Provider: ProviderOllama, Model: "llama3"}}
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"unknown provider", func(c *Config) { c.LLM.Provider = "bard" }},
		{"openai without key", func(c *Config) { c.LLM.Provider = ProviderOpenAI }},
		{"gemini without key", func(c *Config) { c.LLM.Provider = ProviderGemini }},
		{"empty input dir", func(c *Config) { c.InputDir = " " }},
		{"empty output dir", func(c *Config) { c.OutputDir = "" }},
		{"empty model", func(c *Config) { c.LLM.Model = "" }},
		{"negative timeout", func(c *Config) { c.LLM.Timeout = -time.Second }},
		{"same input and output", func(c *Config) { c.OutputDir = "./input/" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			err := c.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig))
		})
	}
}

func TestSlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, (&Config{LogLevel: "DEBUG"}).SlogLevel())
	assert.Equal(t, slog.LevelWarn, (&Config{LogLevel: "warning"}).SlogLevel())
	assert.Equal(t, slog.LevelError, (&Config{LogLevel: "error"}).SlogLevel())
	assert.Equal(t, slog.LevelInfo, (&Config{LogLevel: ""}).SlogLevel())
}

func TestLoadConfig_LogLevelFromPlainEnv(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("DOC2JSON_LOG_LEVEL", "")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadConfigFrom(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}
