package common

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Supported chat providers.
const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Config holds all application configuration
type Config struct {
	InputDir  string
	OutputDir string
	LogLevel  string

	LLM     LLMConfig
	Extract ExtractConfig
	Output  OutputConfig
	Jobs    JobsConfig
	Report  ReportConfig
}

// LLMConfig holds language-model configuration
type LLMConfig struct {
	Provider    string
	Model       string
	BaseURL     string
	APIKey      string
	Temperature *float32      // nil keeps the model's own default
	Timeout     time.Duration // 0 = no timeout
}

// ExtractConfig holds document extraction configuration
type ExtractConfig struct {
	Antiword    string
	MaxFileSize int64
}

// OutputConfig holds artifact configuration
type OutputConfig struct {
	SchemaPath string // optional JSON Schema checked against parsed artifacts
}

// JobsConfig holds the optional SQLite job ledger configuration
type JobsConfig struct {
	DBPath string
}

// ReportConfig holds the optional XLSX run report configuration
type ReportConfig struct {
	Path string
}

var defaultModels = map[string]string{
	ProviderOllama: "llama3",
	ProviderOpenAI: "gpt-4o-mini",
	ProviderGemini: "gemini-2.5-flash",
}

// LoadConfig loads configuration from defaults, an optional ./doc2json.yaml and environment variables.
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(".")
}

// LoadConfigFrom is LoadConfig with an explicit directory searched for doc2json.yaml.
func LoadConfigFrom(dir string) (*Config, error) {
	v := viper.New()

	v.SetDefault("input_dir", "input")
	v.SetDefault("output_dir", "output")
	v.SetDefault("log_level", "info")
	v.SetDefault("llm.provider", ProviderOllama)
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.timeout", time.Duration(0))
	v.SetDefault("extract.antiword", "antiword")
	v.SetDefault("extract.max_file_size", int64(0))
	v.SetDefault("output.schema_path", "")
	v.SetDefault("jobs.db_path", "")
	v.SetDefault("report.path", "")

	v.SetConfigName("doc2json")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	v.SetEnvPrefix("DOC2JSON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// llm.temperature has no default; bind it so IsSet sees the env var.
	if err := v.BindEnv("llm.temperature", "DOC2JSON_LLM_TEMPERATURE"); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}
	if err := v.BindEnv("log_level", "DOC2JSON_LOG_LEVEL", "LOG_LEVEL"); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, NewAppError("CONFIG_ERROR", "read doc2json.yaml", err)
		}
	}

	cfg := &Config{
		InputDir:  v.GetString("input_dir"),
		OutputDir: v.GetString("output_dir"),
		LogLevel:  v.GetString("log_level"),
		LLM: LLMConfig{
			Provider: strings.ToLower(strings.TrimSpace(v.GetString("llm.provider"))),
			Model:    v.GetString("llm.model"),
			BaseURL:  v.GetString("llm.base_url"),
			APIKey:   v.GetString("llm.api_key"),
			Timeout:  v.GetDuration("llm.timeout"),
		},
		Extract: ExtractConfig{
			Antiword:    v.GetString("extract.antiword"),
			MaxFileSize: v.GetInt64("extract.max_file_size"),
		},
		Output: OutputConfig{SchemaPath: v.GetString("output.schema_path")},
		Jobs:   JobsConfig{DBPath: v.GetString("jobs.db_path")},
		Report: ReportConfig{Path: v.GetString("report.path")},
	}
	if v.IsSet("llm.temperature") {
		t := float32(v.GetFloat64("llm.temperature"))
		cfg.LLM.Temperature = &t
	}
	cfg.LLM.applyProviderDefaults()
	return cfg, nil
}

// applyProviderDefaults fills model, base URL and API key from the provider's native environment.
func (c *LLMConfig) applyProviderDefaults() {
	if c.Model == "" {
		c.Model = defaultModels[c.Provider]
	}
	switch c.Provider {
	case ProviderOllama:
		if c.BaseURL == "" {
			c.BaseURL = getEnv("OLLAMA_HOST", "http://localhost:11434")
		}
		if !strings.Contains(c.BaseURL, "://") {
			c.BaseURL = "http://" + c.BaseURL
		}
	case ProviderOpenAI:
		if c.BaseURL == "" {
			c.BaseURL = getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1")
		}
		if c.APIKey == "" {
			c.APIKey = os.Getenv("OPENAI_API_KEY")
		}
	case ProviderGemini:
		if c.APIKey == "" {
			c.APIKey = getEnv("GEMINI_API_KEY", os.Getenv("GOOGLE_API_KEY"))
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if strings.TrimSpace(c.InputDir) == "" {
		return NewAppError("CONFIG_ERROR", "input_dir is required", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		return NewAppError("CONFIG_ERROR", "output_dir is required", ErrInvalidConfig)
	}
	if filepath.Clean(c.InputDir) == filepath.Clean(c.OutputDir) {
		return NewAppError("CONFIG_ERROR", "input_dir and output_dir must differ", ErrInvalidConfig)
	}
	switch c.LLM.Provider {
	case ProviderOllama:
	case ProviderOpenAI:
		if c.LLM.APIKey == "" {
			return NewAppError("CONFIG_ERROR", "OPENAI_API_KEY is required for the openai provider", ErrInvalidConfig)
		}
	case ProviderGemini:
		if c.LLM.APIKey == "" {
			return NewAppError("CONFIG_ERROR", "GEMINI_API_KEY is required for the gemini provider", ErrInvalidConfig)
		}
	default:
		return NewAppError("CONFIG_ERROR", fmt.Sprintf("unknown llm provider %q", c.LLM.Provider), ErrInvalidConfig)
	}
	if c.LLM.Model == "" {
		return NewAppError("CONFIG_ERROR", "llm.model is required", ErrInvalidConfig)
	}
	if c.LLM.Timeout < 0 {
		return NewAppError("CONFIG_ERROR", "llm.timeout must not be negative", ErrInvalidConfig)
	}
	return nil
}

// SlogLevel maps LogLevel to a slog.Level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
