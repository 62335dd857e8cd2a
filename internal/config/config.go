// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type OpenAIConfig struct {
	APIKey     string `yaml:"api_key"` // overridden by OPENAI_API_KEY
	BaseURL    string `yaml:"base_url"`
	TextModel  string `yaml:"text_model"`
	VideoModel string `yaml:"video_model"`
}

type GeminiConfig struct {
	APIKey  string `yaml:"api_key"` // overridden by GEMINI_API_KEY
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

type PipelineConfig struct {
	// ScriptProvider selects the text-generation backend: openai | gemini.
	ScriptProvider   string        `yaml:"script_provider"`
	DefaultDuration  int           `yaml:"default_duration"` // seconds
	VideoSize        string        `yaml:"video_size"`       // "WxH"
	MaxPollAttempts  int           `yaml:"max_poll_attempts"`
	PollInterval     time.Duration `yaml:"poll_interval"`
	AsyncWorkers     int           `yaml:"async_workers"`
}

type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	BaseDelay   time.Duration `yaml:"base_delay"`
	MaxDelay    time.Duration `yaml:"max_delay"`
}

type StorageConfig struct {
	Type        string `yaml:"type"` // local | postgres
	Path        string `yaml:"path"`
	DatabaseURL string `yaml:"database_url"` // overridden by DATABASE_URL
}

type RedisConfig struct {
	URL      string        `yaml:"url"` // overridden by REDIS_URL; empty disables the cache
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type APIConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type Config struct {
	Log      LogConfig      `yaml:"log"`
	OpenAI   OpenAIConfig   `yaml:"openai"`
	Gemini   GeminiConfig   `yaml:"gemini"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Retry    RetryConfig    `yaml:"retry"`
	Storage  StorageConfig  `yaml:"storage"`
	Redis    RedisConfig    `yaml:"redis"`
	API      APIConfig      `yaml:"api"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)

	// Minimal validation
	switch cfg.Pipeline.ScriptProvider {
	case "openai":
		if cfg.OpenAI.APIKey == "" {
			return nil, errors.New("openai.api_key (or OPENAI_API_KEY) is required")
		}
	case "gemini":
		if cfg.Gemini.APIKey == "" {
			return nil, errors.New("gemini.api_key (or GEMINI_API_KEY) is required")
		}
	default:
		return nil, fmt.Errorf("pipeline.script_provider must be openai or gemini, got %q", cfg.Pipeline.ScriptProvider)
	}
	if cfg.OpenAI.APIKey == "" {
		// The Sora renderer always goes through the OpenAI API.
		return nil, errors.New("openai.api_key (or OPENAI_API_KEY) is required for video rendering")
	}
	if cfg.Storage.Type == "postgres" && cfg.Storage.DatabaseURL == "" {
		return nil, errors.New("storage.database_url (or DATABASE_URL) is required for postgres storage")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.OpenAI.APIKey = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.Gemini.APIKey = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Storage.DatabaseURL = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Redis.URL = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.OpenAI.BaseURL == "" {
		cfg.OpenAI.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.OpenAI.TextModel == "" {
		cfg.OpenAI.TextModel = "gpt-4o"
	}
	if cfg.OpenAI.VideoModel == "" {
		cfg.OpenAI.VideoModel = "sora-2"
	}
	if cfg.Gemini.Model == "" {
		cfg.Gemini.Model = "gemini-2.0-flash"
	}
	if cfg.Pipeline.ScriptProvider == "" {
		cfg.Pipeline.ScriptProvider = "openai"
	}
	if cfg.Pipeline.DefaultDuration <= 0 {
		cfg.Pipeline.DefaultDuration = 8
	}
	if cfg.Pipeline.VideoSize == "" {
		cfg.Pipeline.VideoSize = "1280x720"
	}
	if cfg.Pipeline.MaxPollAttempts <= 0 {
		cfg.Pipeline.MaxPollAttempts = 60
	}
	if cfg.Pipeline.PollInterval <= 0 {
		cfg.Pipeline.PollInterval = 10 * time.Second
	}
	if cfg.Pipeline.AsyncWorkers <= 0 {
		cfg.Pipeline.AsyncWorkers = 4
	}
	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry.MaxAttempts = 3
	}
	if cfg.Retry.BaseDelay <= 0 {
		cfg.Retry.BaseDelay = 2 * time.Second
	}
	if cfg.Retry.MaxDelay <= 0 {
		cfg.Retry.MaxDelay = 10 * time.Second
	}
	if cfg.Storage.Type == "" {
		cfg.Storage.Type = "local"
	}
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = "./output/videos"
	}
	if cfg.Redis.TTL <= 0 {
		cfg.Redis.TTL = time.Hour
	}
	if cfg.API.Host == "" {
		cfg.API.Host = "0.0.0.0"
	}
	if cfg.API.Port == 0 {
		cfg.API.Port = 8000
	}
}
