// Package config provides application-wide configuration loaded from env vars,
// optionally layered over a YAML file. All fields have safe defaults so the
// binary runs against a local Ollama without any setup.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds runtime configuration for ollamalocal.
type Config struct {
	// LLM
	LLMProvider     string        `yaml:"llm_provider"`      // LLM_PROVIDER — default: "ollama"
	OllamaBaseURL   string        `yaml:"ollama_base_url"`   // OLLAMA_BASE_URL — default: "http://localhost:11434"
	OllamaModel     string        `yaml:"ollama_model"`      // OLLAMA_MODEL — default: "nomic-embed-text" (embed model)
	OllamaChatModel string        `yaml:"ollama_chat_model"` // OLLAMA_CHAT_MODEL — default: "llama3.2:3b"
	OllamaTimeout   time.Duration `yaml:"ollama_timeout"`    // OLLAMA_TIMEOUT — default: 120s

	// HTTP
	HTTPHost         string        `yaml:"http_host"`          // HTTP_HOST — default: "0.0.0.0"
	HTTPPort         int           `yaml:"http_port"`          // HTTP_PORT — default: 8080
	HTTPReadTimeout  time.Duration `yaml:"http_read_timeout"`  // HTTP_READ_TIMEOUT — default: 15s
	HTTPWriteTimeout time.Duration `yaml:"http_write_timeout"` // HTTP_WRITE_TIMEOUT — default: 150s, raised to cover OLLAMA_TIMEOUT

	// Logging
	LogLevel  string `yaml:"log_level"`  // LOG_LEVEL — default: "info"
	LogFormat string `yaml:"log_format"` // LOG_FORMAT — default: "json"
}

const (
	envKeyConfigFile       = "OLLAMALOCAL_CONFIG"
	envKeyLLMProvider      = "LLM_PROVIDER"
	envKeyOllamaBaseURL    = "OLLAMA_BASE_URL"
	envKeyOllamaModel      = "OLLAMA_MODEL"
	envKeyOllamaChatModel  = "OLLAMA_CHAT_MODEL"
	envKeyOllamaTimeout    = "OLLAMA_TIMEOUT"
	envKeyHTTPHost         = "HTTP_HOST"
	envKeyHTTPPort         = "HTTP_PORT"
	envKeyHTTPReadTimeout  = "HTTP_READ_TIMEOUT"
	envKeyHTTPWriteTimeout = "HTTP_WRITE_TIMEOUT"
	envKeyLogLevel         = "LOG_LEVEL"
	envKeyLogFormat        = "LOG_FORMAT"
)

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		LLMProvider:      "ollama",
		OllamaBaseURL:    "http://localhost:11434",
		OllamaModel:      "nomic-embed-text",
		OllamaChatModel:  "llama3.2:3b",
		OllamaTimeout:    120 * time.Second,
		HTTPHost:         "0.0.0.0",
		HTTPPort:         8080,
		HTTPReadTimeout:  15 * time.Second,
		HTTPWriteTimeout: 150 * time.Second,
		LogLevel:         "info",
		LogFormat:        "json",
	}
}

// Load builds the configuration: defaults, then the YAML file named by
// OLLAMALOCAL_CONFIG (if set), then environment variables.
func Load() (Config, error) {
	cfg := Defaults()

	if path := os.Getenv(envKeyConfigFile); path != "" {
		if err := mergeFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}

	cfg.LLMProvider = envOr(envKeyLLMProvider, cfg.LLMProvider)
	cfg.OllamaBaseURL = envOr(envKeyOllamaBaseURL, cfg.OllamaBaseURL)
	cfg.OllamaModel = envOr(envKeyOllamaModel, cfg.OllamaModel)
	cfg.OllamaChatModel = envOr(envKeyOllamaChatModel, cfg.OllamaChatModel)
	cfg.HTTPHost = envOr(envKeyHTTPHost, cfg.HTTPHost)
	cfg.LogLevel = envOr(envKeyLogLevel, cfg.LogLevel)
	cfg.LogFormat = envOr(envKeyLogFormat, cfg.LogFormat)

	for key, dst := range map[string]*time.Duration{
		envKeyOllamaTimeout:    &cfg.OllamaTimeout,
		envKeyHTTPReadTimeout:  &cfg.HTTPReadTimeout,
		envKeyHTTPWriteTimeout: &cfg.HTTPWriteTimeout,
	} {
		if err := envDuration(key, dst); err != nil {
			return Config{}, err
		}
	}
	if v := os.Getenv(envKeyHTTPPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("config: %s: %w", envKeyHTTPPort, err)
		}
		cfg.HTTPPort = port
	}

	return cfg, nil
}

// envDuration parses key into dst when the variable is set.
func envDuration(key string, dst *time.Duration) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("config: %s: %w", key, err)
	}
	*dst = d
	return nil
}

// mergeFile overlays the non-zero fields of a YAML file onto cfg.
func mergeFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

// envOr returns the value of the environment variable key, or fallback if not set.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
