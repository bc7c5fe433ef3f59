// Package config provides application-wide configuration. Values come from
// an optional YAML file (FOCAL_CONFIG) overridden by environment variables;
// every field has a safe default so the daemon runs with no setup at all.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds runtime configuration for the focal daemon.
type Config struct {
	// HTTP
	Host string `yaml:"host"` // FOCAL_HOST — default: "127.0.0.1"
	Port int    `yaml:"port"` // FOCAL_PORT — default: 4817

	// Storage
	DBPath string `yaml:"dbPath"` // FOCAL_DB_PATH — default: "focal.db"

	// LLM defaults offered to the settings UI on first run
	DefaultProvider string `yaml:"defaultProvider"` // FOCAL_DEFAULT_PROVIDER — default: "ollama"
	DefaultModel    string `yaml:"defaultModel"`    // FOCAL_DEFAULT_MODEL — default: "llama3.2"
	OllamaBaseURL   string `yaml:"ollamaBaseUrl"`   // FOCAL_OLLAMA_BASE_URL — default: "http://localhost:11434"
}

const (
	envKeyConfigFile      = "FOCAL_CONFIG"
	envKeyHost            = "FOCAL_HOST"
	envKeyPort            = "FOCAL_PORT"
	envKeyDBPath          = "FOCAL_DB_PATH"
	envKeyDefaultProvider = "FOCAL_DEFAULT_PROVIDER"
	envKeyDefaultModel    = "FOCAL_DEFAULT_MODEL"
	envKeyOllamaBaseURL   = "FOCAL_OLLAMA_BASE_URL"
)

func defaults() Config {
	return Config{
		Host:            "127.0.0.1",
		Port:            4817,
		DBPath:          "focal.db",
		DefaultProvider: "ollama",
		DefaultModel:    "llama3.2",
		OllamaBaseURL:   "http://localhost:11434",
	}
}

// Load builds the configuration: defaults, then the YAML file named by
// FOCAL_CONFIG (when set), then environment variables on top.
func Load() (Config, error) {
	cfg := defaults()

	if path := os.Getenv(envKeyConfigFile); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
		if unmarshalErr := yaml.Unmarshal(data, &cfg); unmarshalErr != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, unmarshalErr)
		}
	}

	cfg.Host = envOr(envKeyHost, cfg.Host)
	cfg.DBPath = envOr(envKeyDBPath, cfg.DBPath)
	cfg.DefaultProvider = envOr(envKeyDefaultProvider, cfg.DefaultProvider)
	cfg.DefaultModel = envOr(envKeyDefaultModel, cfg.DefaultModel)
	cfg.OllamaBaseURL = envOr(envKeyOllamaBaseURL, cfg.OllamaBaseURL)

	if v := os.Getenv(envKeyPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return Config{}, fmt.Errorf("invalid %s value %q", envKeyPort, v)
		}
		cfg.Port = port
	}

	return cfg, nil
}

// envOr returns the value of the environment variable key, or fallback if not set.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
