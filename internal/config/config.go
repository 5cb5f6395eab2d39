package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ModelConfig configures one OpenAI-compatible model client. The API key is
// read from the named environment variable, never from the file itself.
type ModelConfig struct {
	BaseURL     string  `yaml:"base_url"`
	APIKeyEnv   string  `yaml:"api_key_env"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// APIKey resolves the configured environment variable.
func (m ModelConfig) APIKey() string {
	if strings.TrimSpace(m.APIKeyEnv) == "" {
		return ""
	}
	return strings.TrimSpace(os.Getenv(m.APIKeyEnv))
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Port           string      `yaml:"port"`
	DBPath         string      `yaml:"db_path"`
	CatalogPath    string      `yaml:"catalog_path"`
	TopicsPath     string      `yaml:"topics_path"`
	AllowedOrigins []string    `yaml:"allowed_origins"`
	Assistant      ModelConfig `yaml:"assistant"`
	Vision         ModelConfig `yaml:"vision"`
}

// Load reads a config from the specified path. A missing file yields the
// defaults rather than an error.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			applyEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)
	return &cfg, nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Port == "" {
		cfg.Port = "3000"
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "data/storefront.db"
	}
	if cfg.CatalogPath == "" {
		cfg.CatalogPath = "amazon-products.csv"
	}
	if cfg.Assistant.APIKeyEnv == "" {
		cfg.Assistant.APIKeyEnv = "OPENAI_API_KEY"
	}
	if cfg.Vision.APIKeyEnv == "" {
		cfg.Vision.APIKeyEnv = "OPENAI_API_KEY"
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		cfg.Port = port
	}
	if path := strings.TrimSpace(os.Getenv("STOREFRONT_DB_PATH")); path != "" {
		cfg.DBPath = path
	}
	if path := strings.TrimSpace(os.Getenv("CATALOG_PATH")); path != "" {
		cfg.CatalogPath = path
	}
	if path := strings.TrimSpace(os.Getenv("POLICY_TOPICS_PATH")); path != "" {
		cfg.TopicsPath = path
	}
	if model := strings.TrimSpace(os.Getenv("OPENAI_MODEL")); model != "" {
		cfg.Assistant.Model = model
	}
	if base := strings.TrimSpace(os.Getenv("OPENAI_BASE_URL")); base != "" {
		cfg.Assistant.BaseURL = base
		if cfg.Vision.BaseURL == "" {
			cfg.Vision.BaseURL = base
		}
	}
	if model := strings.TrimSpace(os.Getenv("VISION_MODEL")); model != "" {
		cfg.Vision.Model = model
	}
	if temp := strings.TrimSpace(os.Getenv("OPENAI_TEMPERATURE")); temp != "" {
		if v, err := strconv.ParseFloat(temp, 64); err == nil {
			cfg.Assistant.Temperature = v
		}
	}
	if maxTokens := strings.TrimSpace(os.Getenv("OPENAI_MAX_TOKENS")); maxTokens != "" {
		if v, err := strconv.Atoi(maxTokens); err == nil {
			cfg.Assistant.MaxTokens = v
		}
	}
}
