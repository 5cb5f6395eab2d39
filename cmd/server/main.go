package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"storefront-assist/internal/ai"
	"storefront-assist/internal/api"
	"storefront-assist/internal/config"
	"storefront-assist/internal/vision"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).Warn("load .env")
	}

	configPath := strings.TrimSpace(os.Getenv("STOREFRONT_CONFIG"))
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}

	if dir := filepath.Dir(cfg.DBPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logrus.Fatalf("create data directory: %v", err)
		}
	}

	disableAI := strings.EqualFold(strings.TrimSpace(os.Getenv("DISABLE_AI")), "true")

	server, err := api.NewServer(api.Config{
		DBPath:         cfg.DBPath,
		CatalogPath:    cfg.CatalogPath,
		TopicsPath:     cfg.TopicsPath,
		AllowedOrigins: cfg.AllowedOrigins,
		DisableAI:      disableAI,
		AssistantCfg: ai.Config{
			APIKey:      cfg.Assistant.APIKey(),
			Model:       cfg.Assistant.Model,
			BaseURL:     cfg.Assistant.BaseURL,
			Temperature: cfg.Assistant.Temperature,
			MaxTokens:   cfg.Assistant.MaxTokens,
		},
		VisionCfg: vision.Config{
			APIKey:      cfg.Vision.APIKey(),
			Model:       cfg.Vision.Model,
			BaseURL:     cfg.Vision.BaseURL,
			Temperature: cfg.Vision.Temperature,
			MaxTokens:   cfg.Vision.MaxTokens,
		},
	})
	if err != nil {
		logrus.Fatalf("create server: %v", err)
	}

	router, err := server.Router()
	if err != nil {
		logrus.Fatalf("configure router: %v", err)
	}

	logrus.Infof("starting storefront-assist backend on :%s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		logrus.Fatalf("server exited: %v", err)
	}
}
