package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/tara")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://tara.app,https://www.tara.app")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default port 8080, got %s", cfg.HTTPPort)
	}
	if cfg.InsightCacheTTL != 10*time.Minute {
		t.Fatalf("expected cache ttl 10m, got %v", cfg.InsightCacheTTL)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://www.tara.app" {
		t.Fatalf("unexpected cors origins %+v", cfg.CORSAllowedOrigins)
	}
	if cfg.LLMEnabled() || cfg.EmbeddingsEnabled() {
		t.Fatalf("expected llm disabled without api key")
	}
}

func TestLoadConfig_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error when DATABASE_URL is empty")
	}
}

func TestConfigEmbeddingsNeedModel(t *testing.T) {
	cfg := &Config{LLMAPIKey: "key"}
	if !cfg.LLMEnabled() {
		t.Fatalf("expected llm enabled")
	}
	if cfg.EmbeddingsEnabled() {
		t.Fatalf("expected embeddings disabled without model")
	}
	cfg.LLMEmbeddingModel = "text-embedding-3-small"
	if !cfg.EmbeddingsEnabled() {
		t.Fatalf("expected embeddings enabled")
	}
}

func TestNewLogger_WithFile(t *testing.T) {
	cfg := &Config{LogLevel: "debug", LogFile: filepath.Join(t.TempDir(), "tara.log")}
	logger, err := NewLogger(cfg)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	logger.Info("hello")
	_ = logger.Sync()
}
