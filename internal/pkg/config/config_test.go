package config

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-envconfig"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("load returned error: %v", err)
	}

	if cfg.Port != "3000" || cfg.TokenStore.Backend != BackendMemory || cfg.TokenStore.Key != "auth_token" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.API.BaseURL != "http://localhost:8000/api" || cfg.API.Timeout != 10*time.Second {
		t.Fatalf("unexpected api defaults: %+v", cfg.API)
	}
	if cfg.Sandbox.TokenTTL != 30*time.Minute {
		t.Fatalf("unexpected sandbox ttl: %v", cfg.Sandbox.TokenTTL)
	}
	if _, err := uuid.Parse(cfg.TabID); err != nil {
		t.Fatalf("expected generated uuid tab id, got %q", cfg.TabID)
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"TAB_ID":       "tab-7",
		"TOKEN_STORE":  "redis",
		"REDIS_ADDR":   "redis:6379",
		"REDIS_DB":     "2",
		"API_TIMEOUT":  "3s",
		"LOG_PRETTY":   "true",
		"MONGO_DB":     "shop",
		"SANDBOX_PORT": "9000",
		"API_BASE_URL": "http://api:8000/api",
	}))
	if err != nil {
		t.Fatalf("load returned error: %v", err)
	}

	if cfg.TabID != "tab-7" || cfg.TokenStore.Backend != BackendRedis {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Redis.Addr != "redis:6379" || cfg.Redis.DB != 2 {
		t.Fatalf("unexpected redis config: %+v", cfg.Redis)
	}
	if cfg.API.Timeout != 3*time.Second || !cfg.LogPretty || cfg.Mongo.Database != "shop" || cfg.Sandbox.Port != "9000" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestLoad_RejectsUnknownBackend(t *testing.T) {
	_, err := load(context.Background(), envconfig.MapLookuper(map[string]string{"TOKEN_STORE": "etcd"}))
	if err == nil || !strings.Contains(err.Error(), "TOKEN_STORE") {
		t.Fatalf("expected TOKEN_STORE error, got %v", err)
	}
}

func TestLoad_RejectsMalformedDuration(t *testing.T) {
	if _, err := load(context.Background(), envconfig.MapLookuper(map[string]string{"API_TIMEOUT": "soon"})); err == nil {
		t.Fatalf("expected error for malformed duration")
	}
}
