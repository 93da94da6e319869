package config

import (
	"log/slog"
	"slices"
	"testing"
	"time"
)

func envFunc(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(envFunc(nil))
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}

	if cfg.Port != "5000" {
		t.Errorf("expected port 5000, got %s", cfg.Port)
	}
	if cfg.Store.Driver != "postgres" {
		t.Errorf("expected postgres driver, got %s", cfg.Store.Driver)
	}
	if cfg.Store.MongoDatabase != "alpha_aviation" {
		t.Errorf("unexpected mongo database %s", cfg.Store.MongoDatabase)
	}
	if cfg.Store.ConnectTimeout != 10*time.Second {
		t.Errorf("expected 10s connect timeout, got %v", cfg.Store.ConnectTimeout)
	}
	if cfg.JWTTTL != 7*24*time.Hour {
		t.Errorf("expected 7d token ttl, got %v", cfg.JWTTTL)
	}
	if cfg.JWTSecret == "" {
		t.Error("expected development secret fallback")
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("expected info level, got %v", cfg.LogLevel)
	}
	if cfg.Events.TopicPrefix != "alpha" || len(cfg.Events.KafkaBrokers) != 0 {
		t.Errorf("unexpected events config %+v", cfg.Events)
	}
	if cfg.Midtrans.Enabled() {
		t.Error("checkout gateway should be disabled without a server key")
	}
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(envFunc(map[string]string{
		"PORT":            "8080",
		"STORE_DRIVER":    "MONGO",
		"FORCE_MOCK_DATA": "true",
		"LOG_LEVEL":       "debug",
		"KAFKA_BROKERS":   "k1:9092, k2:9092",
		"FRONTEND_URL":    "https://school.example",
		"ALLOWED_ORIGINS": "https://a.example,,https://b.example",
		"JWT_TTL":         "1h",
	}))
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}

	if cfg.Port != "8080" || cfg.Store.Driver != "mongo" || !cfg.Store.ForceMock {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("expected debug level, got %v", cfg.LogLevel)
	}
	if !slices.Equal(cfg.Events.KafkaBrokers, []string{"k1:9092", "k2:9092"}) {
		t.Errorf("unexpected brokers %v", cfg.Events.KafkaBrokers)
	}
	for _, origin := range []string{"https://school.example", "https://a.example", "https://b.example", "http://localhost:5173"} {
		if !slices.Contains(cfg.AllowedOrigins, origin) {
			t.Errorf("expected origin %s in %v", origin, cfg.AllowedOrigins)
		}
	}
	if cfg.JWTTTL != time.Hour {
		t.Errorf("expected 1h ttl, got %v", cfg.JWTTTL)
	}
}

func TestFromEnvErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad driver", map[string]string{"STORE_DRIVER": "sqlite"}},
		{"bad timeout", map[string]string{"STORE_CONNECT_TIMEOUT": "soon"}},
		{"bad force flag", map[string]string{"FORCE_MOCK_DATA": "maybe"}},
		{"bad level", map[string]string{"LOG_LEVEL": "loud"}},
		{"production without secret", map[string]string{"ENVIRONMENT": "production"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FromEnv(envFunc(tt.env)); err == nil {
				t.Error("expected error")
			}
		})
	}
}
