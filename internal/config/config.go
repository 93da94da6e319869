package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const devJWTSecret = "alpha_secret_2026_vision"

// Front-end origins that are always allowed.
var defaultOrigins = []string{
	"https://www.aslaviationschool.co",
	"https://aslaviationschool.co",
	"https://alpha-aviation-school-l181.vercel.app",
	"https://alpha-aviation-school.vercel.app",
	"http://localhost:5173",
	"http://localhost:3000",
}

type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level

	Store    StoreConfig
	RedisURL string

	JWTSecret string
	JWTTTL    time.Duration

	AllowedOrigins []string

	Events   EventsConfig
	Midtrans MidtransConfig
}

type StoreConfig struct {
	Driver         string // postgres | mongo
	DatabaseURL    string
	MongoURI       string
	MongoDatabase  string
	ConnectTimeout time.Duration
	ForceMock      bool
}

type EventsConfig struct {
	KafkaBrokers []string
	TopicPrefix  string
}

type MidtransConfig struct {
	ServerKey  string
	Production bool
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Enabled reports whether the checkout gateway has credentials.
func (m MidtransConfig) Enabled() bool {
	return m.ServerKey != ""
}

// LoadConfig reads the environment, preloading .env when present.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		Port:        get("PORT", "5000"),
		Environment: get("ENVIRONMENT", "development"),
		RedisURL:    get("REDIS_URL", ""),
		JWTSecret:   get("JWT_SECRET", ""),
		Store: StoreConfig{
			Driver:        strings.ToLower(get("STORE_DRIVER", "postgres")),
			DatabaseURL:   get("DATABASE_URL", ""),
			MongoURI:      get("MONGODB_URI", ""),
			MongoDatabase: get("MONGODB_DATABASE", "alpha_aviation"),
		},
		Events: EventsConfig{
			KafkaBrokers: splitList(get("KAFKA_BROKERS", "")),
			TopicPrefix:  get("EVENTS_TOPIC_PREFIX", "alpha"),
		},
		Midtrans: MidtransConfig{
			ServerKey: get("MIDTRANS_SERVER_KEY", ""),
		},
	}

	var err error
	if cfg.LogLevel, err = parseLevel(get("LOG_LEVEL", "info")); err != nil {
		return nil, err
	}
	if cfg.Store.ConnectTimeout, err = time.ParseDuration(get("STORE_CONNECT_TIMEOUT", "10s")); err != nil {
		return nil, fmt.Errorf("invalid STORE_CONNECT_TIMEOUT: %w", err)
	}
	if cfg.JWTTTL, err = time.ParseDuration(get("JWT_TTL", "168h")); err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL: %w", err)
	}
	if cfg.Store.ForceMock, err = strconv.ParseBool(get("FORCE_MOCK_DATA", "false")); err != nil {
		return nil, fmt.Errorf("invalid FORCE_MOCK_DATA: %w", err)
	}
	if cfg.Midtrans.Production, err = strconv.ParseBool(get("MIDTRANS_PRODUCTION", "false")); err != nil {
		return nil, fmt.Errorf("invalid MIDTRANS_PRODUCTION: %w", err)
	}

	switch cfg.Store.Driver {
	case "postgres", "mongo":
	default:
		return nil, fmt.Errorf("unsupported STORE_DRIVER %q", cfg.Store.Driver)
	}

	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			return nil, errors.New("JWT_SECRET is required in production")
		}
		cfg.JWTSecret = devJWTSecret
	}

	origins := append([]string{}, defaultOrigins...)
	if frontend := get("FRONTEND_URL", ""); frontend != "" {
		origins = append(origins, frontend)
	}
	cfg.AllowedOrigins = append(origins, splitList(get("ALLOWED_ORIGINS", ""))...)

	return cfg, nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return level, fmt.Errorf("invalid LOG_LEVEL %q: %w", s, err)
	}
	return level, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
