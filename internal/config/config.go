package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv string

	HTTPAddr    string
	DatabaseURL string
	// Create tables on startup when true.
	DBAutoMigrate bool

	// Statistics service. Empty URL disables view counts and hit recording.
	StatsServerURL string
	StatsAppName   string
	StatsTimeout   time.Duration

	// Optional bearer gate in front of /admin. Empty secret leaves it open.
	JWTSecret string
	JWTIssuer string

	// Token revocation lookups. Empty URL disables them.
	RedisURL string

	// RabbitMQ outbox relay. Empty URL leaves rows in the outbox.
	RabbitURL      string
	RabbitExchange string
	OutboxInterval time.Duration

	// Rate Limiting
	RLEnabled bool
	RLLimit   int
	RLWindow  time.Duration

	LogLevel  string
	LogFormat string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.AppEnv = getEnv("APP_ENV", "dev")
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")
	cfg.DatabaseURL = getEnv("DATABASE_URL", "")
	cfg.DBAutoMigrate = getEnv("DB_AUTO_MIGRATE", "true") == "true"

	cfg.StatsServerURL = strings.TrimRight(getEnv("STATS_SERVER_URL", ""), "/")
	cfg.StatsAppName = getEnv("STATS_APP_NAME", "ewm-main-service")
	cfg.StatsTimeout = getDuration("STATS_TIMEOUT", 2*time.Second)

	cfg.JWTSecret = getEnv("JWT_SECRET", "")
	cfg.JWTIssuer = getEnv("JWT_ISSUER", "")

	cfg.RedisURL = getEnv("REDIS_URL", "")

	cfg.RabbitURL = getEnv("RABBIT_URL", "")
	cfg.RabbitExchange = getEnv("RABBIT_EXCHANGE", "ewm.events")
	cfg.OutboxInterval = getDuration("OUTBOX_INTERVAL", 2*time.Second)

	// 100 reqs / 1 min
	cfg.RLEnabled = getEnv("RL_ENABLED", "true") == "true"
	cfg.RLLimit = getIntEnv("RL_IP_LIMIT", 100)
	cfg.RLWindow = getDuration("RL_IP_WINDOW", 1*time.Minute)

	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.LogFormat = getEnv("LOG_FORMAT", "console")

	cfg.HTTPReadTimeout = getDuration("HTTP_READ_TIMEOUT", 10*time.Second)
	cfg.HTTPWriteTimeout = getDuration("HTTP_WRITE_TIMEOUT", 20*time.Second)
	cfg.HTTPIdleTimeout = getDuration("HTTP_IDLE_TIMEOUT", 60*time.Second)

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("missing DATABASE_URL")
	}
	if cfg.StatsTimeout <= 0 {
		return nil, fmt.Errorf("STATS_TIMEOUT must be positive")
	}
	if cfg.RLEnabled && cfg.RLLimit <= 0 {
		return nil, fmt.Errorf("RL_IP_LIMIT must be positive when RL_ENABLED=true")
	}

	return cfg, nil
}

// AdminAuthEnabled reports whether /admin routes require a bearer token.
func (c *Config) AdminAuthEnabled() bool { return c.JWTSecret != "" }

func getEnv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func getIntEnv(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}
