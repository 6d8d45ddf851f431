package api

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/client"
	"gopkg.in/yaml.v3"

	"github.com/Apurer/order-mgmt-service/internal/jobs"
)

const (
	defaultCacheTTLSeconds       = 300
	defaultWorkflowResultSeconds = 30
)

// Config carries the settings for the API process.
type Config struct {
	Port                 string `yaml:"port"`
	PostgresDSN          string `yaml:"postgres_dsn"`
	RedisAddr            string `yaml:"redis_addr"`
	RedisCacheTTLSeconds int    `yaml:"redis_cache_ttl_seconds"`
	TemporalAddress      string `yaml:"temporal_address"`
	TemporalNamespace    string `yaml:"temporal_namespace"`
	TemporalDisabled     bool   `yaml:"temporal_disabled"`
	// ResultWaitSeconds bounds how long a request waits for a workflow result.
	ResultWaitSeconds    int    `yaml:"workflow_result_seconds"`
	StatusReportSchedule string `yaml:"status_report_schedule"`
	Environment          string `yaml:"environment"`
}

// RedisCacheTTL returns the cache entry lifetime.
func (c Config) RedisCacheTTL() time.Duration {
	return time.Duration(c.RedisCacheTTLSeconds) * time.Second
}

// WorkflowResultTimeout returns the wait bound for Temporal workflow results.
func (c Config) WorkflowResultTimeout() time.Duration {
	return time.Duration(c.ResultWaitSeconds) * time.Second
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Port:                 "8080",
		RedisCacheTTLSeconds: defaultCacheTTLSeconds,
		TemporalAddress:      client.DefaultHostPort,
		TemporalNamespace:    client.DefaultNamespace,
		ResultWaitSeconds:    defaultWorkflowResultSeconds,
		StatusReportSchedule: jobs.DefaultStatusReportSchedule,
		Environment:          "local",
	}
}

// LoadConfig layers defaults, the optional ORDERS_CONFIG_FILE YAML, an optional .env file and
// environment variables, in increasing precedence.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	if path := strings.TrimSpace(os.Getenv("ORDERS_CONFIG_FILE")); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// godotenv never overrides variables that are already set.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg.Port = envDefault("PORT", cfg.Port)
	cfg.PostgresDSN = envDefault("POSTGRES_DSN", cfg.PostgresDSN)
	cfg.RedisAddr = envDefault("REDIS_ADDR", cfg.RedisAddr)
	cfg.TemporalAddress = envDefault("TEMPORAL_ADDRESS", cfg.TemporalAddress)
	cfg.TemporalNamespace = envDefault("TEMPORAL_NAMESPACE", cfg.TemporalNamespace)
	cfg.StatusReportSchedule = envDefault("STATUS_REPORT_SCHEDULE", cfg.StatusReportSchedule)
	cfg.Environment = envDefault("ENVIRONMENT", cfg.Environment)
	if raw, ok := os.LookupEnv("TEMPORAL_DISABLED"); ok {
		cfg.TemporalDisabled = isTruthy(raw)
	}
	if raw := strings.TrimSpace(os.Getenv("REDIS_CACHE_TTL_SECONDS")); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("REDIS_CACHE_TTL_SECONDS must be a positive integer")
		}
		cfg.RedisCacheTTLSeconds = seconds
	}
	if raw := strings.TrimSpace(os.Getenv("WORKFLOW_RESULT_TIMEOUT_SECONDS")); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("WORKFLOW_RESULT_TIMEOUT_SECONDS must be a positive integer")
		}
		cfg.ResultWaitSeconds = seconds
	}
	if cfg.ResultWaitSeconds <= 0 {
		return Config{}, fmt.Errorf("WORKFLOW_RESULT_TIMEOUT_SECONDS must be a positive integer")
	}
	if cfg.RedisCacheTTLSeconds <= 0 {
		return Config{}, fmt.Errorf("REDIS_CACHE_TTL_SECONDS must be a positive integer")
	}
	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return Config{}, fmt.Errorf("PORT must be numeric, got %q", cfg.Port)
	}
	return cfg, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
