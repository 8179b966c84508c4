package common

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Auth     AuthConfig
	Redis    RedisConfig
	Events   EventsConfig
	Stats    StatsConfig
	Log      LogConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	DSN              string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
	AutoMigrate      bool
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	HTTPAddr        string
	GRPCAddr        string
	LandingPath     string
	ListPath        string
	ShutdownTimeout time.Duration
}

// AuthConfig selects how the caller identity is resolved.
type AuthConfig struct {
	Mode   string // "header" or "token"
	Header string
	Tokens map[string]string
}

// RedisConfig holds the rate limiter backend; an empty Addr disables limiting.
type RedisConfig struct {
	Addr       string
	DB         int
	Password   string
	RateLimit  int
	RateWindow time.Duration
}

// EventsConfig holds change-event publishing configuration
type EventsConfig struct {
	RabbitMQURL    string
	Exchange       string
	Workers        int
	QueueSize      int
	PublishTimeout time.Duration
}

// StatsConfig holds aggregation configuration
type StatsConfig struct {
	Timezone string
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level       string
	Development bool
}

const defaultSQLiteDSN = "file:jobs.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite"

// LoadConfig loads configuration from a .env file (when present) and environment variables
func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		Database: DatabaseConfig{
			DSN:              getEnv("DB_URL", defaultSQLiteDSN),
			MaxConns:         getEnvAsInt32("DB_MAX_CONNS", 20),
			MinConns:         getEnvAsInt32("DB_MIN_CONNS", 5),
			MaxConnLifetime:  getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime:  getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:      getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
			StatementTimeout: getEnvAsDuration("DB_STATEMENT_TIMEOUT", 0),
			AutoMigrate:      getEnvAsBool("DB_AUTO_MIGRATE", true),
		},
		Server: ServerConfig{
			HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
			GRPCAddr:        getEnv("GRPC_ADDR", ":9090"),
			LandingPath:     getEnv("LANDING_PATH", "/"),
			ListPath:        getEnv("LIST_PATH", "/jobs"),
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Auth: AuthConfig{
			Mode:   getEnv("AUTH_MODE", "header"),
			Header: getEnv("AUTH_HEADER", "X-User-Id"),
			Tokens: parseTokens(os.Getenv("AUTH_TOKENS")),
		},
		Redis: RedisConfig{
			Addr:       os.Getenv("REDIS_ADDR"),
			DB:         getEnvAsInt("REDIS_DB", 0),
			Password:   os.Getenv("REDIS_PASSWORD"),
			RateLimit:  getEnvAsInt("RATE_LIMIT", 60),
			RateWindow: getEnvAsDuration("RATE_WINDOW", time.Minute),
		},
		Events: EventsConfig{
			RabbitMQURL:    os.Getenv("RABBITMQ_URL"),
			Exchange:       getEnv("RABBITMQ_EXCHANGE", "jobs.events"),
			Workers:        getEnvAsInt("EVENT_WORKERS", 2),
			QueueSize:      getEnvAsInt("EVENT_QUEUE_SIZE", 256),
			PublishTimeout: getEnvAsDuration("EVENT_PUBLISH_TIMEOUT", 5*time.Second),
		},
		Stats: StatsConfig{
			Timezone: getEnv("STATS_TIMEZONE", "UTC"),
		},
		Log: LogConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Development: getEnvAsBool("LOG_DEVELOPMENT", false),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// parseTokens reads "token:owner,token:owner" pairs; malformed pairs are skipped.
func parseTokens(raw string) map[string]string {
	tokens := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		token, owner, ok := strings.Cut(strings.TrimSpace(pair), ":")
		if !ok || token == "" || owner == "" {
			continue
		}
		tokens[token] = owner
	}
	return tokens
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return NewAppError("CONFIG_ERROR", "DB_URL is required", ErrInvalidInput)
	}
	if c.Server.HTTPAddr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	switch c.Auth.Mode {
	case "header":
		if c.Auth.Header == "" {
			return NewAppError("CONFIG_ERROR", "AUTH_HEADER is required in header mode", ErrInvalidInput)
		}
	case "token":
		if len(c.Auth.Tokens) == 0 {
			return NewAppError("CONFIG_ERROR", "AUTH_TOKENS is required in token mode", ErrInvalidInput)
		}
	default:
		return NewAppError("CONFIG_ERROR", "AUTH_MODE must be header or token", ErrInvalidInput)
	}
	if _, err := time.LoadLocation(c.Stats.Timezone); err != nil {
		return NewAppError("CONFIG_ERROR", "STATS_TIMEZONE is not a valid location", err)
	}
	return nil
}
