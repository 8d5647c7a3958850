package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Supported DATA_BACKEND values
const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Config holds every setting of the server, read from the environment
type Config struct {
	// gRPC
	GRPCAddr string
	APIToken string

	// Persistence
	DataBackend    string
	DBConnStr      string
	DBStartupDelay time.Duration

	// AMQP (disabled when AMQPURL is empty)
	AMQPURL      string
	AMQPExchange string

	// Dashboard
	CacheTTL      time.Duration
	MonthsBack    int
	MonthsForward int

	// Logging
	LogLevel  string
	LogFormat string

	// Bootstrap manager
	ManagerName  string
	ManagerEmail string

	// Variables that were set but could not be parsed; reported by Validate
	parseErrors []string
}

// Load reads the configuration from the environment.
// A .env file in the working directory, when present, is loaded first without overriding real variables.
func Load() *Config {
	_ = godotenv.Load()

	var problems []string
	cfg := &Config{
		GRPCAddr: getEnv("GRPC_ADDR", ":8080"),
		APIToken: getEnv("API_TOKEN", "dev-token"),

		DataBackend:    getEnv("DATA_BACKEND", BackendPostgres),
		DBConnStr:      dbConnectionString(),
		DBStartupDelay: getEnvDuration("DB_STARTUP_DELAY", 2*time.Second, &problems),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "roomsync.ledger"),

		CacheTTL:      getEnvDuration("CACHE_TTL", 30*time.Second, &problems),
		MonthsBack:    getEnvInt("MONTHS_BACK", 5, &problems),
		MonthsForward: getEnvInt("MONTHS_FORWARD", 6, &problems),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		ManagerName:  getEnv("MANAGER_NAME", "Household Manager"),
		ManagerEmail: getEnv("MANAGER_EMAIL", ""),
	}
	cfg.parseErrors = problems

	return cfg
}

// dbConnectionString prefers DB_CONN_STR and otherwise builds one from the individual DB_* variables
func dbConnectionString() string {
	if connStr := os.Getenv("DB_CONN_STR"); connStr != "" {
		return connStr
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_USER", "postgres"),
		getEnv("DB_PASSWORD", "postgres"),
		getEnv("DB_NAME", "roomsync"),
	)
}

// Validate validates the configuration and returns an error listing every problem
func (c *Config) Validate() error {
	errors := append([]string(nil), c.parseErrors...)

	if _, port, err := net.SplitHostPort(c.GRPCAddr); err != nil {
		errors = append(errors, fmt.Sprintf("invalid gRPC address '%s': %v", c.GRPCAddr, err))
	} else if n, err := strconv.Atoi(port); err != nil || n < 0 || n > 65535 {
		errors = append(errors, fmt.Sprintf("invalid gRPC port '%s': must be between 0 and 65535", port))
	}

	if c.APIToken == "" {
		errors = append(errors, "API token cannot be empty")
	}

	switch c.DataBackend {
	case BackendPostgres:
		if c.DBConnStr == "" {
			errors = append(errors, "database connection string cannot be empty when using postgres backend")
		}
	case BackendMemory:
	default:
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of [%s %s]", c.DataBackend, BackendPostgres, BackendMemory))
	}

	if c.DBStartupDelay < 0 {
		errors = append(errors, fmt.Sprintf("invalid database startup delay %v: cannot be negative", c.DBStartupDelay))
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
	}

	if c.CacheTTL < 0 {
		errors = append(errors, fmt.Sprintf("invalid cache TTL %v: cannot be negative", c.CacheTTL))
	}

	if c.MonthsBack < 0 || c.MonthsForward < 0 {
		errors = append(errors, fmt.Sprintf("invalid month window (%d back, %d forward): cannot be negative", c.MonthsBack, c.MonthsForward))
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be debug, info, warn or error", c.LogLevel))
	}

	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be text or json", c.LogFormat))
	}

	if strings.TrimSpace(c.ManagerName) == "" {
		errors = append(errors, "manager name cannot be empty")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt falls back to defaultValue when key is unset; an unparsable value is recorded in problems
func getEnvInt(key string, defaultValue int, problems *[]string) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		*problems = append(*problems, fmt.Sprintf("invalid %s '%s': must be an integer", key, value))
		return defaultValue
	}
	return i
}

// getEnvDuration falls back to defaultValue when key is unset; an unparsable value is recorded in problems
func getEnvDuration(key string, defaultValue time.Duration, problems *[]string) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		*problems = append(*problems, fmt.Sprintf("invalid %s '%s': must be a duration such as 30s", key, value))
		return defaultValue
	}
	return d
}
