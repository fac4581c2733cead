package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"lottogen/database"
)

// Config holds all application configuration
type Config struct {
	// Archive configuration
	StartYear          int    // First archive year to read
	UserAgent          string // Sent to the archive sites
	HTTPTimeoutSeconds int

	// Generation configuration
	TopK        int
	TicketCount int
	Seed        *uint64 // Unset means non-deterministic
	OutputDir   string

	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// Cache configuration
	RedisAddr     string
	CacheTTLHours int

	// NATS configuration
	NATSServers string // NATS server addresses (comma-separated)

	// Discord webhook configuration
	DiscordWebhookID    string
	DiscordWebhookToken string

	// HTTP API configuration
	HTTPAddr             string
	RefreshIntervalHours int

	// Logging
	LogLevel string

	// OpenTelemetry configuration
	OTelEnabled              bool
	OTelServiceName          string
	OTelExporterType         string // "console", "otlp" or "none"
	OTelOTLPEndpoint         string
	OTelExportIntervalMillis int

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	// If instance is already set (e.g., by tests), return it
	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			if os.Getenv("GO_TEST") == "1" || os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// PersistenceEnabled reports whether draws and runs should be stored in Postgres
func (c *Config) PersistenceEnabled() bool {
	return c.DatabaseURL != ""
}

// CacheEnabled reports whether archive documents should be cached in Redis
func (c *Config) CacheEnabled() bool {
	return c.RedisAddr != ""
}

// DiscordEnabled reports whether generated tickets should be posted to Discord
func (c *Config) DiscordEnabled() bool {
	return c.DiscordWebhookID != "" && c.DiscordWebhookToken != ""
}

// HTTPTimeout returns the archive request timeout
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

// CacheTTL returns how long archive documents stay cached
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLHours) * time.Hour
}

// RefreshInterval returns the period of the background archive refresh
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalHours) * time.Hour
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		// Archive
		StartYear:          getEnvInt("START_YEAR", 1997),
		UserAgent:          os.Getenv("USER_AGENT"),
		HTTPTimeoutSeconds: getEnvInt("HTTP_TIMEOUT_SECONDS", 30),

		// Generation
		TopK:        getEnvInt("TOP_K", 30),
		TicketCount: getEnvInt("TICKET_COUNT", 5),
		OutputDir:   getEnvWithDefault("OUTPUT_DIR", "output"),

		// Database
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		// Cache
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		CacheTTLHours: getEnvInt("CACHE_TTL_HOURS", 12),

		// NATS
		NATSServers: os.Getenv("NATS_SERVERS"),

		// Discord
		DiscordWebhookID:    os.Getenv("DISCORD_WEBHOOK_ID"),
		DiscordWebhookToken: os.Getenv("DISCORD_WEBHOOK_TOKEN"),

		// HTTP API
		HTTPAddr:             getEnvWithDefault("HTTP_ADDR", ":8080"),
		RefreshIntervalHours: getEnvInt("REFRESH_INTERVAL_HOURS", 24),

		LogLevel: getEnvWithDefault("LOG_LEVEL", "info"),

		// OpenTelemetry
		OTelEnabled:              os.Getenv("OTEL_ENABLED") == "true",
		OTelServiceName:          getEnvWithDefault("OTEL_SERVICE_NAME", "lottogen"),
		OTelExporterType:         getEnvWithDefault("OTEL_EXPORTER_TYPE", "console"),
		OTelOTLPEndpoint:         getEnvWithDefault("OTEL_OTLP_ENDPOINT", "localhost:4317"),
		OTelExportIntervalMillis: getEnvInt("OTEL_EXPORT_INTERVAL_MS", 60000),

		// Environment
		Environment: os.Getenv("ENVIRONMENT"),
	}

	if seed := os.Getenv("SEED"); seed != "" {
		if parsedSeed, err := strconv.ParseUint(seed, 10, 64); err == nil {
			config.Seed = &parsedSeed
		}
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) validate() error {
	if c.StartYear < 1997 || c.StartYear > time.Now().Year() {
		return fmt.Errorf("START_YEAR must be between 1997 and %d, got %d", time.Now().Year(), c.StartYear)
	}
	switch c.OTelExporterType {
	case "console", "otlp", "none":
	default:
		return fmt.Errorf("OTEL_EXPORTER_TYPE must be console, otlp or none, got %q", c.OTelExporterType)
	}
	// If DatabaseName is provided, ensure it's not empty
	if c.DatabaseName != "" && strings.TrimSpace(c.DatabaseName) == "" {
		return fmt.Errorf("DATABASE_NAME cannot be empty when provided")
	}
	return nil
}

// getEnvWithDefault returns the environment variable value or a default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt parses a positive integer variable, keeping the default when unset or invalid
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		return defaultValue
	}
	return parsed
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
// This should only be called from test files
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
// This should only be called from test files
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		StartYear:                2020,
		HTTPTimeoutSeconds:       5,
		TopK:                     30,
		TicketCount:              5,
		OutputDir:                os.TempDir(),
		CacheTTLHours:            12,
		HTTPAddr:                 ":0",
		RefreshIntervalHours:     24,
		LogLevel:                 "debug",
		OTelServiceName:          "lottogen-test",
		OTelExporterType:         "none",
		OTelExportIntervalMillis: 1000,
		Environment:              "test",
	}
}
