package config

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"qbank/database"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken     string `envconfig:"DISCORD_TOKEN"`
	GuildID          string `envconfig:"GUILD_ID"`
	ManagerDiscordID int64  `envconfig:"MANAGER_DISCORD_ID"` // Bank manager allowed to run privileged commands

	// Database configuration
	DatabaseURL  string `envconfig:"DATABASE_URL"`
	DatabaseName string `envconfig:"DATABASE_NAME"`

	// Interest accrual and maintenance jobs
	InterestEnabled     bool   `envconfig:"INTEREST_ENABLED" default:"true"`
	InterestSchedule    string `envconfig:"INTEREST_SCHEDULE" default:"0 0 * * *"`
	NameRefreshSchedule string `envconfig:"NAME_REFRESH_SCHEDULE" default:"0 4 * * *"`
	ScheduleTimezone    string `envconfig:"SCHEDULE_TIMEZONE" default:"UTC"`

	// Mojang player lookup
	MojangAPIURL            string        `envconfig:"MOJANG_API_URL" default:"https://api.mojang.com"`
	MojangSessionURL        string        `envconfig:"MOJANG_SESSION_URL" default:"https://sessionserver.mojang.com"`
	MojangRequestsPerSecond float64       `envconfig:"MOJANG_REQUESTS_PER_SECOND" default:"5"`
	MojangTimeout           time.Duration `envconfig:"MOJANG_TIMEOUT" default:"10s"`

	// Observability
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	MetricsAddr string `envconfig:"METRICS_ADDR" default:":9090"`

	// Environment
	Environment string `envconfig:"ENVIRONMENT" default:"development"` // "development", "production" or "test"
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
			if os.Getenv("ENVIRONMENT") == "test" {
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

// IsManager reports whether the Discord user is the configured bank manager
func (c *Config) IsManager(discordID int64) bool {
	return c.ManagerDiscordID != 0 && c.ManagerDiscordID == discordID
}

// load loads configuration from environment variables
func load() (*Config, error) {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks required settings outside the test environment
func (c *Config) Validate() error {
	if c.Environment == "test" {
		return nil
	}
	if c.DiscordToken == "" {
		return fmt.Errorf("DISCORD_TOKEN is required")
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	// If DatabaseName is provided, ensure it's not empty
	if c.DatabaseName != "" && strings.TrimSpace(c.DatabaseName) == "" {
		return fmt.Errorf("DATABASE_NAME cannot be empty when provided")
	}
	if c.MojangRequestsPerSecond <= 0 {
		return fmt.Errorf("MOJANG_REQUESTS_PER_SECOND must be positive")
	}
	if _, err := time.LoadLocation(c.ScheduleTimezone); err != nil {
		return fmt.Errorf("invalid SCHEDULE_TIMEZONE %q: %w", c.ScheduleTimezone, err)
	}
	return nil
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
		Environment:             "test",
		ManagerDiscordID:        999999,
		InterestEnabled:         true,
		InterestSchedule:        "0 0 * * *",
		NameRefreshSchedule:     "0 4 * * *",
		ScheduleTimezone:        "UTC",
		MojangRequestsPerSecond: 5,
		MojangTimeout:           10 * time.Second,
		LogLevel:                "debug",
	}
}
