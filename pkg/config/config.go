package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Environment   string
	IsProduction  bool
	IsDevelopment bool

	// Discord Bot Configuration
	DiscordToken  string
	DiscordGuild  string
	CommandPrefix string

	// MongoDB Configuration (empty URI disables the cookbook)
	MongoDBURI      string
	MongoDBDatabase string

	// Workbench Configuration
	GenerationDelay    time.Duration
	SessionIdleTimeout time.Duration
	SessionSweepEvery  time.Duration

	// Importer Configuration
	ImportTimeout time.Duration

	// Logging
	LogDir   string
	LogLevel string
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Environment:     getEnv("ENVIRONMENT", "development"),
		DiscordToken:    getEnv("DISCORD_TOKEN", ""),
		DiscordGuild:    getEnv("DISCORD_GUILD", ""),
		CommandPrefix:   getEnv("COMMAND_PREFIX", "!"),
		MongoDBURI:      getEnv("MONGODB_URI", ""),
		MongoDBDatabase: getEnv("MONGODB_DATABASE", ""),
		LogDir:          getEnv("LOG_DIR", "logs"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
	}

	// Derived properties
	cfg.IsProduction = cfg.Environment == "production"
	cfg.IsDevelopment = !cfg.IsProduction

	if cfg.MongoDBDatabase == "" {
		cfg.MongoDBDatabase = "recipebot"
		if cfg.IsDevelopment {
			cfg.MongoDBDatabase = "recipebot_dev"
		}
	}

	// Parse numeric values
	cfg.GenerationDelay = time.Duration(getEnvInt("GENERATION_DELAY_MS", 2000)) * time.Millisecond
	cfg.SessionIdleTimeout = time.Duration(getEnvInt("SESSION_IDLE_MINUTES", 60)) * time.Minute
	cfg.SessionSweepEvery = time.Duration(getEnvInt("SESSION_SWEEP_MINUTES", 5)) * time.Minute
	cfg.ImportTimeout = time.Duration(getEnvInt("IMPORT_TIMEOUT_SECONDS", 15)) * time.Second

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.DiscordToken == "" {
		return fmt.Errorf("DISCORD_TOKEN environment variable is required")
	}
	if c.CommandPrefix == "" {
		return fmt.Errorf("COMMAND_PREFIX must not be empty")
	}
	if c.GenerationDelay < 0 {
		return fmt.Errorf("GENERATION_DELAY_MS must not be negative")
	}
	if c.SessionIdleTimeout <= 0 || c.SessionSweepEvery <= 0 {
		return fmt.Errorf("SESSION_IDLE_MINUTES and SESSION_SWEEP_MINUTES must be positive")
	}

	return nil
}

// CookbookEnabled reports whether a MongoDB URI was configured
func (c *Config) CookbookEnabled() bool {
	return c.MongoDBURI != ""
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt parses an integer environment variable, falling back to the default on bad input
func getEnvInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(getEnv(key, strconv.Itoa(defaultValue)))
	if err != nil {
		return defaultValue
	}
	return n
}
