package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port        int
	Environment string
	ServiceName string
	Version     string
	LogLevel    string
	LogFormat   string
	LogDir      string
	APIKey      string // API key for authentication

	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	CatalogPath string // JSON case catalog loaded at startup

	EventMaxRetries     int           // publish attempts before dead-lettering
	EventRetryDelay     time.Duration // base delay for publish retry backoff
	EventDeadLetterPath string        // JSONL file for events that exhausted retries

	BattleJoinDuration  time.Duration // window for joining a battle before it executes
	RecoveryInterval    time.Duration // how often the recovery worker scans for stuck draws
	RecoveryGracePeriod time.Duration // how old a committed draw must be before replay
	MaxClientSeedLength int
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "dev"),
		ServiceName: getEnv("SERVICE_NAME", "casevault"),
		Version:     getEnv("VERSION", "dev"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "text"),
		LogDir:      getEnv("LOG_DIR", "logs"),
		APIKey:      getEnv("API_KEY", ""),
		DBUser:      getEnv("DB_USER", "postgres"),
		DBPassword:  getEnv("DB_PASSWORD", "postgres"),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBName:      getEnv("DB_NAME", "casevault"),
		CatalogPath: getEnv("CATALOG_PATH", DefaultCatalogPath),
	}

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT value: %w", err)
	}
	cfg.Port = port

	cfg.BattleJoinDuration, err = getDuration("BATTLE_JOIN_DURATION", DefaultBattleJoinDuration)
	if err != nil {
		return nil, err
	}
	cfg.RecoveryInterval, err = getDuration("RECOVERY_INTERVAL", DefaultRecoveryInterval)
	if err != nil {
		return nil, err
	}
	cfg.RecoveryGracePeriod, err = getDuration("RECOVERY_GRACE_PERIOD", DefaultRecoveryGracePeriod)
	if err != nil {
		return nil, err
	}

	cfg.EventMaxRetries, err = getInt("EVENT_MAX_RETRIES", 0)
	if err != nil {
		return nil, err
	}
	cfg.EventRetryDelay, err = getDuration("EVENT_RETRY_DELAY", 0)
	if err != nil {
		return nil, err
	}
	cfg.EventDeadLetterPath = getEnv("EVENT_DEADLETTER_PATH", "")

	cfg.MaxClientSeedLength = DefaultMaxClientSeedLength

	// Validate API key is set
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API_KEY environment variable must be set for security")
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getInt retrieves an integer environment variable or returns a default
func getInt(key string, defaultValue int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return n, nil
}

// getDuration retrieves a duration environment variable or returns a default
func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return d, nil
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
