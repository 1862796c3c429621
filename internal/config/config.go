package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fernet/fernet-go"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	CORS         CORSConfig
	Log          LogConfig
	StockAPI     StockAPIConfig
	Valuation    ValuationConfig
	Provisioning ProvisioningConfig
	Scheduler    SchedulerConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string
	Pretty bool
}

// StockAPIConfig holds the upstream price source settings.
type StockAPIConfig struct {
	BaseURL       string
	Key           string
	RatePerMinute int
	Timeout       time.Duration
}

// ValuationConfig bounds the number of concurrent price lookups per summary.
type ValuationConfig struct {
	Workers int
}

// ProvisioningConfig holds the number of random holdings a new portfolio receives.
type ProvisioningConfig struct {
	Count int
}

// SchedulerConfig holds the cron schedule of the quote warm-up job.
// An empty schedule disables the job.
type SchedulerConfig struct {
	QuoteWarmSchedule string
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/portfolio_tracker.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost")),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		StockAPI: StockAPIConfig{
			BaseURL: getEnv("STOCK_API_BASE_URL", "https://www.alphavantage.co/query"),
		},
		Scheduler: SchedulerConfig{
			QuoteWarmSchedule: getEnv("QUOTE_WARM_SCHEDULE", ""),
		},
	}

	var err error
	if config.Log.Pretty, err = getEnvBool("LOG_PRETTY", false); err != nil {
		return nil, err
	}
	if config.StockAPI.RatePerMinute, err = getEnvInt("STOCK_API_RATE_PER_MINUTE", 5); err != nil {
		return nil, err
	}
	if config.StockAPI.Timeout, err = getEnvDuration("STOCK_API_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if config.Valuation.Workers, err = getEnvInt("VALUATION_WORKERS", 4); err != nil {
		return nil, err
	}
	if config.Provisioning.Count, err = getEnvInt("PROVISION_COUNT", 5); err != nil {
		return nil, err
	}
	if config.StockAPI.Key, err = loadAPIKey(); err != nil {
		return nil, err
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// loadAPIKey returns STOCK_API_KEY, or the fernet-decrypted STOCK_API_KEY_ENCRYPTED
// when FERNET_KEY is configured.
func loadAPIKey() (string, error) {
	encrypted := os.Getenv("STOCK_API_KEY_ENCRYPTED")
	if encrypted == "" {
		return getEnv("STOCK_API_KEY", "demo"), nil
	}

	fernetKey := os.Getenv("FERNET_KEY")
	if fernetKey == "" {
		return "", fmt.Errorf("STOCK_API_KEY_ENCRYPTED is set but FERNET_KEY is missing")
	}
	return DecryptAPIKey(encrypted, fernetKey)
}

// DecryptAPIKey decrypts a fernet token with the given base64 key.
// Token age is not checked: the key is stored, not transmitted.
func DecryptAPIKey(token, key string) (string, error) {
	keys, err := fernet.DecodeKeys(key)
	if err != nil {
		return "", fmt.Errorf("invalid FERNET_KEY: %w", err)
	}
	msg := fernet.VerifyAndDecrypt([]byte(token), -1, keys)
	if msg == nil {
		return "", fmt.Errorf("failed to decrypt STOCK_API_KEY_ENCRYPTED")
	}
	return string(msg), nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if n < 1 {
		return 0, fmt.Errorf("invalid %s: must be at least 1", key)
	}
	return n, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
