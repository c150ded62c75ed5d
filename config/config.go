package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment

	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration. DatabaseURL takes precedence over the discrete fields.
	DBDriver    string
	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string
	SQLitePath  string

	// Redis configuration. Empty RedisURL and RedisHost disables rate limiting.
	RedisURL      string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// Auth configuration
	JWTSecret    string
	JWTExpiresIn time.Duration
	BcryptCost   int

	LogLevel           string
	CORSAllowedOrigins []string

	// Write rate limit per identity
	RateLimitWrites int
	RateLimitWindow time.Duration
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// RedisEnabled reports whether a Redis endpoint was configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Environment:        GetEnvironment(),
		ServerPort:         "8080",
		ServerHost:         "0.0.0.0",
		DBDriver:           DriverPostgres,
		DBHost:             "localhost",
		DBPort:             "5432",
		DBName:             "recipes",
		DBSSLMode:          "disable",
		SQLitePath:         "recipes.db",
		JWTExpiresIn:       24 * time.Hour,
		BcryptCost:         10,
		LogLevel:           "info",
		CORSAllowedOrigins: []string{"http://localhost:5173"},
		RateLimitWrites:    60,
		RateLimitWindow:    time.Minute,
	}
}

// LoadConfig builds the configuration from defaults, an optional TOML file
// (CONFIG_FILE), environment variables and Docker secrets, in that order.
func LoadConfig() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := loadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load %s configuration: %w", cfg.Environment, err)
	}

	if cfg.Environment != CI {
		loadSecrets(cfg)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func loadEnv(cfg *Config) error {
	setString(&cfg.ServerPort, "SERVER_PORT")
	setString(&cfg.ServerHost, "SERVER_HOST")
	setString(&cfg.DBDriver, "DB_DRIVER")
	setString(&cfg.DatabaseURL, "DATABASE_URL")
	setString(&cfg.DBHost, "DB_HOST")
	setString(&cfg.DBPort, "DB_PORT")
	setString(&cfg.DBUser, "DB_USER")
	setString(&cfg.DBPassword, "DB_PASSWORD")
	setString(&cfg.DBName, "DB_NAME")
	setString(&cfg.DBSSLMode, "DB_SSL_MODE")
	setString(&cfg.SQLitePath, "SQLITE_PATH")
	setString(&cfg.RedisURL, "REDIS_URL")
	setString(&cfg.RedisHost, "REDIS_HOST")
	setString(&cfg.RedisPort, "REDIS_PORT")
	setString(&cfg.RedisPassword, "REDIS_PASSWORD")
	setString(&cfg.JWTSecret, "JWT_SECRET")
	setString(&cfg.LogLevel, "LOG_LEVEL")

	// CI injects sensitive values under TEST_* names
	if cfg.Environment == CI {
		setString(&cfg.DBPassword, "TEST_DB_PASSWORD")
		setString(&cfg.JWTSecret, "TEST_JWT_SECRET")
		setString(&cfg.RedisPassword, "TEST_REDIS_PASSWORD")
		setString(&cfg.RedisURL, "TEST_REDIS_URL")
	}

	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		cfg.CORSAllowedOrigins = splitList(v)
	}

	var err error
	if cfg.RedisDB, err = intEnv("REDIS_DB", cfg.RedisDB); err != nil {
		return err
	}
	if cfg.BcryptCost, err = intEnv("BCRYPT_COST", cfg.BcryptCost); err != nil {
		return err
	}
	if cfg.RateLimitWrites, err = intEnv("RATE_LIMIT_WRITES", cfg.RateLimitWrites); err != nil {
		return err
	}
	if cfg.JWTExpiresIn, err = durationEnv("JWT_EXPIRES_IN", cfg.JWTExpiresIn); err != nil {
		return err
	}
	if cfg.RateLimitWindow, err = durationEnv("RATE_LIMIT_WINDOW", cfg.RateLimitWindow); err != nil {
		return err
	}
	return nil
}

// loadSecrets overrides sensitive values with Docker secrets when present.
func loadSecrets(cfg *Config) {
	for name, dst := range map[string]*string{
		"db_user":        &cfg.DBUser,
		"db_password":    &cfg.DBPassword,
		"database_url":   &cfg.DatabaseURL,
		"jwt_secret":     &cfg.JWTSecret,
		"redis_password": &cfg.RedisPassword,
		"redis_url":      &cfg.RedisURL,
	} {
		if v := readSecret(name); v != "" {
			*dst = v
		}
	}
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	data, err := os.ReadFile(filepath.Join(secretsDir, name))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
