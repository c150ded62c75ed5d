package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// fileConfig mirrors the optional TOML configuration file.
type fileConfig struct {
	Server struct {
		Host string `toml:"host"`
		Port string `toml:"port"`
	} `toml:"server"`
	Database struct {
		Driver     string `toml:"driver"`
		URL        string `toml:"url"`
		Host       string `toml:"host"`
		Port       string `toml:"port"`
		User       string `toml:"user"`
		Name       string `toml:"name"`
		SSLMode    string `toml:"ssl_mode"`
		SQLitePath string `toml:"sqlite_path"`
	} `toml:"database"`
	Redis struct {
		URL  string `toml:"url"`
		Host string `toml:"host"`
		Port string `toml:"port"`
		DB   int    `toml:"db"`
	} `toml:"redis"`
	Auth struct {
		TokenTTL   string `toml:"token_ttl"`
		BcryptCost int    `toml:"bcrypt_cost"`
	} `toml:"auth"`
	Log struct {
		Level string `toml:"level"`
	} `toml:"log"`
	CORS struct {
		AllowedOrigins []string `toml:"allowed_origins"`
	} `toml:"cors"`
	RateLimit struct {
		Writes int    `toml:"writes"`
		Window string `toml:"window"`
	} `toml:"rate_limit"`
}

// loadFile applies non-empty values from a TOML file. Secrets are not read from it.
func loadFile(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	var fc fileConfig
	if err := toml.NewDecoder(file).Decode(&fc); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}

	override(&cfg.ServerHost, fc.Server.Host)
	override(&cfg.ServerPort, fc.Server.Port)
	override(&cfg.DBDriver, fc.Database.Driver)
	override(&cfg.DatabaseURL, fc.Database.URL)
	override(&cfg.DBHost, fc.Database.Host)
	override(&cfg.DBPort, fc.Database.Port)
	override(&cfg.DBUser, fc.Database.User)
	override(&cfg.DBName, fc.Database.Name)
	override(&cfg.DBSSLMode, fc.Database.SSLMode)
	override(&cfg.SQLitePath, fc.Database.SQLitePath)
	override(&cfg.RedisURL, fc.Redis.URL)
	override(&cfg.RedisHost, fc.Redis.Host)
	override(&cfg.RedisPort, fc.Redis.Port)
	override(&cfg.LogLevel, fc.Log.Level)

	if fc.Redis.DB != 0 {
		cfg.RedisDB = fc.Redis.DB
	}
	if fc.Auth.BcryptCost != 0 {
		cfg.BcryptCost = fc.Auth.BcryptCost
	}
	if fc.RateLimit.Writes != 0 {
		cfg.RateLimitWrites = fc.RateLimit.Writes
	}
	if len(fc.CORS.AllowedOrigins) > 0 {
		cfg.CORSAllowedOrigins = fc.CORS.AllowedOrigins
	}
	if fc.Auth.TokenTTL != "" {
		if cfg.JWTExpiresIn, err = time.ParseDuration(fc.Auth.TokenTTL); err != nil {
			return fmt.Errorf("auth.token_ttl: %w", err)
		}
	}
	if fc.RateLimit.Window != "" {
		if cfg.RateLimitWindow, err = time.ParseDuration(fc.RateLimit.Window); err != nil {
			return fmt.Errorf("rate_limit.window: %w", err)
		}
	}
	return nil
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
