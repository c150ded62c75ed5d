package config

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every problem found in one pass.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// ValidateConfig checks the configuration for the current environment.
func ValidateConfig(cfg *Config) error {
	var errs ValidationErrors
	add := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg})
	}

	if cfg.ServerPort == "" {
		add("SERVER_PORT", "is required")
	}
	if cfg.JWTSecret == "" {
		add("JWT_SECRET", "is required")
	} else if cfg.Environment.Strict() && len(cfg.JWTSecret) < 32 {
		add("JWT_SECRET", "must be at least 32 characters in production")
	}
	if cfg.JWTExpiresIn <= 0 {
		add("JWT_EXPIRES_IN", "must be positive")
	}
	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		add("BCRYPT_COST", fmt.Sprintf("must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost))
	}

	switch cfg.DBDriver {
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			for _, f := range []struct{ name, value string }{
				{"DB_HOST", cfg.DBHost},
				{"DB_PORT", cfg.DBPort},
				{"DB_USER", cfg.DBUser},
				{"DB_NAME", cfg.DBName},
			} {
				if f.value == "" {
					add(f.name, "is required when DATABASE_URL is not set")
				}
			}
		}
	case DriverSQLite:
		if cfg.Environment.Strict() {
			add("DB_DRIVER", "sqlite is not supported in production")
		}
		if cfg.SQLitePath == "" {
			add("SQLITE_PATH", "is required for the sqlite driver")
		}
	default:
		add("DB_DRIVER", fmt.Sprintf("unsupported driver %q", cfg.DBDriver))
	}

	if cfg.RateLimitWrites < 0 {
		add("RATE_LIMIT_WRITES", "must not be negative")
	}
	if cfg.RateLimitWrites > 0 && cfg.RateLimitWindow <= 0 {
		add("RATE_LIMIT_WINDOW", "must be positive")
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
