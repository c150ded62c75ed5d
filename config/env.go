package config

import (
	"os"
	"strings"
)

// Environment names the deployment the process runs in.
type Environment string

const (
	Development Environment = "development"
	Test        Environment = "test"
	CI          Environment = "ci"
	Production  Environment = "production"
)

// GetEnvironment reads ENV. CI=true overrides it so pipelines always load
// test secrets; anything unrecognised is development.
func GetEnvironment() Environment {
	if os.Getenv("CI") == "true" {
		return CI
	}
	switch env := Environment(strings.ToLower(strings.TrimSpace(os.Getenv("ENV")))); env {
	case Production, Test:
		return env
	}
	return Development
}

// Strict reports whether the environment gets the production validation
// rules and release-mode routing.
func (e Environment) Strict() bool {
	return e == Production
}
