package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/punchamoorthee/txledger/internal/domain"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	Env         string
	LogLevel    zapcore.Level
	ErrorPolicy domain.ErrorPolicy
	Rules       domain.Rules

	// DBSource enables the Postgres snapshot export when set.
	DBSource string

	// Port enables the HTTP view when set.
	Port string
}

func Load() (*Config, error) {
	env := getenv("ENVIRONMENT", "production")

	level, err := zapcore.ParseLevel(getenv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	cfg := &Config{
		Env:      env,
		LogLevel: level,
		DBSource: os.Getenv("DB_SOURCE"),
		Port:     os.Getenv("SERVER_PORT"),
	}

	switch v := getenv("LEDGER_ERROR_POLICY", "continue"); v {
	case "continue":
		cfg.ErrorPolicy = domain.ContinueOnError
	case "abort":
		cfg.ErrorPolicy = domain.AbortOnError
	default:
		return nil, fmt.Errorf("LEDGER_ERROR_POLICY must be continue or abort, got %q", v)
	}

	switch v := getenv("LEDGER_ACCOUNT_POLICY", "strict"); v {
	case "strict":
		cfg.Rules.Creation = domain.StrictCreation
	case "lenient":
		cfg.Rules.Creation = domain.LenientCreation
	default:
		return nil, fmt.Errorf("LEDGER_ACCOUNT_POLICY must be strict or lenient, got %q", v)
	}

	switch v := getenv("LEDGER_UNKNOWN_REFERENCE", "reject"); v {
	case "reject":
		cfg.Rules.UnknownReference = domain.RejectUnknownReference
	case "ignore":
		cfg.Rules.UnknownReference = domain.IgnoreUnknownReference
	default:
		return nil, fmt.Errorf("LEDGER_UNKNOWN_REFERENCE must be reject or ignore, got %q", v)
	}

	return cfg, nil
}

// Development reports whether logs should be human readable.
func (c *Config) Development() bool {
	return c.Env == "development"
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return strings.ToLower(v)
	}
	return fallback
}
