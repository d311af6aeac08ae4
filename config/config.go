/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/suparena/entityregistry/errors"
)

// Environment variable names.
const (
	EnvRegistryID = "ENTITYREGISTRY_ID"
	EnvSeedFile   = "ENTITYREGISTRY_SEED_FILE"
	EnvLogLevel   = "ENTITYREGISTRY_LOG_LEVEL"
	EnvAccessKey  = "AWS_ACCESS_KEY"
	EnvSecretKey  = "AWS_SECRET_KEY"
	EnvRegion     = "AWS_REGION"
	EnvTable      = "AWS_DDB_TABLE"
)

// Config holds runtime settings for tools built on the registry.
type Config struct {
	// RegistryID names the registry to create or load. Empty means generate one.
	RegistryID string
	// SeedFile is an optional YAML snapshot to start from.
	SeedFile string
	LogLevel slog.Level

	AWSAccessKey string
	AWSSecretKey string
	AWSRegion    string
	// DDBTable enables DynamoDB persistence when set.
	DDBTable string
}

// Load reads the given .env files (default ".env"), then the process
// environment. Missing .env files are ignored; variables already set in the
// environment take precedence over file values.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil {
			if stderrors.Is(err, fs.ErrNotExist) {
				continue
			}
			return Config{}, fmt.Errorf("load env file %s: %w", f, err)
		}
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (Config, error) {
	cfg := Config{
		RegistryID:   os.Getenv(EnvRegistryID),
		SeedFile:     os.Getenv(EnvSeedFile),
		AWSAccessKey: os.Getenv(EnvAccessKey),
		AWSSecretKey: os.Getenv(EnvSecretKey),
		AWSRegion:    os.Getenv(EnvRegion),
		DDBTable:     os.Getenv(EnvTable),
	}

	if lvl := os.Getenv(EnvLogLevel); lvl != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(lvl)); err != nil {
			return Config{}, errors.NewValidationError(EnvLogLevel, fmt.Sprintf("unknown log level %q", lvl))
		}
	}

	if cfg.DDBTable != "" && cfg.AWSRegion == "" {
		return Config{}, errors.NewValidationError(EnvRegion, "required when "+EnvTable+" is set")
	}
	return cfg, nil
}

// DynamoDBEnabled reports whether a DynamoDB table is configured.
func (c Config) DynamoDBEnabled() bool {
	return c.DDBTable != ""
}
