// Copyright (c) 2026 Tosho. All rights reserved.
// Author: khoa.nv.dev@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, adapters) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the Tosho API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	// Shikimori source adapter
	ShikimoriBaseURL    string `env:"SHIKIMORI_BASE_URL"    envDefault:"https://shikimori.one"`
	ShikimoriGraphQLURL string `env:"SHIKIMORI_GRAPHQL_URL" envDefault:"https://shikimori.one/api/graphql"`
	ShikimoriAppName    string `env:"SHIKIMORI_APP_NAME"    envDefault:"tosho"`

	// Outbound throttling against external catalog sources.
	// Courtesy caps, reset on restart; they are not a hard SLA.
	SourceRequestsPerSecond int `env:"SOURCE_REQUESTS_PER_SECOND" envDefault:"4"`
	SourceRequestsPerMinute int `env:"SOURCE_REQUESTS_PER_MINUTE" envDefault:"80"`

	// SourceRequestTimeout is the per-call deadline for external fetches.
	SourceRequestTimeout time.Duration `env:"SOURCE_REQUEST_TIMEOUT" envDefault:"10s"`

	// SearchCacheTTL bounds how long external search results are served
	// from Redis before hitting the source again.
	SearchCacheTTL time.Duration `env:"SEARCH_CACHE_TTL" envDefault:"5m"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
