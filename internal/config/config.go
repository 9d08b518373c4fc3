// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// Supported storage drivers. The driver selects which AccountRepository
// implementation the server is wired with at startup.
const (
	// DriverPostgres selects the PostgreSQL backend (pgx stdlib driver).
	DriverPostgres = "pgx"

	// DriverSQLite selects the embedded SQLite backend, intended for local
	// development.
	DriverSQLite = "sqlite3"

	// DriverMemory selects the in-process map-backed store. Used when no
	// DSN is configured; nothing survives a restart.
	DriverMemory = "memory"
)

// StructuredConfig is the top-level configuration container for the
// cybucks ledger service. It aggregates all sub-configurations and is
// populated by merging values from environment variables, command-line flags,
// and an optional JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings such as the service version.
	App App `envPrefix:"APP_"`

	// Storage holds configuration for the account store backend.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds network address and timeout settings for the HTTP server.
	Server Server `envPrefix:"SERVER_"`

	// Ledger holds tuning knobs for the ledger core's conditional-write
	// retry loop.
	Ledger Ledger `envPrefix:"LEDGER_"`

	// Workers holds configuration for the transfer reconciler worker.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// Version is the semantic version string of the running application
	// (e.g. "1.2.3").
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// Storage groups the configuration for the account store backend.
type Storage struct {
	// DB holds the database connection settings.
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings for the account store.
type DB struct {
	// DSN is the database connection string. For PostgreSQL this is a
	// postgres:// URI; for SQLite it is a file path. When empty the server
	// falls back to the in-memory store.
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`

	// Driver selects the storage backend: "pgx", "sqlite3" or "memory".
	// Defaults to "pgx" when a DSN is set and "memory" otherwise.
	// Env: STORAGE_DB_DRIVER
	Driver string `env:"DRIVER"`
}

// Server holds network address and timeout settings for the HTTP server.
type Server struct {
	// HTTPAddress is the listen address in host:port form.
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout is the maximum duration allowed for a single inbound
	// request before the server cancels it (e.g. "30s", "1m").
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Ledger holds tuning knobs for the compare-and-set retry loop that guards
// every balance mutation.
type Ledger struct {
	// BalanceRetries is the maximum number of additional attempts after a
	// conditional balance update loses a race to a concurrent writer.
	// Env: LEDGER_BALANCE_RETRIES
	BalanceRetries uint64 `env:"BALANCE_RETRIES"`

	// RetryBackoff is the constant delay between retry attempts.
	// Env: LEDGER_RETRY_BACKOFF
	RetryBackoff time.Duration `env:"RETRY_BACKOFF"`
}

// Workers holds configuration for the transfer reconciler worker.
type Workers struct {
	// ReconcileInterval is how often the reconciler scans the transfer
	// journal for interrupted transfers.
	// Env: WORKERS_RECONCILE_INTERVAL
	ReconcileInterval time.Duration `env:"RECONCILE_INTERVAL"`

	// StaleAfter is the age a transfer must reach in the "debited" state
	// before the reconciler considers it interrupted and repairs it.
	// Env: WORKERS_STALE_AFTER
	StaleAfter time.Duration `env:"STALE_AFTER"`
}

// GetStructuredConfig loads, merges, and validates the application
// configuration from all available sources in the following priority order
// (earlier sources win for non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//  4. Built-in defaults
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		withDefaults().
		build()
}
