// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// The storage driver is resolved here: an explicit driver must be one of the
// supported names, and when none is given the server picks "pgx" for a
// non-empty DSN and "memory" otherwise.
//
// Returns nil if the configuration is valid, or a descriptive error otherwise.
func (cfg *StructuredConfig) validate() error {
	switch cfg.Storage.DB.Driver {
	case DriverPostgres, DriverSQLite:
		if cfg.Storage.DB.DSN == "" {
			return ErrInvalidStorageConfigs
		}
	case DriverMemory:
	case "":
		if cfg.Storage.DB.DSN != "" {
			cfg.Storage.DB.Driver = DriverPostgres
		} else {
			cfg.Storage.DB.Driver = DriverMemory
		}
	default:
		return ErrInvalidStorageConfigs
	}

	if cfg.Server.HTTPAddress == "" {
		return ErrInvalidServerConfigs
	}

	if cfg.Ledger.BalanceRetries == 0 || cfg.Ledger.RetryBackoff <= 0 {
		return ErrInvalidLedgerConfigs
	}

	if cfg.Workers.ReconcileInterval <= 0 || cfg.Workers.StaleAfter <= 0 {
		return ErrInvalidWorkerConfigs
	}

	return nil
}
