package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidStorageConfigs indicates invalid storage settings
	// (for example, an unknown driver or a driver that requires a DSN
	// configured without one).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidServerConfigs indicates invalid HTTP server settings
	// (for example, an empty listen address).
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
	// ErrInvalidLedgerConfigs indicates invalid ledger retry settings
	// (for example, zero retries or a non-positive backoff).
	ErrInvalidLedgerConfigs = errors.New("invalid ledger configuration")
	// ErrInvalidWorkerConfigs indicates invalid background worker settings
	// (for example, a non-positive reconcile interval).
	ErrInvalidWorkerConfigs = errors.New("invalid worker configuration")
)
