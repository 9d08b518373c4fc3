package store

import (
	"database/sql"

	"github.com/MKhiriev/cybucks/internal/logger"
	"github.com/MKhiriev/cybucks/migrations"
)

// DB bundles the raw database handle with the driver-specific error
// classifier used to decide whether a failed operation is retryable.
type DB struct {
	*sql.DB
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

// Migrate applies all embedded goose migrations for the given dialect.
func (db *DB) Migrate(dialect string) error {
	return migrations.Migrate(db.DB, dialect)
}

// classify reports the retryability of err. A nil classifier treats every
// error as non-retryable.
func (db *DB) classify(err error) ErrorClassification {
	if db.errorClassificator == nil {
		return NonRetryable
	}
	return db.errorClassificator.Classify(err)
}
