package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/cybucks/internal/config"
	"github.com/MKhiriev/cybucks/internal/logger"
)

// Storages bundles every repository the service layer depends on.
type Storages struct {
	AccountRepository AccountRepository
	TransferJournal   TransferJournal
}

// NewStorages opens the storage backend selected by cfg and returns the
// repositories bound to it. SQL backends are migrated before use.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	switch cfg.DB.Driver {
	case config.DriverMemory:
		log.Info().Msg("using in-memory account store")
		memory := NewMemoryStore()
		return &Storages{
			AccountRepository: memory,
			TransferJournal:   memory,
		}, nil

	case config.DriverPostgres:
		db, err := NewConnectPostgres(ctx, cfg.DB, log)
		if err != nil {
			return nil, fmt.Errorf("postgres connection failed: %w", err)
		}
		if err := db.Migrate("pgx"); err != nil {
			return nil, fmt.Errorf("postgres migration failed: %w", err)
		}
		return &Storages{
			AccountRepository: NewAccountRepository(db, log),
			TransferJournal:   NewTransferJournal(db, log),
		}, nil

	case config.DriverSQLite:
		db, err := NewConnectSQLite(ctx, cfg.DB, log)
		if err != nil {
			return nil, fmt.Errorf("sqlite connection failed: %w", err)
		}
		if err := db.Migrate("sqlite3"); err != nil {
			return nil, fmt.Errorf("sqlite migration failed: %w", err)
		}
		return &Storages{
			AccountRepository: NewAccountRepository(db, log),
			TransferJournal:   NewTransferJournal(db, log),
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.DB.Driver)
	}
}
