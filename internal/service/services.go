package service

import (
	"github.com/MKhiriev/cybucks/internal/config"
	"github.com/MKhiriev/cybucks/internal/logger"
	"github.com/MKhiriev/cybucks/internal/store"
)

// Services bundles every business service exposed to the transport layer.
type Services struct {
	LedgerService LedgerService
}

func NewServices(storages *store.Storages, cfg *config.StructuredConfig, logger *logger.Logger) *Services {
	return &Services{
		LedgerService: NewLedgerService(storages, cfg.Ledger, logger),
	}
}
