package workers

import (
	"github.com/MKhiriev/cybucks/internal/config"
	"github.com/MKhiriev/cybucks/internal/logger"
	"github.com/MKhiriev/cybucks/internal/store"
)

// NewWorkers wires every background worker the server runs.
func NewWorkers(storages *store.Storages, cfg *config.StructuredConfig, logger *logger.Logger) []Worker {
	return []Worker{
		NewReconciler(storages, cfg.Workers, cfg.Ledger, logger),
	}
}
