// Package appointments provides the appointment view-model module.
package appointments

import (
	"legallink_client/internal/api"
	"legallink_client/internal/appointments/service"
	"legallink_client/platform/logger"
	"legallink_client/platform/store"
)

// Module bundles the appointment view-model with its dependencies wired.
type Module struct {
	Service *service.Service
}

// NewModule wires the view-model over the API client and the dual-scope cache.
func NewModule(client *api.Client, cache store.Store, log *logger.Logger) *Module {
	return &Module{
		Service: service.New(client, cache, log),
	}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "appointments"
}

// Compile-time check that the API client satisfies the service's backend slice.
var _ service.Backend = (*api.Client)(nil)
