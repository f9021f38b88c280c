package deferred

import (
	"catalog-sync/core/deferred"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the deferred draft feature. A nil store disables it.
func NewFeature(store deferred.Store, retentionDays int, logger *zap.Logger) *Feature {
	if store == nil {
		return &Feature{}
	}
	svc := NewService(store, retentionDays, logger)
	return &Feature{service: svc, handler: NewHandler(svc)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "deferred"
}

// IsEnabled reports whether a deferred store is configured.
func (f *Feature) IsEnabled() bool {
	return f.service != nil
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
