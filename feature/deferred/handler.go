package deferred

import (
	"catalog-sync/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for deferred drafts.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the deferred draft routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/deferred")
	group.Get("/", h.HandleContainers)
	group.Get("/:container", h.HandleList)
	group.Delete("/", h.HandleCleanup)
}

// HandleContainers lists the containers holding deferred drafts.
func (h *Handler) HandleContainers(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	containers, err := h.service.Containers(c.UserContext())
	if err != nil {
		l.Error("Failed to list deferred containers", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"containers": containers})
}

// HandleList lists the drafts of one container.
func (h *Handler) HandleList(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	container := c.Params("container")

	entries, err := h.service.List(c.UserContext(), container)
	if err != nil {
		l.Error("Failed to list deferred drafts", zap.String("container", container), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"container": container,
		"count":     len(entries),
		"entries":   entries,
	})
}

// HandleCleanup deletes stale drafts. Query parameter days defaults to the configured
// retention.
func (h *Handler) HandleCleanup(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	days := c.QueryInt("days", -1)

	stats, err := h.service.Cleanup(c.UserContext(), days)
	if err != nil {
		l.Error("Deferred draft cleanup failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"deleted": stats.Deleted,
		"failed":  stats.Failed,
		"message": stats.ReportMessage(),
	})
}
