package syncer

import (
	"encoding/json"

	"catalog-sync/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature publishes a Runner on the HTTP server. It implements loader.Feature.
type Feature struct {
	runner Runner
	logger *zap.Logger
}

// NewFeature creates the sync feature of runner.
func NewFeature(runner Runner, logger *zap.Logger) *Feature {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Feature{runner: runner, logger: logger}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "sync-" + f.runner.Route()
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	app.Post("/sync/"+f.runner.Route(), f.HandleSync)
	return nil
}

// HandleSync syncs the JSON array of drafts in the request body and responds with the
// statistics of the run. Query parameters: batch_size, defer (default true).
func (f *Feature) HandleSync(c *fiber.Ctx) error {
	l := logger.WithRayID(f.logger, c)

	opts := RunOptions{
		BatchSize: c.QueryInt("batch_size"),
		NoDefer:   !c.QueryBool("defer", true),
	}
	body := c.Body()
	result, err := f.runner.Run(c.UserContext(), func(out any) error {
		return json.Unmarshal(body, out)
	}, opts)
	if err != nil {
		l.Warn("Sync request rejected", zap.String("kind", string(f.runner.Kind())), zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	l.Info("Sync request finished",
		zap.String("kind", string(f.runner.Kind())),
		zap.String("run_id", result.RunID),
		zap.String("summary", result.Message),
	)
	return c.JSON(result)
}
