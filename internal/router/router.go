package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/gema-code-review/internal/config"
	"github.com/noah-isme/gema-code-review/internal/handler"
	"github.com/noah-isme/gema-code-review/internal/middleware"
	"github.com/noah-isme/gema-code-review/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	ChallengeHandler      *handler.ChallengeHandler
	EvaluationHandler     *handler.EvaluationHandler
	QuickChallengeHandler *handler.QuickChallengeHandler
	SessionHandler        *handler.SessionHandler
	// SubmitGuard throttles submission endpoints. When nil a per-session limiter
	// is built from the configuration.
	SubmitGuard fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	submitGuard := deps.SubmitGuard
	if submitGuard == nil && cfg.SubmitRateLimit > 0 {
		submitGuard = middleware.RateLimit("submit", cfg.SubmitRateLimit, cfg.SubmitRateWindow)
	}

	if deps.ChallengeHandler != nil {
		deps.ChallengeHandler.Register(api.Group("/challenges"))
	}

	if deps.EvaluationHandler != nil {
		deps.EvaluationHandler.Register(api, submitGuard)
	}

	if deps.QuickChallengeHandler != nil {
		deps.QuickChallengeHandler.Register(api, submitGuard)
	}

	if deps.SessionHandler != nil {
		deps.SessionHandler.Register(api.Group("/session"))
	}
}
