package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/gema-code-review/internal/config"
	"github.com/noah-isme/gema-code-review/internal/utils"
)

// HealthResponse represents the payload returned by the health endpoint.
type HealthResponse struct {
	Status       string    `json:"status"`
	Timestamp    time.Time `json:"timestamp"`
	Service      string    `json:"service"`
	Environment  string    `json:"environment"`
	SessionStore string    `json:"session_store"`
	Events       bool      `json:"events"`
}

// HealthCheck returns a handler that reports application health information.
func HealthCheck(cfg config.Config) fiber.Handler {
	store := "memory"
	if cfg.RedisURL != "" {
		store = "redis"
	}

	return func(c *fiber.Ctx) error {
		payload := HealthResponse{
			Status:       "ok",
			Timestamp:    time.Now().UTC(),
			Service:      cfg.AppName,
			Environment:  cfg.AppEnv,
			SessionStore: store,
			Events:       cfg.NATSURL != "",
		}

		return utils.SendSuccess(c, "service healthy", payload)
	}
}
