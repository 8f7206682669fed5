package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-code-review/internal/middleware"
	"github.com/noah-isme/gema-code-review/internal/service"
	"github.com/noah-isme/gema-code-review/internal/utils"
)

// SessionHandler lets a user discard everything stored for their session.
type SessionHandler struct {
	service service.EvaluationService
	logger  zerolog.Logger
}

// NewSessionHandler constructs the handler.
func NewSessionHandler(service service.EvaluationService, logger zerolog.Logger) *SessionHandler {
	return &SessionHandler{
		service: service,
		logger:  logger.With().Str("component", "session_handler").Logger(),
	}
}

// Register wires the handler endpoints into the router group.
func (h *SessionHandler) Register(router fiber.Router) {
	router.Delete("", h.clear)
}

func (h *SessionHandler) clear(c *fiber.Ctx) error {
	if err := h.service.ClearSession(c.UserContext(), sessionIDFromContext(c)); err != nil {
		if errors.Is(err, service.ErrSessionRequired) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to clear session")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
	middleware.ExpireSession(c)
	return c.SendStatus(fiber.StatusNoContent)
}
