package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-code-review/internal/dto"
	"github.com/noah-isme/gema-code-review/internal/service"
	"github.com/noah-isme/gema-code-review/internal/utils"
)

// QuickChallengeHandler exposes the warm-up challenge and its results.
type QuickChallengeHandler struct {
	service service.QuickChallengeService
	logger  zerolog.Logger
}

// NewQuickChallengeHandler constructs the handler.
func NewQuickChallengeHandler(service service.QuickChallengeService, logger zerolog.Logger) *QuickChallengeHandler {
	return &QuickChallengeHandler{
		service: service,
		logger:  logger.With().Str("component", "quick_challenge_handler").Logger(),
	}
}

// Register wires the warm-up endpoints into the router group. submitGuard
// runs before the submission endpoint and may be nil.
func (h *QuickChallengeHandler) Register(router fiber.Router, submitGuard fiber.Handler) {
	quick := router.Group("/quick-challenge")
	quick.Get("", h.challenge)
	if submitGuard != nil {
		quick.Post("/submissions", submitGuard, h.submit)
	} else {
		quick.Post("/submissions", h.submit)
	}

	router.Get("/results", h.results)
}

func (h *QuickChallengeHandler) challenge(c *fiber.Ctx) error {
	return utils.SendSuccess(c, "quick challenge retrieved", h.service.Challenge())
}

func (h *QuickChallengeHandler) submit(c *fiber.Ctx) error {
	var payload dto.QuickSubmissionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	response, err := h.service.Submit(c.UserContext(), sessionIDFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	c.Location("/api/v1/results")
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "solution graded", response)
}

func (h *QuickChallengeHandler) results(c *fiber.Ctx) error {
	response, err := h.service.LastResult(c.UserContext(), sessionIDFromContext(c))
	if err != nil {
		if errors.Is(err, service.ErrNoSubmission) {
			return c.Redirect(service.QuickChallengePath, fiber.StatusSeeOther)
		}
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "results retrieved", response)
}

func (h *QuickChallengeHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrIncompleteSolution):
		return utils.SendError(c, fiber.StatusBadRequest, "please complete the find_max function before submitting")
	case errors.Is(err, service.ErrSessionRequired):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case isValidationError(err):
		return utils.SendErrorWithDetails(c, fiber.StatusBadRequest, "invalid submission", utils.ValidationDetails(err))
	case isCancellation(err):
		return utils.SendError(c, fiber.StatusRequestTimeout, "submission abandoned")
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("quick challenge operation failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
