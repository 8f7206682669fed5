package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-code-review/internal/dto"
	"github.com/noah-isme/gema-code-review/internal/service"
	"github.com/noah-isme/gema-code-review/internal/utils"
)

// EvaluationHandler exposes the submit and feedback endpoints.
type EvaluationHandler struct {
	service service.EvaluationService
	logger  zerolog.Logger
}

// NewEvaluationHandler constructs the handler.
func NewEvaluationHandler(service service.EvaluationService, logger zerolog.Logger) *EvaluationHandler {
	return &EvaluationHandler{
		service: service,
		logger:  logger.With().Str("component", "evaluation_handler").Logger(),
	}
}

// Register wires the evaluation endpoints into the router group. submitGuard
// runs before the submission endpoint and may be nil.
func (h *EvaluationHandler) Register(router fiber.Router, submitGuard fiber.Handler) {
	evaluations := router.Group("/evaluations")
	evaluations.Get("/new", h.starter)
	if submitGuard != nil {
		evaluations.Post("", submitGuard, h.submit)
	} else {
		evaluations.Post("", h.submit)
	}

	router.Get("/feedback", h.feedback)
}

func (h *EvaluationHandler) starter(c *fiber.Ctx) error {
	response, err := h.service.Starter(c.UserContext(), c.Query("challenge"))
	if err != nil {
		if errors.Is(err, service.ErrChallengeNotFound) {
			return c.Redirect(service.CatalogPath, fiber.StatusSeeOther)
		}
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "submission form ready", response)
}

func (h *EvaluationHandler) submit(c *fiber.Ctx) error {
	var payload dto.EvaluationRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	response, err := h.service.Submit(c.UserContext(), sessionIDFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	c.Location("/api/v1/feedback")
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "submission evaluated", response)
}

func (h *EvaluationHandler) feedback(c *fiber.Ctx) error {
	response, err := h.service.LastEvaluation(c.UserContext(), sessionIDFromContext(c))
	if err != nil {
		if errors.Is(err, service.ErrNoEvaluation) {
			return c.Redirect(service.SubmissionEntryPath, fiber.StatusSeeOther)
		}
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "feedback retrieved", response)
}

func (h *EvaluationHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrEmptySubmission):
		return utils.SendError(c, fiber.StatusBadRequest, "please write some code before submitting")
	case errors.Is(err, service.ErrChallengeNotFound):
		return utils.SendError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrSubmissionInProgress):
		return utils.SendError(c, fiber.StatusConflict, "a submission is already being evaluated")
	case errors.Is(err, service.ErrSessionRequired):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case isValidationError(err):
		return utils.SendErrorWithDetails(c, fiber.StatusBadRequest, "invalid submission", utils.ValidationDetails(err))
	case isCancellation(err):
		return utils.SendError(c, fiber.StatusRequestTimeout, "evaluation abandoned")
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("evaluation operation failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
