package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-code-review/internal/dto"
	"github.com/noah-isme/gema-code-review/internal/service"
	"github.com/noah-isme/gema-code-review/internal/utils"
)

// ChallengeHandler exposes the challenge catalog.
type ChallengeHandler struct {
	service   service.ChallengeService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewChallengeHandler constructs the handler.
func NewChallengeHandler(service service.ChallengeService, validator *validator.Validate, logger zerolog.Logger) *ChallengeHandler {
	return &ChallengeHandler{
		service:   service,
		validator: validator,
		logger:    logger.With().Str("component", "challenge_handler").Logger(),
	}
}

// Register wires the handler endpoints into the router group.
func (h *ChallengeHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
}

func (h *ChallengeHandler) list(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	pageSize, err := parseQueryInt(c, "page_size")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page_size")
	}

	filter := dto.ChallengeFilter{
		Difficulty: c.Query("difficulty"),
		Tags:       splitAndTrim(c.Query("tags")),
		Search:     c.Query("search"),
		Page:       page,
		PageSize:   pageSize,
	}
	if err := h.validator.Struct(filter); err != nil {
		return utils.SendErrorWithDetails(c, fiber.StatusBadRequest, "invalid filter", utils.ValidationDetails(err))
	}

	response, err := h.service.List(c.UserContext(), filter)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "challenges retrieved", response)
}

func (h *ChallengeHandler) get(c *fiber.Ctx) error {
	response, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "challenge retrieved", response)
}

func (h *ChallengeHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrChallengeNotFound):
		return utils.SendError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidDifficulty):
		return utils.SendError(c, fiber.StatusBadRequest, "difficulty must be one of Easy, Medium, Hard")
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("challenge operation failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
