package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/gema-code-review/internal/catalog"
	"github.com/noah-isme/gema-code-review/internal/dto"
	"github.com/noah-isme/gema-code-review/internal/models"
	"github.com/noah-isme/gema-code-review/internal/repository"
)

// ErrChallengeNotFound indicates the requested challenge does not exist.
var ErrChallengeNotFound = errors.New("challenge not found")

// ErrInvalidDifficulty indicates a difficulty filter outside the catalog levels.
var ErrInvalidDifficulty = errors.New("invalid difficulty")

// ChallengeService exposes use cases related to the challenge catalog.
type ChallengeService interface {
	List(ctx context.Context, filter dto.ChallengeFilter) (dto.ChallengeListResponse, error)
	Get(ctx context.Context, id string) (dto.ChallengeResponse, error)
}

type challengeService struct {
	repo   repository.ChallengeRepository
	logger zerolog.Logger
}

// NewChallengeService builds a new challenge service.
func NewChallengeService(repo repository.ChallengeRepository, logger zerolog.Logger) ChallengeService {
	return &challengeService{
		repo:   repo,
		logger: logger.With().Str("component", "challenge_service").Logger(),
	}
}

func (s *challengeService) List(ctx context.Context, filter dto.ChallengeFilter) (dto.ChallengeListResponse, error) {
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	query := repository.ChallengeQuery{Search: strings.TrimSpace(filter.Search)}
	if strings.TrimSpace(filter.Difficulty) != "" {
		difficulty, err := catalog.ParseDifficulty(filter.Difficulty)
		if err != nil {
			return dto.ChallengeListResponse{}, ErrInvalidDifficulty
		}
		query.Difficulty = string(difficulty)
	}

	challenges, err := s.repo.List(ctx, query)
	if err != nil {
		return dto.ChallengeListResponse{}, err
	}

	wanted := catalog.NormaliseTags(filter.Tags)
	matched := make([]models.Challenge, 0, len(challenges))
	for _, challenge := range challenges {
		if wanted.Cardinality() > 0 && !catalog.NormaliseTags(challenge.TagsSlice()).IsSuperset(wanted) {
			continue
		}
		matched = append(matched, challenge)
	}

	start := (page - 1) * pageSize
	if start > len(matched) {
		start = len(matched)
	}
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}

	pagination := dto.Pagination{
		Page:       page,
		PageSize:   pageSize,
		TotalItems: len(matched),
	}

	return dto.NewChallengeListResponse(matched[start:end], pagination), nil
}

func (s *challengeService) Get(ctx context.Context, id string) (dto.ChallengeResponse, error) {
	challenge, err := findChallenge(ctx, s.repo, id)
	if err != nil {
		return dto.ChallengeResponse{}, err
	}
	return dto.NewChallengeResponse(challenge, true), nil
}

func findChallenge(ctx context.Context, repo repository.ChallengeRepository, id string) (models.Challenge, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return models.Challenge{}, ErrChallengeNotFound
	}

	challenge, err := repo.GetByExternalID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Challenge{}, ErrChallengeNotFound
		}
		return models.Challenge{}, err
	}
	return challenge, nil
}
