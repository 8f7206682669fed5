package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-code-review/internal/catalog"
	"github.com/noah-isme/gema-code-review/internal/models"
	"github.com/noah-isme/gema-code-review/internal/repository"
)

// SeedService loads the static challenge catalog into storage.
type SeedService interface {
	SeedChallenges(ctx context.Context, cat *catalog.Catalog) (int64, error)
}

type seedService struct {
	challengeRepo repository.ChallengeRepository
	logger        zerolog.Logger
}

// NewSeedService constructs a seeding service.
func NewSeedService(challengeRepo repository.ChallengeRepository, logger zerolog.Logger) SeedService {
	return &seedService{
		challengeRepo: challengeRepo,
		logger:        logger.With().Str("component", "seed_service").Logger(),
	}
}

func (s *seedService) SeedChallenges(ctx context.Context, cat *catalog.Catalog) (int64, error) {
	if cat == nil || cat.Len() == 0 {
		return 0, nil
	}

	items := normalizeChallenges(cat.All())
	affected, err := s.challengeRepo.UpsertBatch(ctx, items)
	if err != nil {
		return 0, err
	}
	s.logger.Info().Int64("affected", affected).Int("catalog_size", len(items)).Msg("challenges seeded")
	return affected, nil
}

func normalizeChallenges(challenges []catalog.Challenge) []models.Challenge {
	items := make([]models.Challenge, 0, len(challenges))
	for position, challenge := range challenges {
		items = append(items, models.Challenge{
			ExternalID:     challenge.ID,
			Position:       position,
			Title:          challenge.Title,
			Description:    challenge.Description,
			Difficulty:     string(challenge.Difficulty),
			Tags:           challenge.Tags,
			Prompt:         challenge.Prompt,
			SampleSolution: challenge.SampleSolution,
		})
	}
	return items
}
