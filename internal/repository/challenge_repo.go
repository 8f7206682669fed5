package repository

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/gema-code-review/internal/models"
)

// ChallengeQuery defines filters for listing challenges.
type ChallengeQuery struct {
	Difficulty string
	Search     string
}

// ChallengeRepository exposes persistence operations for the challenge catalog.
type ChallengeRepository interface {
	List(ctx context.Context, query ChallengeQuery) ([]models.Challenge, error)
	GetByExternalID(ctx context.Context, id string) (models.Challenge, error)
	UpsertBatch(ctx context.Context, items []models.Challenge) (int64, error)
}

// NewChallengeRepository constructs a challenge repository.
func NewChallengeRepository(db *gorm.DB) ChallengeRepository {
	return &challengeRepository{db: db}
}

type challengeRepository struct {
	db *gorm.DB
}

func (r *challengeRepository) List(ctx context.Context, query ChallengeQuery) ([]models.Challenge, error) {
	db := r.db.WithContext(ctx).Model(&models.Challenge{})

	if query.Difficulty != "" {
		db = db.Where("LOWER(difficulty) = ?", strings.ToLower(query.Difficulty))
	}

	if query.Search != "" {
		pattern := fmt.Sprintf("%%%s%%", strings.ToLower(query.Search))
		db = db.Where("(LOWER(title) LIKE ? OR LOWER(description) LIKE ?)", pattern, pattern)
	}

	var challenges []models.Challenge
	if err := db.Order("position ASC").Order("id ASC").Find(&challenges).Error; err != nil {
		return nil, err
	}

	return challenges, nil
}

func (r *challengeRepository) GetByExternalID(ctx context.Context, id string) (models.Challenge, error) {
	var challenge models.Challenge
	if err := r.db.WithContext(ctx).Where("external_id = ?", id).First(&challenge).Error; err != nil {
		return models.Challenge{}, err
	}
	return challenge, nil
}

func (r *challengeRepository) UpsertBatch(ctx context.Context, items []models.Challenge) (int64, error) {
	if len(items) == 0 {
		return 0, nil
	}

	tx := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "external_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"position", "title", "description", "difficulty", "tags", "prompt", "sample_solution", "updated_at"}),
	})

	result := tx.Create(&items)
	return result.RowsAffected, result.Error
}
