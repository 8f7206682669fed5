package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/gema-code-review/internal/catalog"
	"github.com/noah-isme/gema-code-review/internal/dto"
	"github.com/noah-isme/gema-code-review/internal/models"
	"github.com/noah-isme/gema-code-review/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func seededChallengeRepo(t *testing.T) repository.ChallengeRepository {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Challenge{}))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	repo := repository.NewChallengeRepository(db)
	cat, err := catalog.Default()
	require.NoError(t, err)

	affected, err := NewSeedService(repo, testLogger()).SeedChallenges(context.Background(), cat)
	require.NoError(t, err)
	require.Equal(t, int64(cat.Len()), affected)
	return repo
}

func TestChallengeServiceListHidesSolutions(t *testing.T) {
	svc := NewChallengeService(seededChallengeRepo(t), testLogger())

	resp, err := svc.List(context.Background(), dto.ChallengeFilter{})
	require.NoError(t, err)
	require.Len(t, resp.Items, 4)
	require.Equal(t, 4, resp.Pagination.TotalItems)
	require.Equal(t, "1", resp.Items[0].ID)
	for _, item := range resp.Items {
		require.Empty(t, item.SampleSolution)
		require.NotEmpty(t, item.Prompt)
	}
}

func TestChallengeServiceListFilters(t *testing.T) {
	svc := NewChallengeService(seededChallengeRepo(t), testLogger())
	ctx := context.Background()

	easy, err := svc.List(ctx, dto.ChallengeFilter{Difficulty: "easy"})
	require.NoError(t, err)
	require.Len(t, easy.Items, 2)

	tagged, err := svc.List(ctx, dto.ChallengeFilter{Tags: []string{"arrays", "DYNAMIC PROGRAMMING"}})
	require.NoError(t, err)
	require.Len(t, tagged.Items, 1)
	require.Equal(t, "Find Maximum Subarray Sum", tagged.Items[0].Title)

	searched, err := svc.List(ctx, dto.ChallengeFilter{Search: "parentheses"})
	require.NoError(t, err)
	require.Len(t, searched.Items, 1)

	_, err = svc.List(ctx, dto.ChallengeFilter{Difficulty: "impossible"})
	require.ErrorIs(t, err, ErrInvalidDifficulty)
}

func TestChallengeServiceListPaginates(t *testing.T) {
	svc := NewChallengeService(seededChallengeRepo(t), testLogger())

	page, err := svc.List(context.Background(), dto.ChallengeFilter{Page: 2, PageSize: 3})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.Equal(t, 4, page.Pagination.TotalItems)
	require.Equal(t, 2, page.Pagination.Page)

	beyond, err := svc.List(context.Background(), dto.ChallengeFilter{Page: 9, PageSize: 3})
	require.NoError(t, err)
	require.Empty(t, beyond.Items)
}

func TestChallengeServiceGet(t *testing.T) {
	svc := NewChallengeService(seededChallengeRepo(t), testLogger())

	challenge, err := svc.Get(context.Background(), "2")
	require.NoError(t, err)
	require.Equal(t, "Valid Parentheses", challenge.Title)
	require.NotEmpty(t, challenge.SampleSolution)

	_, err = svc.Get(context.Background(), "42")
	require.ErrorIs(t, err, ErrChallengeNotFound)

	_, err = svc.Get(context.Background(), " ")
	require.ErrorIs(t, err, ErrChallengeNotFound)
}
