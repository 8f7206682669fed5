package integration_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gema-code-review/internal/catalog"
	"github.com/noah-isme/gema-code-review/internal/config"
	"github.com/noah-isme/gema-code-review/internal/database"
	"github.com/noah-isme/gema-code-review/internal/handler"
	"github.com/noah-isme/gema-code-review/internal/middleware"
	"github.com/noah-isme/gema-code-review/internal/repository"
	"github.com/noah-isme/gema-code-review/internal/router"
	"github.com/noah-isme/gema-code-review/internal/service"
	"github.com/noah-isme/gema-code-review/internal/session"
	"github.com/noah-isme/gema-code-review/pkg/ai"
)

type stack struct {
	app   *fiber.App
	redis *miniredis.Miniredis
}

func setupStack(t *testing.T, cfg config.Config) stack {
	t.Helper()

	mr := miniredis.RunT(t)
	cfg.RedisURL = "redis://" + mr.Addr()

	db, err := database.Connect("file:" + t.Name() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	client, err := database.ConnectRedis(context.Background(), cfg.RedisURL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	logger := zerolog.Nop()
	validate := validator.New(validator.WithRequiredStructEnabled())
	repo := repository.NewChallengeRepository(db)

	cat, err := catalog.Default()
	require.NoError(t, err)
	_, err = service.NewSeedService(repo, logger).SeedChallenges(context.Background(), cat)
	require.NoError(t, err)

	store := session.NewRedisStore(client, cfg.SessionTTL, logger)
	evaluator := ai.NewHeuristicEvaluator(ai.HeuristicConfig{Latency: cfg.EvaluatorLatency, Random: ai.NewSeededSource(21)})
	evaluations := service.NewEvaluationService(repo, evaluator, store, nil, validate, logger)
	quick := service.NewQuickChallengeService(store, validate, 0, logger)

	app := fiber.New()
	middleware.Register(app, middleware.Config{Session: middleware.SessionConfig{CookieName: cfg.SessionCookie, TTL: cfg.SessionTTL}})
	router.Register(app, cfg, router.Dependencies{
		ChallengeHandler:      handler.NewChallengeHandler(service.NewChallengeService(repo, logger), validate, logger),
		EvaluationHandler:     handler.NewEvaluationHandler(evaluations, logger),
		QuickChallengeHandler: handler.NewQuickChallengeHandler(quick, logger),
		SessionHandler:        handler.NewSessionHandler(evaluations, logger),
	})

	return stack{app: app, redis: mr}
}

// browser replays the session cookie the way a browser would.
type browser struct {
	t      *testing.T
	app    *fiber.App
	cookie *http.Cookie
}

func (b *browser) do(method, target, body string) *http.Response {
	b.t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if b.cookie != nil {
		req.AddCookie(b.cookie)
	}

	resp, err := b.app.Test(req, -1)
	require.NoError(b.t, err)
	for _, cookie := range resp.Cookies() {
		if cookie.Name == "gema_session" {
			b.cookie = cookie
		}
	}
	return resp
}

func TestEvaluationJourneyWithRedisSessions(t *testing.T) {
	cfg := config.Config{AppName: "E2E", SessionTTL: 30 * time.Minute, SessionCookie: "gema_session"}
	s := setupStack(t, cfg)
	user := &browser{t: t, app: s.app}

	resp := user.do(http.MethodGet, "/api/v1/feedback", "")
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	require.NotNil(t, user.cookie)

	resp = user.do(http.MethodGet, "/api/v1/evaluations/new?challenge=3", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = user.do(http.MethodPost, "/api/v1/evaluations", `{"source":"def has_cycle(head):\n    seen = set()\n    return False","challenge_id":"3"}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = user.do(http.MethodGet, "/api/v1/feedback", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Data struct {
			Challenge struct {
				ID string `json:"id"`
			} `json:"challenge"`
			Result struct {
				Feedback string `json:"feedback"`
			} `json:"result"`
			RetryPath string `json:"retry_path"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "3", body.Data.Challenge.ID)
	require.Contains(t, body.Data.Result.Feedback, "Overall, your solution")
	require.Equal(t, "/api/v1/evaluations/new?challenge=3", body.Data.RetryPath)

	key := "session:" + user.cookie.Value + ":last_evaluation"
	require.True(t, s.redis.Exists(key))

	s.redis.FastForward(31 * time.Minute)
	resp = user.do(http.MethodGet, "/api/v1/feedback", "")
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode, "expired sessions forget their evaluation")
}

func TestQuickChallengeJourney(t *testing.T) {
	cfg := config.Config{AppName: "E2E", SessionTTL: time.Hour, SessionCookie: "gema_session"}
	s := setupStack(t, cfg)
	user := &browser{t: t, app: s.app}

	resp := user.do(http.MethodGet, "/api/v1/quick-challenge", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = user.do(http.MethodPost, "/api/v1/quick-challenge/submissions", `{"source":"def find_max(numbers):\n    best = numbers[0]\n    return best"}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = user.do(http.MethodGet, "/api/v1/results", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Data struct {
			Passed  bool   `json:"passed"`
			Summary string `json:"summary"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.False(t, body.Data.Passed)
	require.True(t, strings.HasPrefix(body.Data.Summary, "Your solution needs improvement."))

	resp = user.do(http.MethodDelete, "/api/v1/session", "")
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	resp = user.do(http.MethodGet, "/api/v1/results", "")
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
}

func TestSubmissionRateLimit(t *testing.T) {
	cfg := config.Config{AppName: "E2E", SessionTTL: time.Hour, SessionCookie: "gema_session", SubmitRateLimit: 2, SubmitRateWindow: time.Minute}
	s := setupStack(t, cfg)
	user := &browser{t: t, app: s.app}

	user.do(http.MethodGet, "/api/v1/health", "")
	for i := 0; i < 2; i++ {
		resp := user.do(http.MethodPost, "/api/v1/evaluations", `{"source":"x = 1"}`)
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	}
	resp := user.do(http.MethodPost, "/api/v1/evaluations", `{"source":"x = 1"}`)
	require.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
}
