package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-code-review/internal/observability"
)

// RedisStore keeps session entries as JSON strings with a sliding TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewRedisStore builds a Redis-backed session store.
func NewRedisStore(client *redis.Client, ttl time.Duration, logger zerolog.Logger) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("component", "redis_session_store").Logger(),
	}
}

func (s *RedisStore) SaveEvaluation(ctx context.Context, sessionID string, entry EvaluationEntry) error {
	return s.save(ctx, sessionID, SlotLastEvaluation, entry)
}

func (s *RedisStore) LastEvaluation(ctx context.Context, sessionID string) (EvaluationEntry, error) {
	var entry EvaluationEntry
	err := s.load(ctx, sessionID, SlotLastEvaluation, &entry)
	return entry, err
}

func (s *RedisStore) SaveSubmission(ctx context.Context, sessionID string, entry SubmissionEntry) error {
	return s.save(ctx, sessionID, SlotLastSubmission, entry)
}

func (s *RedisStore) LastSubmission(ctx context.Context, sessionID string) (SubmissionEntry, error) {
	var entry SubmissionEntry
	err := s.load(ctx, sessionID, SlotLastSubmission, &entry)
	return entry, err
}

func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, key(sessionID, SlotLastEvaluation), key(sessionID, SlotLastSubmission)).Err(); err != nil {
		observability.SessionStoreErrors().WithLabelValues("clear").Inc()
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *RedisStore) save(ctx context.Context, sessionID, slot string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", slot, err)
	}

	// Writing either slot extends the whole session.
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, key(sessionID, slot), payload, s.ttl)
	pipe.Expire(ctx, key(sessionID, otherSlot(slot)), s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		observability.SessionStoreErrors().WithLabelValues("save").Inc()
		return fmt.Errorf("store %s: %w", slot, err)
	}
	return nil
}

func (s *RedisStore) load(ctx context.Context, sessionID, slot string, target interface{}) error {
	raw, err := s.client.Get(ctx, key(sessionID, slot)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		observability.SessionStoreErrors().WithLabelValues("load").Inc()
		return fmt.Errorf("load %s: %w", slot, err)
	}

	if err := json.Unmarshal(raw, target); err != nil {
		s.logger.Warn().Err(err).Str("slot", slot).Msg("discarding unreadable session entry")
		return ErrNotFound
	}
	return nil
}

func key(sessionID, slot string) string {
	return fmt.Sprintf("session:%s:%s", sessionID, slot)
}

func otherSlot(slot string) string {
	if slot == SlotLastEvaluation {
		return SlotLastSubmission
	}
	return SlotLastEvaluation
}
