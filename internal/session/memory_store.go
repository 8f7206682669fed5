package session

import (
	"context"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
)

type memoryEntry struct {
	evaluation *EvaluationEntry
	submission *SubmissionEntry
	expiresAt  time.Time
}

// MemoryStore keeps session entries in process. Expired sessions are dropped
// lazily on access and by Sweep.
type MemoryStore struct {
	sessions *xsync.MapOf[string, memoryEntry]
	ttl      time.Duration
	now      func() time.Time
}

// NewMemoryStore builds an in-process session store.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: xsync.NewMapOf[string, memoryEntry](),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *MemoryStore) SaveEvaluation(_ context.Context, sessionID string, entry EvaluationEntry) error {
	s.update(sessionID, func(current *memoryEntry) {
		current.evaluation = &entry
	})
	return nil
}

func (s *MemoryStore) LastEvaluation(_ context.Context, sessionID string) (EvaluationEntry, error) {
	current, ok := s.live(sessionID)
	if !ok || current.evaluation == nil {
		return EvaluationEntry{}, ErrNotFound
	}
	return *current.evaluation, nil
}

func (s *MemoryStore) SaveSubmission(_ context.Context, sessionID string, entry SubmissionEntry) error {
	s.update(sessionID, func(current *memoryEntry) {
		current.submission = &entry
	})
	return nil
}

func (s *MemoryStore) LastSubmission(_ context.Context, sessionID string) (SubmissionEntry, error) {
	current, ok := s.live(sessionID)
	if !ok || current.submission == nil {
		return SubmissionEntry{}, ErrNotFound
	}
	return *current.submission, nil
}

func (s *MemoryStore) Clear(_ context.Context, sessionID string) error {
	s.sessions.Delete(sessionID)
	return nil
}

// Sweep removes every expired session and reports how many were dropped.
func (s *MemoryStore) Sweep() int {
	now := s.now()
	removed := 0
	s.sessions.Range(func(id string, entry memoryEntry) bool {
		if !now.Before(entry.expiresAt) {
			s.sessions.Delete(id)
			removed++
		}
		return true
	})
	return removed
}

func (s *MemoryStore) update(sessionID string, apply func(*memoryEntry)) {
	s.sessions.Compute(sessionID, func(old memoryEntry, loaded bool) (memoryEntry, bool) {
		now := s.now()
		if !loaded || !now.Before(old.expiresAt) {
			old = memoryEntry{}
		}
		apply(&old)
		old.expiresAt = now.Add(s.ttl)
		return old, false
	})
}

func (s *MemoryStore) live(sessionID string) (memoryEntry, bool) {
	entry, ok := s.sessions.Load(sessionID)
	if !ok {
		return memoryEntry{}, false
	}
	if !s.now().Before(entry.expiresAt) {
		s.sessions.Delete(sessionID)
		return memoryEntry{}, false
	}
	return entry, true
}
