package session

import (
	"context"
	"errors"
	"time"

	"github.com/noah-isme/gema-code-review/internal/dto"
	"github.com/noah-isme/gema-code-review/pkg/ai"
)

// Slot names used for the two entries kept per session.
const (
	SlotLastEvaluation = "last_evaluation"
	SlotLastSubmission = "last_submission"
)

// ErrNotFound indicates the requested slot holds no entry for the session.
var ErrNotFound = errors.New("session entry not found")

// EvaluationEntry is what the feedback screen needs after a submission.
type EvaluationEntry struct {
	Source    string                 `json:"source"`
	Challenge *dto.ChallengeResponse `json:"challenge,omitempty"`
	Result    ai.FeedbackRecord      `json:"result"`
	Timestamp time.Time              `json:"timestamp"`
}

// QuickResult is the outcome of the quick challenge check.
type QuickResult struct {
	Passed   bool   `json:"passed"`
	Feedback string `json:"feedback"`
}

// SubmissionEntry is what the results screen needs after a quick challenge.
type SubmissionEntry struct {
	Source    string      `json:"source"`
	Result    QuickResult `json:"result"`
	Timestamp time.Time   `json:"timestamp"`
}

// Store keeps the latest evaluation and submission of a browsing session.
// Entries are created on first write, replaced by later writes and dropped
// when the session expires or is cleared.
type Store interface {
	SaveEvaluation(ctx context.Context, sessionID string, entry EvaluationEntry) error
	LastEvaluation(ctx context.Context, sessionID string) (EvaluationEntry, error)
	SaveSubmission(ctx context.Context, sessionID string, entry SubmissionEntry) error
	LastSubmission(ctx context.Context, sessionID string) (SubmissionEntry, error)
	Clear(ctx context.Context, sessionID string) error
}
