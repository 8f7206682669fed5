package dto

import (
	"time"

	"github.com/noah-isme/gema-code-review/pkg/ai"
)

// EvaluationRequest represents the payload for submitting code for review.
type EvaluationRequest struct {
	Source      string `json:"source" validate:"max=200000"`
	ChallengeID string `json:"challenge_id" validate:"omitempty,max=64"`
}

// EvaluationResponse is the stored evaluation shown on the feedback screen.
type EvaluationResponse struct {
	Source    string             `json:"source"`
	Challenge *ChallengeResponse `json:"challenge,omitempty"`
	Result    ai.FeedbackRecord  `json:"result"`
	Timestamp time.Time          `json:"timestamp"`
	RetryPath string             `json:"retry_path"`
}

// SubmissionStarterResponse seeds the submission screen.
type SubmissionStarterResponse struct {
	Challenge   *ChallengeResponse `json:"challenge,omitempty"`
	StarterCode string             `json:"starter_code"`
}

// QuickChallengeResponse describes the fixed warm-up challenge.
type QuickChallengeResponse struct {
	Title       string `json:"title"`
	Prompt      string `json:"prompt"`
	StarterCode string `json:"starter_code"`
}

// QuickSubmissionRequest represents a warm-up challenge attempt.
type QuickSubmissionRequest struct {
	Source string `json:"source" validate:"max=200000"`
}

// QuickSubmissionResponse is the stored warm-up result shown on the results screen.
type QuickSubmissionResponse struct {
	Source    string    `json:"source"`
	Passed    bool      `json:"passed"`
	Feedback  string    `json:"feedback"`
	Summary   string    `json:"summary"`
	Timestamp time.Time `json:"timestamp"`
}
