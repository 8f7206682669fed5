package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-code-review/internal/dto"
	"github.com/noah-isme/gema-code-review/internal/session"
)

const (
	// QuickChallengePath serves the warm-up challenge.
	QuickChallengePath = "/api/v1/quick-challenge"

	quickChallengeTitle  = "Find Maximum Number"
	quickChallengePrompt = `Write a function that finds the largest number in an array of integers.

Function Signature:
def find_max(numbers: list[int]) -> int:
    # Your code here

Example:
Input: [1, 3, 5, 2, 9, 7]
Output: 9

Constraints:
- The array will contain at least one element
- All elements will be integers`
	quickChallengeStarter  = "# Your solution here\n\ndef find_max(numbers):\n    # Write your solution\n    pass"
	quickChallengeFunction = "def find_max"
	quickChallengeFeedback = "Your solution has been evaluated."

	quickPassedSummary = "Great job! Your solution correctly finds the maximum number in the array. Your code is concise and effective."
	quickFailedSummary = "Your solution needs improvement. Make sure your function returns the largest number in the input array. Consider using built-in functions like max() or sorting the array."
)

var quickAcceptedAnswers = []string{"return max(numbers)", "return sorted(numbers)[-1]"}

var (
	// ErrIncompleteSolution indicates the warm-up answer lacks the required function.
	ErrIncompleteSolution = errors.New("incomplete solution")
	// ErrNoSubmission indicates the session has no stored warm-up result.
	ErrNoSubmission = errors.New("no submission available")
)

// QuickChallengeService drives the warm-up challenge and results screens.
type QuickChallengeService interface {
	Challenge() dto.QuickChallengeResponse
	Submit(ctx context.Context, sessionID string, payload dto.QuickSubmissionRequest) (dto.QuickSubmissionResponse, error)
	LastResult(ctx context.Context, sessionID string) (dto.QuickSubmissionResponse, error)
}

type quickChallengeService struct {
	store     session.Store
	validator *validator.Validate
	latency   time.Duration
	logger    zerolog.Logger
	now       func() time.Time
}

// NewQuickChallengeService constructs the warm-up challenge service. latency
// is the simulated grading delay.
func NewQuickChallengeService(store session.Store, validate *validator.Validate, latency time.Duration, logger zerolog.Logger) QuickChallengeService {
	return &quickChallengeService{
		store:     store,
		validator: validate,
		latency:   latency,
		logger:    logger.With().Str("component", "quick_challenge_service").Logger(),
		now:       time.Now,
	}
}

func (s *quickChallengeService) Challenge() dto.QuickChallengeResponse {
	return dto.QuickChallengeResponse{
		Title:       quickChallengeTitle,
		Prompt:      quickChallengePrompt,
		StarterCode: quickChallengeStarter,
	}
}

func (s *quickChallengeService) Submit(ctx context.Context, sessionID string, payload dto.QuickSubmissionRequest) (dto.QuickSubmissionResponse, error) {
	if sessionID == "" {
		return dto.QuickSubmissionResponse{}, ErrSessionRequired
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.QuickSubmissionResponse{}, err
	}

	if strings.TrimSpace(payload.Source) == SolutionPlaceholder || !strings.Contains(payload.Source, quickChallengeFunction) {
		return dto.QuickSubmissionResponse{}, ErrIncompleteSolution
	}

	if s.latency > 0 {
		timer := time.NewTimer(s.latency)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return dto.QuickSubmissionResponse{}, ctx.Err()
		}
	}

	entry := session.SubmissionEntry{
		Source: payload.Source,
		Result: session.QuickResult{
			Passed:   quickAnswerAccepted(payload.Source),
			Feedback: quickChallengeFeedback,
		},
		Timestamp: s.now().UTC(),
	}
	if err := s.store.SaveSubmission(ctx, sessionID, entry); err != nil {
		return dto.QuickSubmissionResponse{}, err
	}

	s.logger.Debug().Bool("passed", entry.Result.Passed).Msg("quick challenge graded")
	return newQuickSubmissionResponse(entry), nil
}

func (s *quickChallengeService) LastResult(ctx context.Context, sessionID string) (dto.QuickSubmissionResponse, error) {
	if sessionID == "" {
		return dto.QuickSubmissionResponse{}, ErrNoSubmission
	}

	entry, err := s.store.LastSubmission(ctx, sessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return dto.QuickSubmissionResponse{}, ErrNoSubmission
		}
		return dto.QuickSubmissionResponse{}, err
	}
	return newQuickSubmissionResponse(entry), nil
}

func quickAnswerAccepted(source string) bool {
	for _, answer := range quickAcceptedAnswers {
		if strings.Contains(source, answer) {
			return true
		}
	}
	return false
}

func newQuickSubmissionResponse(entry session.SubmissionEntry) dto.QuickSubmissionResponse {
	summary := quickFailedSummary
	if entry.Result.Passed {
		summary = quickPassedSummary
	}
	return dto.QuickSubmissionResponse{
		Source:    entry.Source,
		Passed:    entry.Result.Passed,
		Feedback:  entry.Result.Feedback,
		Summary:   summary,
		Timestamp: entry.Timestamp,
	}
}
