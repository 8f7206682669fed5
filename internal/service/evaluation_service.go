package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/gema-code-review/internal/dto"
	"github.com/noah-isme/gema-code-review/internal/observability"
	"github.com/noah-isme/gema-code-review/internal/repository"
	"github.com/noah-isme/gema-code-review/internal/session"
	"github.com/noah-isme/gema-code-review/pkg/ai"
)

const (
	// SolutionPlaceholder is the comment pre-filled in the editor.
	SolutionPlaceholder = "# Your solution here"
	// ChallengeStarterCode is the editor content offered for a catalog challenge.
	ChallengeStarterCode = SolutionPlaceholder + "\n\n"
	// SubmissionEntryPath is where users land to write a new submission.
	SubmissionEntryPath = "/api/v1/evaluations/new"
	// CatalogPath lists the available challenges.
	CatalogPath = "/api/v1/challenges"
)

var (
	// ErrEmptySubmission indicates the source is blank or still the placeholder.
	ErrEmptySubmission = errors.New("empty submission")
	// ErrSubmissionInProgress indicates the session already awaits an evaluation.
	ErrSubmissionInProgress = errors.New("submission already in progress")
	// ErrNoEvaluation indicates the session has no stored evaluation.
	ErrNoEvaluation = errors.New("no evaluation available")
	// ErrSessionRequired indicates the request carries no session identifier.
	ErrSessionRequired = errors.New("session required")
)

// EvaluationService drives the submit and feedback screens.
type EvaluationService interface {
	Starter(ctx context.Context, challengeID string) (dto.SubmissionStarterResponse, error)
	Submit(ctx context.Context, sessionID string, payload dto.EvaluationRequest) (dto.EvaluationResponse, error)
	LastEvaluation(ctx context.Context, sessionID string) (dto.EvaluationResponse, error)
	ClearSession(ctx context.Context, sessionID string) error
}

type evaluationService struct {
	challenges repository.ChallengeRepository
	evaluator  ai.Evaluator
	store      session.Store
	publisher  EvaluationPublisher
	validator  *validator.Validate
	logger     zerolog.Logger
	tracer     trace.Tracer
	inFlight   *xsync.MapOf[string, struct{}]
	now        func() time.Time
}

// NewEvaluationService constructs the evaluation service. publisher may be nil.
func NewEvaluationService(challenges repository.ChallengeRepository, evaluator ai.Evaluator, store session.Store, publisher EvaluationPublisher, validate *validator.Validate, logger zerolog.Logger) EvaluationService {
	return &evaluationService{
		challenges: challenges,
		evaluator:  evaluator,
		store:      store,
		publisher:  publisher,
		validator:  validate,
		logger:     logger.With().Str("component", "evaluation_service").Logger(),
		tracer:     otel.Tracer("github.com/noah-isme/gema-code-review/internal/service/evaluation"),
		inFlight:   xsync.NewMapOf[string, struct{}](),
		now:        time.Now,
	}
}

func (s *evaluationService) Starter(ctx context.Context, challengeID string) (dto.SubmissionStarterResponse, error) {
	if strings.TrimSpace(challengeID) == "" {
		return dto.SubmissionStarterResponse{}, nil
	}

	challenge, err := findChallenge(ctx, s.challenges, challengeID)
	if err != nil {
		return dto.SubmissionStarterResponse{}, err
	}

	response := dto.NewChallengeResponse(challenge, false)
	return dto.SubmissionStarterResponse{
		Challenge:   &response,
		StarterCode: ChallengeStarterCode,
	}, nil
}

func (s *evaluationService) Submit(ctx context.Context, sessionID string, payload dto.EvaluationRequest) (dto.EvaluationResponse, error) {
	if sessionID == "" {
		return dto.EvaluationResponse{}, ErrSessionRequired
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.EvaluationResponse{}, err
	}

	trimmed := strings.TrimSpace(payload.Source)
	if trimmed == "" || trimmed == SolutionPlaceholder {
		observability.EvaluationsRejected().WithLabelValues("empty").Inc()
		return dto.EvaluationResponse{}, ErrEmptySubmission
	}

	challengeID := strings.TrimSpace(payload.ChallengeID)
	ctx, span := s.tracer.Start(ctx, "evaluations.submit", trace.WithAttributes(
		attribute.String("challenge_id", challengeID),
	))
	defer span.End()

	var challenge *dto.ChallengeResponse
	if challengeID != "" {
		model, err := findChallenge(ctx, s.challenges, challengeID)
		if err != nil {
			if errors.Is(err, ErrChallengeNotFound) {
				observability.EvaluationsRejected().WithLabelValues("unknown_challenge").Inc()
			}
			span.RecordError(err)
			return dto.EvaluationResponse{}, err
		}
		response := dto.NewChallengeResponse(model, false)
		challenge = &response
	}

	if _, busy := s.inFlight.LoadOrStore(sessionID, struct{}{}); busy {
		observability.EvaluationsRejected().WithLabelValues("in_progress").Inc()
		return dto.EvaluationResponse{}, ErrSubmissionInProgress
	}
	defer s.inFlight.Delete(sessionID)

	pending := s.evaluator.Submit(ctx, ai.SubmissionInput{SourceText: payload.Source, ChallengeID: challengeID})

	var record ai.FeedbackRecord
	select {
	case record = <-pending:
	case <-ctx.Done():
		s.logger.Info().Str("challenge_id", challengeID).Msg("evaluation abandoned by caller")
		return dto.EvaluationResponse{}, ctx.Err()
	}

	entry := session.EvaluationEntry{
		Source:    payload.Source,
		Challenge: challenge,
		Result:    record,
		Timestamp: s.now().UTC(),
	}
	if err := s.store.SaveEvaluation(ctx, sessionID, entry); err != nil {
		span.RecordError(err)
		return dto.EvaluationResponse{}, fmt.Errorf("store evaluation: %w", err)
	}

	challengeLabel := challengeID
	if challengeLabel == "" {
		challengeLabel = "none"
	}
	observability.Evaluations().WithLabelValues(record.Verdict(), challengeLabel).Inc()
	span.SetAttributes(attribute.Bool("passed", record.Passed()))

	s.publish(ctx, challengeID, entry)

	return newEvaluationResponse(entry), nil
}

func (s *evaluationService) LastEvaluation(ctx context.Context, sessionID string) (dto.EvaluationResponse, error) {
	if sessionID == "" {
		return dto.EvaluationResponse{}, ErrNoEvaluation
	}

	entry, err := s.store.LastEvaluation(ctx, sessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return dto.EvaluationResponse{}, ErrNoEvaluation
		}
		return dto.EvaluationResponse{}, err
	}

	return newEvaluationResponse(entry), nil
}

func (s *evaluationService) ClearSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return ErrSessionRequired
	}
	return s.store.Clear(ctx, sessionID)
}

func (s *evaluationService) publish(ctx context.Context, challengeID string, entry session.EvaluationEntry) {
	if s.publisher == nil {
		return
	}

	event := EvaluationEvent{
		ID:          uuid.NewString(),
		Type:        EvaluationEventType,
		ChallengeID: challengeID,
		Correctness: entry.Result.Correctness,
		Efficiency:  entry.Result.Efficiency,
		Quality:     entry.Result.Quality,
		Passed:      entry.Result.Passed(),
		OccurredAt:  entry.Timestamp,
	}
	if err := s.publisher.PublishEvaluation(ctx, event); err != nil {
		observability.EvaluationEvents().WithLabelValues("failed").Inc()
		s.logger.Warn().Err(err).Msg("failed to publish evaluation event")
		return
	}
	observability.EvaluationEvents().WithLabelValues("published").Inc()
}

func newEvaluationResponse(entry session.EvaluationEntry) dto.EvaluationResponse {
	return dto.EvaluationResponse{
		Source:    entry.Source,
		Challenge: entry.Challenge,
		Result:    entry.Result,
		Timestamp: entry.Timestamp,
		RetryPath: retryPath(entry.Challenge),
	}
}

func retryPath(challenge *dto.ChallengeResponse) string {
	if challenge == nil || challenge.ID == "" {
		return SubmissionEntryPath
	}
	return SubmissionEntryPath + "?challenge=" + url.QueryEscape(challenge.ID)
}
