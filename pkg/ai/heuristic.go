package ai

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// DefaultLatency mimics the round trip of a remote grading service.
const DefaultLatency = 1500 * time.Millisecond

// ScoreIndicators turns indicators into scores. Random draws happen in a fixed
// order: correctness, efficiency, quality.
func ScoreIndicators(ind Indicators, rnd RandomSource) Scores {
	return Scores{
		Correctness: scoreCorrectness(ind, rnd),
		Efficiency:  scoreEfficiency(ind, rnd),
		Quality:     scoreQuality(ind, rnd),
	}
}

// Assess runs detection, scoring and feedback generation without any latency.
func Assess(detector Detector, source string, rnd RandomSource) FeedbackRecord {
	ind := detector.Detect(source)
	scores := ScoreIndicators(ind, rnd)
	return FeedbackRecord{
		Correctness: scores.Correctness,
		Efficiency:  scores.Efficiency,
		Quality:     scores.Quality,
		Feedback:    BuildFeedback(ind, scores),
	}
}

func scoreCorrectness(ind Indicators, rnd RandomSource) float64 {
	if !ind.HasFunctionDef {
		return rnd.Float64()*4 + 1
	}

	score := 5.0
	if ind.HasInputValidation {
		score += 2
	}
	if ind.HasExceptionHandling {
		score += 1.5
	}
	score += rnd.Float64() * 1.5

	return math.Min(10, score)
}

func scoreEfficiency(ind Indicators, rnd RandomSource) float64 {
	score := 5.0
	if ind.NestedLoopCount > 0 {
		score -= float64(ind.NestedLoopCount) * 0.8
	}
	if ind.UsesSetOrDict {
		score += 1.5
	}
	score += rnd.Float64()*2 - 0.5

	return clamp(score, 1, 10)
}

func scoreQuality(ind Indicators, rnd RandomSource) float64 {
	score := 3.0
	if ind.HasComments {
		score += 1.5
	}
	if ind.HasDocstring {
		score += 2
	}
	if ind.HasMainGuard {
		score += 1
	}
	if ind.LineCount > 5 {
		score += 1
	}
	score += rnd.Float64() * 1.5

	return clamp(score, 1, 10)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// HeuristicConfig defines configuration options for the heuristic evaluator.
type HeuristicConfig struct {
	Latency  time.Duration
	Random   RandomSource
	Detector Detector
	Logger   zerolog.Logger
}

// HeuristicEvaluator grades submissions from textual patterns. It stands in
// for a remote AI reviewer, latency included.
type HeuristicEvaluator struct {
	cfg    HeuristicConfig
	tracer trace.Tracer
	logger zerolog.Logger
	sleep  func(time.Duration)
}

// NewHeuristicEvaluator builds a new evaluator using the provided configuration.
func NewHeuristicEvaluator(cfg HeuristicConfig) *HeuristicEvaluator {
	if cfg.Latency < 0 {
		cfg.Latency = 0
	}
	if cfg.Random == nil {
		cfg.Random = DefaultRandomSource()
	}
	if cfg.Detector == nil {
		cfg.Detector = PatternDetector{}
	}

	return &HeuristicEvaluator{
		cfg:    cfg,
		tracer: otel.Tracer("github.com/noah-isme/gema-code-review/pkg/ai/heuristic"),
		logger: cfg.Logger.With().Str("component", "heuristic_evaluator").Logger(),
		sleep:  time.Sleep,
	}
}

// Latency returns the simulated latency applied to every call.
func (e *HeuristicEvaluator) Latency() time.Duration {
	return e.cfg.Latency
}

// Evaluate waits for the simulated latency and grades the submission. The
// wait is not interrupted by ctx; it only carries the trace.
func (e *HeuristicEvaluator) Evaluate(parent context.Context, input SubmissionInput) FeedbackRecord {
	_, span := e.tracer.Start(parent, "ai.heuristic.evaluate", trace.WithAttributes(
		attribute.String("challenge_id", input.ChallengeID),
		attribute.Int("source_bytes", len(input.SourceText)),
	))
	defer span.End()

	start := time.Now()
	if e.cfg.Latency > 0 {
		e.sleep(e.cfg.Latency)
	}

	record := Assess(e.cfg.Detector, input.SourceText, e.cfg.Random)
	observeEvaluation(record, time.Since(start))

	span.SetAttributes(
		attribute.Float64("correctness", record.Correctness),
		attribute.Float64("efficiency", record.Efficiency),
		attribute.Float64("quality", record.Quality),
		attribute.Bool("passed", record.Passed()),
	)

	e.logger.Debug().
		Str("challenge_id", input.ChallengeID).
		Float64("correctness", record.Correctness).
		Float64("efficiency", record.Efficiency).
		Float64("quality", record.Quality).
		Bool("passed", record.Passed()).
		Msg("submission graded")

	return record
}

// Submit runs Evaluate on a new goroutine. The channel is buffered so the
// evaluation finishes even when nobody receives the result.
func (e *HeuristicEvaluator) Submit(ctx context.Context, input SubmissionInput) <-chan FeedbackRecord {
	result := make(chan FeedbackRecord, 1)
	detached := context.WithoutCancel(ctx)
	go func() {
		defer close(result)
		result <- e.Evaluate(detached, input)
	}()
	return result
}
