package ai

import (
	"context"
	"encoding/json"
)

// Pass thresholds applied to each scoring dimension.
const (
	PassCorrectness = 7.0
	PassEfficiency  = 5.0
	PassQuality     = 5.0
)

// SubmissionInput carries the artefacts needed to assess a coding submission.
type SubmissionInput struct {
	SourceText  string
	ChallengeID string
}

// FeedbackRecord is the outcome of a single evaluation. The pass verdict is
// derived from the three scores and only materialised when serialised.
type FeedbackRecord struct {
	Correctness float64 `json:"correctness"`
	Efficiency  float64 `json:"efficiency"`
	Quality     float64 `json:"quality"`
	Feedback    string  `json:"feedback"`
}

// Passed reports whether all three scores meet their thresholds.
func (r FeedbackRecord) Passed() bool {
	return r.Correctness >= PassCorrectness && r.Efficiency >= PassEfficiency && r.Quality >= PassQuality
}

// Verdict returns a short label for metrics and logs.
func (r FeedbackRecord) Verdict() string {
	if r.Passed() {
		return "pass"
	}
	return "fail"
}

// MarshalJSON adds the derived passed flag to the encoded record.
func (r FeedbackRecord) MarshalJSON() ([]byte, error) {
	type record FeedbackRecord
	return json.Marshal(struct {
		record
		Passed bool `json:"passed"`
	}{
		record: record(r),
		Passed: r.Passed(),
	})
}

// Evaluator describes a component capable of grading code submissions.
//
// Evaluate blocks for the evaluator's latency and always returns a record.
// Submit starts the same work on its own goroutine and delivers exactly one
// record on the returned channel; callers may stop waiting at any time.
type Evaluator interface {
	Evaluate(ctx context.Context, input SubmissionInput) FeedbackRecord
	Submit(ctx context.Context, input SubmissionInput) <-chan FeedbackRecord
}
