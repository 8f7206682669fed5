package ai

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type sequenceSource struct {
	values []float64
	next   int
}

func (s *sequenceSource) Float64() float64 {
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

func fixed(values ...float64) *sequenceSource {
	return &sequenceSource{values: values}
}

const validatedSolution = `# Compute the maximum of a list
def safe_max(values):
    # Guard against empty input
    if not values:
        return None
    try:
        return max(values)
    except TypeError:
        raise ValueError("values must be comparable")
`

const nestedLoopSolution = `def pairs(items):
    for a in items:
        for b in items:
            print(a, b)
`

const documentedModule = `# Entry point helpers
def greet(name):
    """Return a greeting."""
    return "hello " + name


if __name__ == "__main__":
    print(greet("gema"))
`

func sentences(record FeedbackRecord) []string {
	return strings.Split(record.Feedback, feedbackSeparator)
}

func TestAssessEmptySource(t *testing.T) {
	record := Assess(PatternDetector{}, "", fixed(0.5, 0.5, 0.5))

	require.InDelta(t, 3.0, record.Correctness, 1e-9)
	require.InDelta(t, 5.5, record.Efficiency, 1e-9)
	require.InDelta(t, 3.75, record.Quality, 1e-9)
	require.False(t, record.Passed())

	require.Equal(t, []string{
		"Your solution has significant correctness issues and doesn't meet the requirements.",
		"Consider structuring your code into functions for better organization and reusability.",
		"Your solution works but could be optimized for better performance.",
		"Your code would benefit significantly from better organization, documentation, and adherence to coding standards.",
		"Add comments or docstrings to explain your approach and help others understand your code.",
		"Overall, your solution needs improvement in the areas mentioned above before it can be considered complete.",
	}, sentences(record))
}

func TestAssessValidatedFunctionReachesTopCorrectnessBucket(t *testing.T) {
	record := Assess(PatternDetector{}, validatedSolution, fixed(0, 0.25, 0))

	require.InDelta(t, 8.5, record.Correctness, 1e-9)
	require.Contains(t, record.Feedback, "Your solution is correct and handles the requirements well.")
	require.NotContains(t, record.Feedback, "nested loops")
}

func TestAssessCapsCorrectnessAtTen(t *testing.T) {
	record := Assess(PatternDetector{}, validatedSolution, fixed(1, 0, 0))
	require.Equal(t, 10.0, record.Correctness)
}

func TestAssessNestedLoopPenalty(t *testing.T) {
	record := Assess(PatternDetector{}, nestedLoopSolution, fixed(0, 0.25, 0))

	// 5 - 0.8 and a zero perturbation (0.25*2 - 0.5).
	require.InDelta(t, 4.2, record.Efficiency, 1e-9)
	require.Contains(t, record.Feedback, "Your code contains 1 nested loops, which may lead to O(n²) or worse time complexity.")
	require.Contains(t, record.Feedback, "Consider using more efficient data structures like sets or dictionaries for lookups.")
	require.Contains(t, record.Feedback, "Consider using a main function or guard clause to make your code more reusable as a module.")
	require.Contains(t, record.Feedback, "Your solution has efficiency concerns that should be addressed.")
}

func TestAssessSetUsageBonus(t *testing.T) {
	source := "def unique(items):\n    return list(set(items))\n"
	record := Assess(PatternDetector{}, source, fixed(0, 0.25, 0))

	require.InDelta(t, 6.5, record.Efficiency, 1e-9)
	require.NotContains(t, record.Feedback, "nested loops")
	require.NotContains(t, record.Feedback, "sets or dictionaries")
}

func TestAssessDocumentedModuleQuality(t *testing.T) {
	record := Assess(PatternDetector{}, documentedModule, fixed(0, 0.25, 0))

	// 3 + 1.5 comments + 2 docstring + 1 guard + 1 length.
	require.InDelta(t, 8.5, record.Quality, 1e-9)
	require.Contains(t, record.Feedback, "Your code is well-structured, readable, and follows good practices.")
	require.NotContains(t, record.Feedback, "main function or guard clause")
	require.NotContains(t, record.Feedback, "Add comments or docstrings")
}

func TestAssessClampsLowEfficiency(t *testing.T) {
	ind := Indicators{NestedLoopCount: 10}
	scores := ScoreIndicators(ind, fixed(0, 0, 0))
	require.Equal(t, 1.0, scores.Efficiency)
}

func TestAssessInputValidationSuggestion(t *testing.T) {
	source := strings.Repeat("x = 1\n", 10)
	record := Assess(PatternDetector{}, source, fixed(0.5))
	require.Contains(t, record.Feedback, "Add input validation to handle unexpected inputs gracefully.")

	short := Assess(PatternDetector{}, "x = 1", fixed(0.5))
	require.NotContains(t, short.Feedback, "Add input validation")
}

func TestAssessPassingSubmission(t *testing.T) {
	record := Assess(PatternDetector{}, documentedModule+validatedSolution, fixed(0.9, 0.9, 0.9))

	require.True(t, record.Passed())
	require.Equal(t, "pass", record.Verdict())
	parts := sentences(record)
	require.Equal(t, "Overall, your solution is successful and demonstrates good coding practices.", parts[len(parts)-1])
}

func TestAssessPropertiesHoldForSeededInputs(t *testing.T) {
	inputs := []string{"", "print('hi')", validatedSolution, nestedLoopSolution, documentedModule, "for for for for", strings.Repeat("def f():\n", 50)}
	rnd := NewSeededSource(42)

	for i := 0; i < 200; i++ {
		source := inputs[i%len(inputs)]
		record := Assess(PatternDetector{}, source, rnd)

		require.GreaterOrEqual(t, record.Efficiency, 1.0)
		require.LessOrEqual(t, record.Efficiency, 10.0)
		require.GreaterOrEqual(t, record.Quality, 1.0)
		require.LessOrEqual(t, record.Quality, 10.0)

		if strings.Contains(source, "def ") {
			require.GreaterOrEqual(t, record.Correctness, 5.0)
			require.LessOrEqual(t, record.Correctness, 10.0)
		} else {
			require.GreaterOrEqual(t, record.Correctness, 1.0)
			require.Less(t, record.Correctness, 5.0)
			require.False(t, record.Passed())
		}

		expected := record.Correctness >= 7 && record.Efficiency >= 5 && record.Quality >= 5
		require.Equal(t, expected, record.Passed())

		ind := ExtractIndicators(source)
		require.Equal(t, BuildFeedback(ind, Scores{record.Correctness, record.Efficiency, record.Quality}), record.Feedback)
	}
}

func TestSeededSourceIsReproducible(t *testing.T) {
	a := Assess(PatternDetector{}, validatedSolution, NewSeededSource(7))
	b := Assess(PatternDetector{}, validatedSolution, NewSeededSource(7))
	require.Equal(t, a, b)
}

func TestFeedbackRecordJSONIncludesPassed(t *testing.T) {
	record := FeedbackRecord{Correctness: 8, Efficiency: 6, Quality: 5, Feedback: "ok"}

	payload, err := json.Marshal(record)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(payload, &decoded))
	require.Equal(t, true, decoded["passed"])
	require.Equal(t, 8.0, decoded["correctness"])

	var roundTrip FeedbackRecord
	require.NoError(t, json.Unmarshal(payload, &roundTrip))
	require.Equal(t, record, roundTrip)
}

func TestHeuristicEvaluatorAppliesLatency(t *testing.T) {
	evaluator := NewHeuristicEvaluator(HeuristicConfig{Latency: 250 * time.Millisecond, Random: fixed(0.5), Logger: zerolog.Nop()})
	var slept time.Duration
	evaluator.sleep = func(d time.Duration) { slept = d }

	record := evaluator.Evaluate(context.Background(), SubmissionInput{SourceText: "", ChallengeID: "missing"})
	require.Equal(t, 250*time.Millisecond, slept)
	require.InDelta(t, 3.0, record.Correctness, 1e-9)
}

func TestHeuristicEvaluatorSubmitDeliversOnce(t *testing.T) {
	evaluator := NewHeuristicEvaluator(HeuristicConfig{Latency: 10 * time.Millisecond, Random: NewSeededSource(1)})

	ctx, cancel := context.WithCancel(context.Background())
	pending := evaluator.Submit(ctx, SubmissionInput{SourceText: validatedSolution})
	cancel()

	select {
	case record, ok := <-pending:
		require.True(t, ok)
		require.GreaterOrEqual(t, record.Correctness, 5.0)
	case <-time.After(2 * time.Second):
		t.Fatal("evaluation did not complete")
	}

	_, ok := <-pending
	require.False(t, ok)
}

func TestHeuristicEvaluatorNegativeLatencyIsIgnored(t *testing.T) {
	evaluator := NewHeuristicEvaluator(HeuristicConfig{Latency: -time.Second})
	require.Zero(t, evaluator.Latency())
}
