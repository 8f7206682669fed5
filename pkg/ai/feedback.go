package ai

import (
	"fmt"
	"strings"
)

const feedbackSeparator = "\n\n"

// Scores groups the three numeric dimensions of an assessment.
type Scores struct {
	Correctness float64
	Efficiency  float64
	Quality     float64
}

// Passed applies the pass thresholds.
func (s Scores) Passed() bool {
	return FeedbackRecord{Correctness: s.Correctness, Efficiency: s.Efficiency, Quality: s.Quality}.Passed()
}

// BuildFeedback renders the feedback prose for a set of scores. The output
// depends only on its arguments.
func BuildFeedback(ind Indicators, scores Scores) string {
	parts := make([]string, 0, 10)

	switch {
	case scores.Correctness >= 8:
		parts = append(parts, "Your solution is correct and handles the requirements well.")
	case scores.Correctness >= 5:
		parts = append(parts, "Your solution is partially correct but may not handle all edge cases.")
	default:
		parts = append(parts, "Your solution has significant correctness issues and doesn't meet the requirements.")
	}

	if !ind.HasFunctionDef {
		parts = append(parts, "Consider structuring your code into functions for better organization and reusability.")
	}
	if !ind.HasConditional && ind.Length > 50 {
		parts = append(parts, "Add input validation to handle unexpected inputs gracefully.")
	}

	switch {
	case scores.Efficiency >= 8:
		parts = append(parts, "Your code demonstrates good efficiency with appropriate algorithms and data structures.")
	case scores.Efficiency >= 5:
		parts = append(parts, "Your solution works but could be optimized for better performance.")
	default:
		parts = append(parts, "Your solution has efficiency concerns that should be addressed.")
	}

	if ind.NestedLoopCount > 0 {
		parts = append(parts, fmt.Sprintf("Your code contains %d nested loops, which may lead to O(n²) or worse time complexity. Consider if there's a more efficient approach.", ind.NestedLoopCount))
	}
	if !ind.CallsSetOrDict && ind.HasLoopKeyword {
		parts = append(parts, "Consider using more efficient data structures like sets or dictionaries for lookups.")
	}

	switch {
	case scores.Quality >= 8:
		parts = append(parts, "Your code is well-structured, readable, and follows good practices.")
	case scores.Quality >= 5:
		parts = append(parts, "Your code is reasonably well-structured but could benefit from improved documentation and organization.")
	default:
		parts = append(parts, "Your code would benefit significantly from better organization, documentation, and adherence to coding standards.")
	}

	if !ind.HasComments && !ind.HasDocstring {
		parts = append(parts, "Add comments or docstrings to explain your approach and help others understand your code.")
	}
	if ind.HasPrintCall && !ind.HasMainGuard {
		parts = append(parts, "Consider using a main function or guard clause to make your code more reusable as a module.")
	}

	if scores.Passed() {
		parts = append(parts, "Overall, your solution is successful and demonstrates good coding practices.")
	} else {
		parts = append(parts, "Overall, your solution needs improvement in the areas mentioned above before it can be considered complete.")
	}

	return strings.Join(parts, feedbackSeparator)
}
