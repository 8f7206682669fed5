package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestScoreJSONFromStdin(t *testing.T) {
	out, err := execute(t, "def find_max(numbers):\n    return max(numbers)\n", "score", "--json", "--seed", "11")
	require.NoError(t, err)

	var record struct {
		Correctness float64 `json:"correctness"`
		Efficiency  float64 `json:"efficiency"`
		Quality     float64 `json:"quality"`
		Feedback    string  `json:"feedback"`
		Passed      bool    `json:"passed"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &record))
	require.GreaterOrEqual(t, record.Correctness, 5.0)
	require.LessOrEqual(t, record.Quality, 10.0)
	require.NotEmpty(t, record.Feedback)
}

func TestScoreIsReproducibleWithSeed(t *testing.T) {
	source := "def f(x):\n    # doc\n    for a in x:\n        for b in x:\n            print(a, b)\n"
	first, err := execute(t, source, "score", "--json", "--seed", "99")
	require.NoError(t, err)
	second, err := execute(t, source, "score", "--json", "--seed", "99")
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestScoreReportFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "solution.py")
	require.NoError(t, os.WriteFile(path, []byte("def is_valid(s):\n    stack = []\n    return not stack\n"), 0o600))

	out, err := execute(t, "", "score", path, "--challenge", "2", "--seed", "5")
	require.NoError(t, err)
	require.Contains(t, out, "Valid Parentheses (Easy)")
	require.Contains(t, out, "Correctness:")
	require.Contains(t, out, "Verdict:")
	require.Contains(t, out, "Feedback")
}

func TestScoreRejectsPlaceholderAndUnknownChallenge(t *testing.T) {
	_, err := execute(t, "# Your solution here\n\n", "score")
	require.ErrorIs(t, err, errEmptySource)

	_, err = execute(t, "x = 1", "score", "--challenge", "404")
	require.ErrorContains(t, err, "unknown challenge")

	_, err = execute(t, "", "score", filepath.Join(t.TempDir(), "missing.py"))
	require.ErrorContains(t, err, "read source")
}

func TestChallengesListing(t *testing.T) {
	out, err := execute(t, "", "challenges")
	require.NoError(t, err)
	require.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 4)
	require.Contains(t, out, "Detect Cycle in Linked List")

	easy, err := execute(t, "", "challenges", "--difficulty", "easy")
	require.NoError(t, err)
	require.NotContains(t, easy, "Find Maximum Subarray Sum")
	require.Contains(t, easy, "Binary Search Implementation")

	_, err = execute(t, "", "challenges", "--difficulty", "extreme")
	require.Error(t, err)
}
