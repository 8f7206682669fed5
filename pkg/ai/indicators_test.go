package ai

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractIndicatorsEmpty(t *testing.T) {
	ind := ExtractIndicators("")

	require.Equal(t, Indicators{LineCount: 1}, ind)
}

func TestExtractIndicatorsValidatedSolution(t *testing.T) {
	ind := ExtractIndicators(validatedSolution)

	require.True(t, ind.HasFunctionDef)
	require.True(t, ind.HasComments)
	require.True(t, ind.HasExceptionHandling)
	require.True(t, ind.HasConditional)
	require.True(t, ind.HasInputValidation)
	require.False(t, ind.HasLoopKeyword)
	require.Zero(t, ind.NestedLoopCount)
	require.Equal(t, 10, ind.LineCount)
}

func TestExtractIndicatorsNestedLoopHeuristic(t *testing.T) {
	cases := []struct {
		name   string
		source string
		count  int
	}{
		{name: "single loop", source: "for x in xs:\n    pass", count: 0},
		{name: "two loops", source: nestedLoopSolution, count: 1},
		{name: "three loops collapse into one greedy match", source: "for a in x:\n for b in y:\n  for c in z:\n   pass", count: 1},
		{name: "unrelated words still match", source: "format the value before returning", count: 1},
		{name: "same line", source: "for for", count: 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.count, ExtractIndicators(tc.source).NestedLoopCount)
		})
	}
}

func TestExtractIndicatorsMainGuardQuoting(t *testing.T) {
	require.True(t, ExtractIndicators(`if __name__ == "__main__":`).HasMainGuard)
	require.True(t, ExtractIndicators(`if __name__ == '__main__':`).HasMainGuard)
	require.False(t, ExtractIndicators(`if __name__ == main:`).HasMainGuard)
}

func TestExtractIndicatorsSetOrDict(t *testing.T) {
	require.True(t, ExtractIndicators("seen = set()").CallsSetOrDict)
	require.True(t, ExtractIndicators("d = dict(a=1)").UsesSetOrDict)

	literal := ExtractIndicators("lookup = {}")
	require.True(t, literal.UsesSetOrDict)
	require.False(t, literal.CallsSetOrDict)
}

func TestExtractIndicatorsLengthCountsUTF16Units(t *testing.T) {
	require.Equal(t, 1, ExtractIndicators("é").Length)
	require.Equal(t, 2, ExtractIndicators("😀").Length)
	require.Equal(t, 3, ExtractIndicators("é😀").Length)
}
