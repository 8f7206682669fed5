package ai

import (
	"regexp"
	"strings"
	"unicode/utf16"
)

// nestedLoopPattern is a crude proxy for nested loops: any two loop keywords
// with anything (newlines included) in between. The greedy match means a text
// yields at most one match; that behaviour is intentional.
var nestedLoopPattern = regexp.MustCompile(`(?s)for.*for`)

// Indicators are shallow textual signals used as proxies for code quality.
type Indicators struct {
	HasFunctionDef       bool `json:"has_function_def"`
	HasComments          bool `json:"has_comments"`
	HasDocstring         bool `json:"has_docstring"`
	HasMainGuard         bool `json:"has_main_guard"`
	HasExceptionHandling bool `json:"has_exception_handling"`
	HasConditional       bool `json:"has_conditional"`
	HasInputValidation   bool `json:"has_input_validation"`
	NestedLoopCount      int  `json:"nested_loop_count"`
	UsesSetOrDict        bool `json:"uses_set_or_dict"`
	CallsSetOrDict       bool `json:"calls_set_or_dict"`
	HasLoopKeyword       bool `json:"has_loop_keyword"`
	HasPrintCall         bool `json:"has_print_call"`
	LineCount            int  `json:"line_count"`
	Length               int  `json:"length"`
}

// Detector extracts indicators from submitted source text.
type Detector interface {
	Detect(source string) Indicators
}

// PatternDetector matches substrings and a single regular expression. It is
// tuned for Python-looking submissions.
type PatternDetector struct{}

// Detect implements Detector.
func (PatternDetector) Detect(source string) Indicators {
	has := func(s string) bool { return strings.Contains(source, s) }

	ind := Indicators{
		HasFunctionDef:       has("def "),
		HasComments:          has("#"),
		HasDocstring:         has(`"""`) || has("'''"),
		HasMainGuard:         has(`if __name__ == "__main__"`) || has(`if __name__ == '__main__'`),
		HasExceptionHandling: has("try") && has("except"),
		HasConditional:       has("if"),
		NestedLoopCount:      len(nestedLoopPattern.FindAllStringIndex(source, -1)),
		CallsSetOrDict:       has("set(") || has("dict("),
		HasLoopKeyword:       has("for"),
		HasPrintCall:         has("print("),
		LineCount:            strings.Count(source, "\n") + 1,
		Length:               utf16Length(source),
	}
	ind.HasInputValidation = ind.HasConditional && (has("raise") || has("return"))
	ind.UsesSetOrDict = ind.CallsSetOrDict || has("{}")

	return ind
}

// ExtractIndicators runs the default detector.
func ExtractIndicators(source string) Indicators {
	return PatternDetector{}.Detect(source)
}

// utf16Length counts UTF-16 code units, the unit browsers use for string length.
func utf16Length(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}
