package extract

import (
	"regexp"
	"strings"
)

// TestCase is one generated test file pulled out of LLM output.
// Filename is taken verbatim from the marker attribute; path safety is
// the sandbox's concern, not ours.
type TestCase struct {
	Filename string `json:"filename"`
	Code     string `json:"code"`
}

var testFileRe = regexp.MustCompile(`(?s)<TEST_FILE filename="([^"]+)">(.*?)</TEST_FILE>`)

// TestCases scans raw LLM output for <TEST_FILE filename="...">...</TEST_FILE>
// blocks and returns them in source order with the body trimmed of
// surrounding whitespace. Text without any markers yields an empty slice.
func TestCases(raw string) []TestCase {
	matches := testFileRe.FindAllStringSubmatch(raw, -1)
	cases := make([]TestCase, 0, len(matches))
	for _, m := range matches {
		cases = append(cases, TestCase{
			Filename: m[1],
			Code:     strings.TrimSpace(m[2]),
		})
	}
	return cases
}
