package llm

import (
	"fmt"
	"strings"
)

// preambles are lead-ins small models put before the text they were asked to
// write "with no explanation or commentary".
var preambles = []string{
	"here is",
	"here's",
	"sure,",
	"sure!",
	"certainly",
	"system prompt:",
}

// CleanCompletion extracts the usable prose from raw model output. It handles
// markdown code fences, a single lead-in line ending in a colon, and wrapping
// quotes. Output that is empty after cleaning is ErrInvalidOutput.
func CleanCompletion(raw string) (string, error) {
	s := strings.TrimSpace(stripCodeFences(raw))
	s = stripPreamble(s)
	s = stripWrappingQuotes(s)
	if s == "" {
		return "", fmt.Errorf("%w: completion is empty after cleanup", ErrInvalidOutput)
	}
	return s, nil
}

// stripCodeFences removes markdown code fence lines (```text ... ```),
// keeping the fenced content.
func stripCodeFences(s string) string {
	lines := strings.Split(s, "\n")
	result := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		result = append(result, line)
	}
	return strings.Join(result, "\n")
}

func stripPreamble(s string) string {
	first, rest, found := strings.Cut(s, "\n")
	if !found {
		return s
	}
	head := strings.ToLower(strings.TrimSpace(first))
	if !strings.HasSuffix(head, ":") {
		return s
	}
	for _, p := range preambles {
		if strings.HasPrefix(head, p) {
			return strings.TrimSpace(rest)
		}
	}
	return s
}

func stripWrappingQuotes(s string) string {
	for _, q := range []string{`"`, "“"} {
		closing := q
		if q == "“" {
			closing = "”"
		}
		if len(s) >= len(q)+len(closing) && strings.HasPrefix(s, q) && strings.HasSuffix(s, closing) {
			inner := s[len(q) : len(s)-len(closing)]
			if !strings.Contains(inner, q) {
				return strings.TrimSpace(inner)
			}
		}
	}
	return s
}
