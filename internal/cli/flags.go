package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/craigtrim/persona-api/internal/domain"
	"github.com/spf13/cobra"
)

var (
	joinedDomainFlag = regexp.MustCompile(`--([ACENO])(\d+)`)
	lowerDomainFlag  = regexp.MustCompile(`(?:^|\s|')--?([acneo])(?:$|\s|'|=)`)
)

// domainFlagHint suggests a fix for the usual domain-flag typos, or returns ""
// when the error is something else.
func domainFlagHint(err error) string {
	msg := err.Error()
	if m := joinedDomainFlag.FindStringSubmatch(msg); m != nil {
		return fmt.Sprintf("Did you mean '--%s %s' (with a space)?", m[1], m[2])
	}
	if m := lowerDomainFlag.FindStringSubmatch(msg); m != nil {
		return fmt.Sprintf("Domain flags must be uppercase. Use '--%s' instead of '--%s'.", strings.ToUpper(m[1]), m[1])
	}
	return ""
}

func domainFlagErrorFunc(cmd *cobra.Command, err error) error {
	if hint := domainFlagHint(err); hint != "" {
		return fmt.Errorf("%w\n%s", err, hint)
	}
	return err
}

// parseDomainArg accepts a domain name or its letter.
func parseDomainArg(s string) (domain.Domain, error) {
	if d, ok := domain.ParseLetter(strings.ToUpper(s)); ok && len(s) == 1 {
		return d, nil
	}
	if d, ok := domain.ParseDomain(strings.ToLower(s)); ok {
		return d, nil
	}
	return "", fmt.Errorf("unknown domain %q (want one of extraversion, agreeableness, conscientiousness, negative_emotionality, open_mindedness)", s)
}

// parseScoreArg parses a 1-5 score.
func parseScoreArg(name, s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || !domain.ValidScore(n) {
		return 0, fmt.Errorf("%s must be an integer between 1 and 5, got %q", name, s)
	}
	return n, nil
}

// parseAllScores parses "E,A,C,N,O" scores in canonical domain order.
func parseAllScores(s string) (map[domain.Domain]int, error) {
	parts := strings.Split(s, ",")
	if len(parts) != len(domain.Domains) {
		return nil, fmt.Errorf("--all needs exactly %d comma-separated scores (E,A,C,N,O), got %d", len(domain.Domains), len(parts))
	}
	out := make(map[domain.Domain]int, len(parts))
	for i, p := range parts {
		d := domain.Domains[i]
		n, err := parseScoreArg(string(d), p)
		if err != nil {
			return nil, err
		}
		out[d] = n
	}
	return out, nil
}

func parseCoherence(n int, allowAny bool) (domain.Coherence, error) {
	c := domain.Coherence(n)
	if c.Valid() || (allowAny && c == domain.CoherenceAny) {
		return c, nil
	}
	if allowAny {
		return 0, fmt.Errorf("coherence must be between 0 and 3, got %d", n)
	}
	return 0, fmt.Errorf("coherence must be between 1 and 3, got %d", n)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
