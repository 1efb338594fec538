package formatter

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/craigtrim/persona-api/internal/app"
	"github.com/craigtrim/persona-api/internal/domain"
	"github.com/craigtrim/persona-api/internal/profile"
)

// GenerateJSON is the --json rendering of a generated profile.
type GenerateJSON struct {
	Seed          string                          `json:"seed"`
	Mode          string                          `json:"mode"`
	DomainScores  map[string]int                  `json:"domain_scores"`
	Facets        map[domain.Domain]domain.Triple `json:"facets"`
	Traits        []profile.Trait                 `json:"traits"`
	Prompt        string                          `json:"prompt,omitempty"`
	Profile       string                          `json:"profile,omitempty"`
	ProfileLength int                             `json:"profile_length,omitempty"`
	Coherence     int                             `json:"coherence,omitempty"`
	TargetLength  int                             `json:"target_length,omitempty"`
	HistoryID     string                          `json:"history_id,omitempty"`
}

// NewGenerateJSON converts a response for JSON output. Domain scores are keyed
// by letter.
func NewGenerateJSON(resp *app.GenerateResponse) GenerateJSON {
	out := GenerateJSON{
		Seed:         resp.Seed,
		Mode:         resp.Mode,
		DomainScores: make(map[string]int, len(resp.Scores)),
		Facets:       resp.Facets,
		Traits:       resp.Traits,
		Prompt:       resp.Prompt,
		Profile:      resp.Profile,
		Coherence:    int(resp.Coherence),
		TargetLength: resp.TargetLen,
		HistoryID:    resp.HistoryID,
	}
	if out.Traits == nil {
		out.Traits = []profile.Trait{}
	}
	for d, s := range resp.Scores {
		out.DomainScores[d.Letter()] = s
	}
	if resp.Profile != "" {
		out.ProfileLength = utf8.RuneCountInString(resp.Profile)
	}
	return out
}

// SortTraits orders traits by domain display order, keeping sampled order
// within a domain.
func SortTraits(traits []profile.Trait) []profile.Trait {
	sorted := slices.Clone(traits)
	slices.SortStableFunc(sorted, func(a, b profile.Trait) int {
		return slices.Index(domain.DisplayOrder, a.Domain) - slices.Index(domain.DisplayOrder, b.Domain)
	})
	return sorted
}

// EmojiSummary returns one emoji per domain contributing a trait, in display
// order, without repeats.
func EmojiSummary(traits []profile.Trait, scores map[domain.Domain]int) string {
	var b strings.Builder
	seen := map[string]bool{}
	for _, d := range domain.DisplayOrder {
		if !slices.ContainsFunc(traits, func(t profile.Trait) bool { return t.Domain == d }) {
			continue
		}
		e := ScoreEmoji(d, scores[d])
		if e != "" && !seen[e] {
			seen[e] = true
			b.WriteString(e)
		}
	}
	return b.String()
}

// FormatTraits renders one line per trait: badge, emoji, trait text.
func FormatTraits(traits []profile.Trait, scores map[domain.Domain]int) string {
	var b strings.Builder
	for _, t := range SortTraits(traits) {
		score := scores[t.Domain]
		badge := ScoreStyle(score).Render(ScoreBadge(t.Domain, score))
		fmt.Fprintf(&b, "  %s %s | %s\n", badge, ScoreEmoji(t.Domain, score), t.Trait)
	}
	return b.String()
}

// FormatGenerate renders a generated profile for the terminal. Dry runs show
// the prompt; full runs show the profile.
func FormatGenerate(resp *app.GenerateResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", Bold("Seed:"), resp.Seed)
	fmt.Fprintf(&b, "%s %s\n", Bold("Mode:"), ModeDescription(resp.Coherence, resp.Explicit))
	if resp.Profile == "" && resp.TargetLen > 0 {
		fmt.Fprintf(&b, "%s ~%d chars\n", Bold("Target length:"), resp.TargetLen)
	}

	fmt.Fprintf(&b, "\n%s %s\n", Bold(fmt.Sprintf("Traits (%d):", len(resp.Traits))), EmojiSummary(resp.Traits, resp.Scores))
	b.WriteString(FormatTraits(resp.Traits, resp.Scores))

	if resp.Profile == "" {
		fmt.Fprintf(&b, "\n%s\n%s\n", Bold("Prompt:"), resp.Prompt)
		return b.String()
	}
	fmt.Fprintf(&b, "\n%s\n%s\n", Bold(fmt.Sprintf("Profile (%d chars):", utf8.RuneCountInString(resp.Profile))), resp.Profile)
	if resp.HistoryID != "" {
		fmt.Fprintf(&b, "%s\n", Dim("saved as "+ShortID(resp.HistoryID)))
	}
	return b.String()
}

// FormatGenerateBatch renders several profiles separated by numbered headers.
func FormatGenerateBatch(resps []*app.GenerateResponse) string {
	if len(resps) == 1 {
		return FormatGenerate(resps[0])
	}
	var b strings.Builder
	for i, resp := range resps {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s\n", StyleHeader.Render(fmt.Sprintf("--- Profile %d (seed: %s) ---", i+1, resp.Seed)))
		b.WriteString(FormatGenerate(resp))
	}
	return b.String()
}
