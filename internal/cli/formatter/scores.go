package formatter

import (
	"fmt"
	"strings"

	"github.com/craigtrim/persona-api/internal/domain"
)

// scoreEmoji runs from the low pole (index 0) to the high pole of each domain.
var scoreEmoji = map[domain.Domain][5]string{
	domain.NegativeEmotionality: {"😌", "🙂", "😐", "😟", "😰"},
	domain.Extraversion:         {"🌑", "🌒", "🌓", "🌔", "🌕"},
	domain.Agreeableness:        {"🧊", "❄️", "🌥️", "🌤️", "☀️"},
	domain.Conscientiousness:    {"🌀", "😅", "📝", "📋", "🎯"},
	domain.OpenMindedness:       {"📦", "📐", "🔍", "🎨", "🌈"},
}

var subscripts = [5]string{"₁", "₂", "₃", "₄", "₅"}

var domainTitles = map[domain.Domain]string{
	domain.Extraversion:         "Extraversion",
	domain.Agreeableness:        "Agreeableness",
	domain.Conscientiousness:    "Conscientiousness",
	domain.NegativeEmotionality: "Negative Emotionality",
	domain.OpenMindedness:       "Open-Mindedness",
}

var domainShortLabels = map[domain.Domain]string{
	domain.Agreeableness:        "Agreeable",
	domain.Conscientiousness:    "Conscientious",
	domain.Extraversion:         "Extravert",
	domain.OpenMindedness:       "Open",
	domain.NegativeEmotionality: "Neurotic",
}

var randomModeDescriptions = map[domain.Coherence]string{
	domain.CoherenceCoherent:      "coherent (facets within ±1)",
	domain.CoherenceUncertain:     "mixed (moderate spread ±2)",
	domain.CoherenceContradictory: "chaotic (large spread ≥3)",
}

// ScoreEmoji returns the gradient emoji for a domain score, or "" when out of
// range.
func ScoreEmoji(d domain.Domain, score int) string {
	if !domain.ValidScore(score) {
		return ""
	}
	return scoreEmoji[d][score-1]
}

// Subscript renders a 1-5 score as a subscript digit.
func Subscript(score int) string {
	if !domain.ValidScore(score) {
		return fmt.Sprint(score)
	}
	return subscripts[score-1]
}

// ScoreBadge renders a domain score as letter plus subscript, e.g. "A₅".
func ScoreBadge(d domain.Domain, score int) string {
	return d.Letter() + Subscript(score)
}

// DomainTitle returns d's display name.
func DomainTitle(d domain.Domain) string {
	if t, ok := domainTitles[d]; ok {
		return t
	}
	return string(d)
}

// ScoreLine renders all five scores in display order, e.g. "A₄ C₃ E₅ O₂ N₁".
func ScoreLine(scores map[domain.Domain]int) string {
	parts := make([]string, 0, len(domain.DisplayOrder))
	for _, d := range domain.DisplayOrder {
		if s, ok := scores[d]; ok {
			parts = append(parts, ScoreBadge(d, s))
		}
	}
	return strings.Join(parts, " ")
}

// ModeDescription describes how a profile's scores were chosen.
func ModeDescription(coherence domain.Coherence, explicit map[domain.Domain]int) string {
	if coherence.Valid() {
		return fmt.Sprintf("Random: %d - %s", int(coherence), randomModeDescriptions[coherence])
	}
	var specified []string
	for _, d := range domain.DisplayOrder {
		if s, ok := explicit[d]; ok {
			specified = append(specified, fmt.Sprintf("%s(%s)=%d", d.Letter(), domainShortLabels[d], s))
		}
	}
	if len(specified) == 0 {
		return "Explicit: all neutral"
	}
	return "Explicit: " + strings.Join(specified, ", ")
}
