package formatter

import (
	"fmt"
	"strings"

	"github.com/craigtrim/persona-api/internal/domain"
)

// FormatPersonality lists every domain score followed by its facet scores.
func FormatPersonality(p domain.PersonalityResult) string {
	var b strings.Builder
	scores := p.Scores()
	triples := p.Triples()
	for _, d := range domain.Domains {
		fmt.Fprintf(&b, "%s: %s\n", DomainTitle(d), ScoreStyle(scores[d]).Render(fmt.Sprint(scores[d])))
		names, _ := d.Facets()
		for i, name := range names {
			fmt.Fprintf(&b, "  %s: %d\n", name, triples[d][i])
		}
	}
	return b.String()
}

// FormatFacetTexts lists each facet's score with its survey sentence.
func FormatFacetTexts(p domain.PersonalityResult, texts map[domain.Domain]map[string]string) string {
	var b strings.Builder
	triples := p.Triples()
	for i, d := range domain.Domains {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(DomainHeader(d) + "\n")
		names, _ := d.Facets()
		for j, name := range names {
			text, ok := texts[d][name]
			if !ok {
				text = Dim("(no text)")
			}
			fmt.Fprintf(&b, "  %s (%d): %s\n", name, triples[d][j], text)
		}
	}
	return b.String()
}
