package formatter

import (
	"fmt"
	"strings"

	"github.com/craigtrim/persona-api/internal/domain"
	"github.com/craigtrim/persona-api/internal/resolver"
)

const NoMatch = "No matching configuration found"

// textWidth is where behavior text wraps, excluding its indent.
const textWidth = 76

func writeBehaviorBody(b *strings.Builder, r *resolver.Behavior) {
	t := r.FacetScores
	fmt.Fprintf(b, "Facet scores: [%d, %d, %d]\n", t[0], t[1], t[2])
	fmt.Fprintf(b, "Coherence: %s\n", CoherenceIndicator(r.Coherence))
	fmt.Fprintf(b, "\nText:\n  %s\n", strings.ReplaceAll(Wrap(r.Text, textWidth), "\n", "\n  "))
	b.WriteString("\nInstructions:\n")
	for _, inst := range r.Instructions {
		fmt.Fprintf(b, "  - %s\n", inst)
	}
}

// FormatBehavior renders one resolved behavior.
func FormatBehavior(r *resolver.Behavior) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Domain: %s\n", r.Domain)
	fmt.Fprintf(&b, "Score: %d\n", r.Score)
	writeBehaviorBody(&b, r)
	return b.String()
}

// FormatBehaviorAll renders one section per domain in canonical order. A nil
// behavior prints the no-match line.
func FormatBehaviorAll(scores map[domain.Domain]int, behaviors map[domain.Domain]*resolver.Behavior) string {
	var b strings.Builder
	rule := strings.Repeat("=", 60)
	for _, d := range domain.Domains {
		score, ok := scores[d]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "\n%s\n", rule)
		title := strings.ToUpper(strings.ReplaceAll(string(d), "_", " "))
		fmt.Fprintf(&b, "%s (score: %d)\n", DomainStyle(d).Render(title), score)
		fmt.Fprintf(&b, "%s\n", rule)
		if r := behaviors[d]; r != nil {
			writeBehaviorBody(&b, r)
		} else {
			fmt.Fprintf(&b, "  %s\n", NoMatch)
		}
	}
	return b.String()
}
