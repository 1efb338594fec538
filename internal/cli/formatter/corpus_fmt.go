package formatter

import (
	"fmt"
	"strings"

	"github.com/craigtrim/persona-api/internal/corpus"
	"github.com/craigtrim/persona-api/internal/domain"
)

// FormatCoherenceReport tabulates each domain's index distribution.
func FormatCoherenceReport(dist map[domain.Domain]map[domain.Coherence]int) string {
	headers := []string{"DOMAIN", "COHERENT", "UNCERTAIN", "CONTRADICTORY", "TOTAL"}
	var rows [][]string
	for _, d := range domain.Domains {
		counts, ok := dist[d]
		if !ok {
			continue
		}
		total := 0
		row := []string{string(d)}
		for _, c := range domain.CoherenceLevels {
			row = append(row, fmt.Sprint(counts[c]))
			total += counts[c]
		}
		rows = append(rows, append(row, fmt.Sprint(total)))
	}
	return RenderTable(headers, rows)
}

// FormatVerifyReport summarizes a corpus verification.
func FormatVerifyReport(r *corpus.Report) string {
	var b strings.Builder
	if r.OK() {
		fmt.Fprintf(&b, "%s %d entries verified\n", StyleOK.Render("✔"), r.Checked)
		return b.String()
	}
	fmt.Fprintf(&b, "%s %d problems in %d entries\n", StyleFail.Render("✘"), len(r.Problems), r.Checked)
	for _, p := range r.Problems {
		fmt.Fprintf(&b, "  %s\n", p.String())
	}
	if n := r.WideSpread(); n > 0 {
		fmt.Fprintf(&b, "\n%s\n", Dim(fmt.Sprintf(
			"%d of these label every spread of 3+ as contradictory; rebuild with `persona corpus build` to relabel them.", n)))
	}
	return b.String()
}
