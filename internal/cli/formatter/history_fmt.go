package formatter

import (
	"fmt"
	"unicode/utf8"

	"github.com/craigtrim/persona-api/internal/repository"
)

// FormatHistory tabulates saved profiles, newest first.
func FormatHistory(recs []*repository.ProfileRecord) string {
	if len(recs) == 0 {
		return Dim("No profiles recorded yet.") + "\n"
	}
	headers := []string{"ID", "CREATED", "MODE", "SEED", "SCORES", "CHARS"}
	rows := make([][]string, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, []string{
			ShortID(r.ID),
			r.CreatedAt.UTC().Format("2006-01-02 15:04"),
			r.Mode,
			r.Seed,
			ScoreLine(r.Scores),
			fmt.Sprint(utf8.RuneCountInString(r.Profile)),
		})
	}
	return RenderTable(headers, rows)
}
