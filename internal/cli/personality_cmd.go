package cli

import (
	"fmt"

	"github.com/craigtrim/persona-api/internal/cli/formatter"
	"github.com/craigtrim/persona-api/internal/domain"
	"github.com/craigtrim/persona-api/internal/rng"
	"github.com/spf13/cobra"
)

func newRandomCmd(a *App) *cobra.Command {
	var (
		seed      string
		count     int
		coherence int
		jsonOut   bool
	)

	cmd := &cobra.Command{
		Use:   "random",
		Short: "Generate random facet scores",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := parseCoherence(coherence, true)
			if err != nil {
				return err
			}
			if count < 1 {
				return fmt.Errorf("--count must be at least 1, got %d", count)
			}

			results := make([]domain.PersonalityResult, 0, count)
			for i := range count {
				s := seed
				if seed != "" && count > 1 {
					s = rng.Derive(seed, i)
				}
				p, err := a.Service.RandomPersonality(cmd.Context(), s, c)
				if err != nil {
					return err
				}
				results = append(results, p)
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				if count == 1 {
					return writeJSON(out, results[0])
				}
				return writeJSON(out, results)
			}
			for i, p := range results {
				if count > 1 {
					if i > 0 {
						fmt.Fprintln(out)
					}
					fmt.Fprintf(out, "--- Profile %d (seed: %s) ---\n", i+1, p.Seed)
				} else {
					fmt.Fprintf(out, "Seed: %s\n\n", p.Seed)
				}
				fmt.Fprint(out, formatter.FormatPersonality(p))
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&seed, "seed", "s", "", "Seed for reproducible output")
	f.IntVarP(&count, "count", "n", 1, "Number of personalities to generate")
	f.IntVarP(&coherence, "coherence", "c", 0, "Restrict every domain to a coherence class (1-3, 0 for any)")
	f.BoolVarP(&jsonOut, "json", "j", false, "Output as JSON")

	return cmd
}

func newFacetsCmd(a *App) *cobra.Command {
	var (
		seed      string
		coherence int
		jsonOut   bool
	)

	cmd := &cobra.Command{
		Use:   "facets",
		Short: "Describe a random personality with one survey sentence per facet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := parseCoherence(coherence, true)
			if err != nil {
				return err
			}
			ft, err := a.Service.DescribeFacets(cmd.Context(), seed, c)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				return writeJSON(out, ft)
			}
			fmt.Fprintf(out, "Seed: %s\n\n", ft.Personality.Seed)
			fmt.Fprint(out, formatter.FormatFacetTexts(ft.Personality, ft.Texts))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&seed, "seed", "s", "", "Seed for reproducible output")
	f.IntVarP(&coherence, "coherence", "c", 0, "Restrict every domain to a coherence class (1-3, 0 for any)")
	f.BoolVarP(&jsonOut, "json", "j", false, "Output as JSON")

	return cmd
}
