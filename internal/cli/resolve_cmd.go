package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/craigtrim/persona-api/internal/app"
	"github.com/craigtrim/persona-api/internal/cli/formatter"
	"github.com/craigtrim/persona-api/internal/domain"
	"github.com/craigtrim/persona-api/internal/resolver"
	"github.com/craigtrim/persona-api/internal/rng"
	"github.com/spf13/cobra"
)

func newResolveCmd(a *App) *cobra.Command {
	var (
		coherence int
		all       string
		facets    string
		seed      string
		jsonOut   bool
	)

	cmd := &cobra.Command{
		Use:   "resolve [domain] [score]",
		Short: "Resolve a domain score to corpus behavior text and instructions",
		Example: `  persona resolve extraversion 4
  persona resolve A 2 --coherence 3
  persona resolve N --facets 1,2,1
  persona resolve --all 3,2,4,3,5 --seed 123456`,
		Args: func(cmd *cobra.Command, args []string) error {
			switch {
			case all != "":
				return cobra.NoArgs(cmd, args)
			case facets != "":
				return cobra.ExactArgs(1)(cmd, args)
			default:
				return cobra.ExactArgs(2)(cmd, args)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ceiling, err := parseCoherence(coherence, true)
			if err != nil {
				return err
			}
			if ceiling == domain.CoherenceAny {
				ceiling = domain.CoherenceContradictory
			}
			if all != "" {
				scores, err := parseAllScores(all)
				if err != nil {
					return err
				}
				return runResolveAll(cmd, a, scores, ceiling, seed, jsonOut)
			}

			d, err := parseDomainArg(args[0])
			if err != nil {
				return err
			}
			req := app.ResolveRequest{Domain: d, Ceiling: ceiling, Seed: seed}
			if facets != "" {
				t, err := parseTriple(facets)
				if err != nil {
					return err
				}
				req.Triple = &t
			} else {
				req.Score, err = parseScoreArg("score", args[1])
				if err != nil {
					return err
				}
			}

			b, err := a.Service.ResolveBehavior(cmd.Context(), req)
			if isNoMatch(err) {
				b, err = nil, nil
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				return writeJSON(out, b)
			}
			if b == nil {
				fmt.Fprintln(out, formatter.NoMatch)
				return nil
			}
			fmt.Fprint(out, formatter.FormatBehavior(b))
			return nil
		},
	}

	f := cmd.Flags()
	f.IntVarP(&coherence, "coherence", "c", int(domain.CoherenceCoherent), "Coherence ceiling: 1 coherent, 2 uncertain, 3 contradictory (0 is the same as 3)")
	f.StringVarP(&all, "all", "a", "", "Resolve all five domains from E,A,C,N,O scores, e.g. 3,2,4,3,5")
	f.StringVarP(&facets, "facets", "f", "", "Resolve an exact facet triple, e.g. 4,4,5")
	f.StringVarP(&seed, "seed", "s", "", "Seed for reproducible selection")
	f.BoolVarP(&jsonOut, "json", "j", false, "Output as JSON")

	return cmd
}

// runResolveAll resolves each domain under the same seed. Every domain gets a
// fresh resolver, so one domain's miss never shifts another's selection.
func runResolveAll(cmd *cobra.Command, a *App, scores map[domain.Domain]int, ceiling domain.Coherence, seed string, jsonOut bool) error {
	seed = rng.OrNew(seed)
	behaviors := make(map[domain.Domain]*resolver.Behavior, len(scores))
	for _, d := range domain.Domains {
		b, err := a.Service.ResolveBehavior(cmd.Context(), app.ResolveRequest{
			Domain:  d,
			Score:   scores[d],
			Ceiling: ceiling,
			Seed:    seed,
		})
		if err != nil && !isNoMatch(err) {
			return fmt.Errorf("resolving %s: %w", d, err)
		}
		behaviors[d] = b
	}

	out := cmd.OutOrStdout()
	if jsonOut {
		return writeJSON(out, behaviors)
	}
	fmt.Fprint(out, formatter.FormatBehaviorAll(scores, behaviors))
	return nil
}

func parseTriple(s string) (domain.Triple, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return domain.Triple{}, fmt.Errorf("--facets needs exactly 3 comma-separated scores, got %d", len(parts))
	}
	var t domain.Triple
	for i, p := range parts {
		n, err := parseScoreArg("facet score", p)
		if err != nil {
			return domain.Triple{}, err
		}
		t[i] = n
	}
	return t, nil
}

func isNoMatch(err error) bool {
	var reqErr *app.RequestError
	return errors.As(err, &reqErr) && reqErr.Code == app.ErrNoMatch
}
