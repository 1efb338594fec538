package cli

import (
	"errors"
	"fmt"

	"github.com/craigtrim/persona-api/internal/app"
	"github.com/craigtrim/persona-api/internal/cli/formatter"
	"github.com/craigtrim/persona-api/internal/domain"
	"github.com/spf13/cobra"
)

var (
	errRandomWithDomains = errors.New("cannot use --random with domain flags (--A, --C, --E, --N, --O)")
	errNoGenerateMode    = errors.New("must specify either --random or at least one domain flag")
)

// generateOptions carries every generate flag so the wizard can reuse the
// same execution path.
type generateOptions struct {
	random   int
	scores   map[domain.Domain]int
	seed     string
	length   int
	jsonOut  bool
	dryRun   bool
	count    int
	model    string
	provider string
}

func (o generateOptions) request() (app.GenerateRequest, error) {
	switch {
	case o.random != 0 && len(o.scores) > 0:
		return app.GenerateRequest{}, errRandomWithDomains
	case o.random == 0 && len(o.scores) == 0:
		return app.GenerateRequest{}, errNoGenerateMode
	}

	var req app.GenerateRequest
	if o.random != 0 {
		c, err := parseCoherence(o.random, false)
		if err != nil {
			return req, fmt.Errorf("--random: %w", err)
		}
		req = app.NewRandomRequest(c)
	} else {
		for d, s := range o.scores {
			if !domain.ValidScore(s) {
				return req, fmt.Errorf("--%s must be between 1 and 5, got %d", d.Letter(), s)
			}
		}
		req = app.NewExplicitRequest(o.scores)
	}
	if o.length < 0 {
		return req, fmt.Errorf("--length must be positive, got %d", o.length)
	}
	if o.count < 1 {
		return req, fmt.Errorf("--count must be at least 1, got %d", o.count)
	}
	req.Seed = o.seed
	req.Length = o.length
	req.DryRun = o.dryRun
	return req, nil
}

func newGenerateCmd(a *App) *cobra.Command {
	var opts generateOptions
	letters := make(map[domain.Domain]*int, len(domain.Domains))

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a personality profile",
		Long: `Generate a personality system prompt, either from a random personality
(--random 1-3, from coherent to chaotic) or from explicit domain scores
(--A, --C, --E, --N, --O, each 1-5; unspecified domains are neutral).`,
		Example: `  persona generate --random 1
  persona generate --A 5 --N 1 --length 300
  persona generate --random 2 --seed 123456 --dry-run --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.scores = map[domain.Domain]int{}
			for d, v := range letters {
				if cmd.Flags().Changed(d.Letter()) {
					opts.scores[d] = *v
				}
			}
			if !cmd.Flags().Changed("random") {
				opts.random = 0
			}
			return runGenerate(cmd, a, opts)
		},
	}

	cmd.SetFlagErrorFunc(domainFlagErrorFunc)
	f := cmd.Flags()
	f.IntVarP(&opts.random, "random", "r", 0, "Random personality at coherence 1 (coherent), 2 (mixed) or 3 (chaotic)")
	for _, d := range domain.DisplayOrder {
		letters[d] = new(int)
		f.IntVar(letters[d], d.Letter(), domain.NeutralScore, fmt.Sprintf("%s score (1-5)", formatter.DomainTitle(d)))
	}
	f.StringVarP(&opts.seed, "seed", "s", "", "Seed for reproducible output")
	f.IntVarP(&opts.length, "length", "l", 0, "Target profile length in characters")
	f.BoolVarP(&opts.jsonOut, "json", "j", false, "Output as JSON")
	f.BoolVarP(&opts.dryRun, "dry-run", "d", false, "Print the synthesis prompt without calling the LLM")
	f.IntVarP(&opts.count, "count", "n", 1, "Number of profiles to generate")
	f.StringVarP(&opts.model, "model", "m", "", "Override the LLM model")
	f.StringVar(&opts.provider, "provider", "", "Override the LLM provider (ollama or gemini)")

	return cmd
}

func runGenerate(cmd *cobra.Command, a *App, opts generateOptions) error {
	req, err := opts.request()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	svc, err := a.serviceFor(ctx, opts.model, opts.provider)
	if err != nil {
		return err
	}

	var resps []*app.GenerateResponse
	work := func() error {
		if opts.count == 1 {
			resp, err := svc.Generate(ctx, req)
			if err != nil {
				return err
			}
			resps = []*app.GenerateResponse{resp}
			return nil
		}
		many, err := svc.GenerateMany(ctx, req, opts.count)
		resps = many
		return err
	}

	if !opts.dryRun && !opts.jsonOut && a.interactive() {
		err = formatter.RunWithSpinner(cmd.ErrOrStderr(), "Generating profile...", work)
	} else {
		err = work()
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.jsonOut {
		docs := make([]formatter.GenerateJSON, len(resps))
		for i, r := range resps {
			docs[i] = formatter.NewGenerateJSON(r)
		}
		if len(docs) == 1 {
			return writeJSON(out, docs[0])
		}
		return writeJSON(out, docs)
	}
	fmt.Fprint(out, formatter.FormatGenerateBatch(resps))
	return nil
}
