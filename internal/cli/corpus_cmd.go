package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/craigtrim/persona-api/internal/cli/formatter"
	"github.com/craigtrim/persona-api/internal/corpus"
	"github.com/craigtrim/persona-api/internal/db"
	"github.com/craigtrim/persona-api/internal/domain"
	"github.com/craigtrim/persona-api/internal/facet"
	"github.com/craigtrim/persona-api/internal/repository"
	"github.com/spf13/cobra"
)

var errVerifyFailed = errors.New("corpus verification failed")

func newCorpusCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "corpus",
		Short: "Build, check and import the behavior corpus",
	}

	cmd.AddCommand(
		newCorpusBuildCmd(a),
		newCorpusVerifyCmd(a),
		newCorpusImportCmd(a),
		newCorpusCoherenceCmd(a),
	)
	return cmd
}

// corpusSource selects a store from --dir or --db, falling back to the
// configured one. The returned close func is always safe to call.
type corpusSource struct {
	dir    string
	dbPath string
}

func (s *corpusSource) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.dir, "dir", "", "Read the corpus from this directory")
	cmd.Flags().StringVar(&s.dbPath, "db", "", "Read the corpus from this SQLite database")
}

func (s *corpusSource) open(a *App) (corpus.Store, func() error, error) {
	noop := func() error { return nil }
	switch {
	case s.dir != "" && s.dbPath != "":
		return nil, noop, errors.New("--dir and --db are mutually exclusive")
	case s.dir != "":
		return corpus.NewDirStore(s.dir, a.logger()), noop, nil
	case s.dbPath != "":
		conn, err := db.OpenDB(s.dbPath)
		if err != nil {
			return nil, noop, err
		}
		return repository.NewSQLiteCorpusRepo(conn), conn.Close, nil
	case a.Store != nil:
		return a.Store, noop, nil
	default:
		return nil, noop, errors.New("no corpus configured; pass --dir or --db")
	}
}

func parseDomains(names []string) ([]domain.Domain, error) {
	if len(names) == 0 {
		return domain.Domains, nil
	}
	out := make([]domain.Domain, 0, len(names))
	for _, n := range names {
		d, err := parseDomainArg(n)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func newCorpusBuildCmd(a *App) *cobra.Command {
	var (
		behavioralDir string
		outDir        string
		domains       []string
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build corpus entries and coherence indices from facet data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := parseDomains(domains)
			if err != nil {
				return err
			}
			if outDir == "" && a.Config != nil {
				outDir = a.Config.Corpus.Dir
			}
			if outDir == "" {
				return errors.New("--out is required")
			}

			catalog, err := facet.Default()
			if err != nil {
				return err
			}
			b := &corpus.Builder{Catalog: catalog}
			if behavioralDir != "" {
				b.Behavioral, err = corpus.LoadBehavioral(os.DirFS(behavioralDir))
				if err != nil {
					return err
				}
			}

			n, err := corpus.WriteDir(cmd.Context(), outDir, b, ds, a.logger())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Wrote %d entries for %d domains to %s\n",
				formatter.StyleOK.Render("✔"), n, len(ds), outDir)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&behavioralDir, "behavioral", "", "Directory of per-facet behavioral instruction files")
	f.StringVarP(&outDir, "out", "o", "", "Output directory (defaults to the configured corpus dir)")
	f.StringSliceVar(&domains, "domain", nil, "Domains to build (default all)")

	return cmd
}

func newCorpusVerifyCmd(a *App) *cobra.Command {
	var (
		src     corpusSource
		domains []string
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check every corpus entry and index for integrity",
		Long: `Check every corpus entry and index for integrity.

A triple whose scores spread by 3 or more is contradictory only when two
scores sit within 1 of each other and the third is at least 3 away; every
other wide spread is uncertain. Corpora built by tooling that labelled all
wide spreads contradictory report 30 mislabelled triples per domain. Rebuild
them with "persona corpus build".`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := parseDomains(domains)
			if err != nil {
				return err
			}
			store, closeFn, err := src.open(a)
			if err != nil {
				return err
			}
			defer closeFn()

			report, err := corpus.Verify(cmd.Context(), store, ds)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				if err := writeJSON(out, report); err != nil {
					return err
				}
			} else {
				fmt.Fprint(out, formatter.FormatVerifyReport(report))
			}
			if !report.OK() {
				return errVerifyFailed
			}
			return nil
		},
	}

	src.register(cmd)
	cmd.Flags().StringSliceVar(&domains, "domain", nil, "Domains to verify (default all)")
	cmd.Flags().BoolVarP(&jsonOut, "json", "j", false, "Output as JSON")
	return cmd
}

func newCorpusImportCmd(a *App) *cobra.Command {
	var (
		from    string
		dbPath  string
		domains []string
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load a corpus directory into SQLite in one transaction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := parseDomains(domains)
			if err != nil {
				return err
			}
			if a.Config != nil {
				if from == "" {
					from = a.Config.Corpus.Dir
				}
				if dbPath == "" {
					dbPath = a.Config.Corpus.DBPath
				}
			}
			if from == "" || dbPath == "" {
				return errors.New("--from and --db are required")
			}

			conn, err := db.OpenDB(dbPath)
			if err != nil {
				return err
			}
			defer conn.Close()

			src := corpus.NewDirStore(from, a.logger())
			res, err := repository.ImportCorpus(cmd.Context(), db.NewSQLiteUnitOfWork(conn).WithLogger(a.logger()), src, ds, from, a.logger())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Imported %d entries from %s into %s %s\n",
				formatter.StyleOK.Render("✔"), res.Entries, from, dbPath, formatter.Dim("("+formatter.ShortID(res.ID)+")"))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&from, "from", "", "Corpus directory to import (defaults to the configured corpus dir)")
	f.StringVar(&dbPath, "db", "", "Target SQLite database (defaults to the configured corpus db)")
	f.StringSliceVar(&domains, "domain", nil, "Domains to import (default all)")
	return cmd
}

func newCorpusCoherenceCmd(a *App) *cobra.Command {
	var (
		src     corpusSource
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "coherence",
		Short: "Show how each domain's 125 facet combinations split across coherence classes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeFn, err := src.open(a)
			if err != nil {
				return err
			}
			defer closeFn()

			dist := make(map[domain.Domain]map[domain.Coherence]int, len(domain.Domains))
			for _, d := range domain.Domains {
				idx, err := store.CoherenceIndex(cmd.Context(), d)
				if err != nil {
					return fmt.Errorf("reading %s index: %w", d, err)
				}
				dist[d] = idx.Distribution()
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				return writeJSON(out, dist)
			}
			fmt.Fprint(out, formatter.FormatCoherenceReport(dist))
			return nil
		},
	}

	src.register(cmd)
	cmd.Flags().BoolVarP(&jsonOut, "json", "j", false, "Output as JSON")
	return cmd
}
