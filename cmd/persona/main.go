package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/craigtrim/persona-api/internal/cli"
	"github.com/craigtrim/persona-api/internal/config"
	"github.com/craigtrim/persona-api/internal/corpus"
	"github.com/craigtrim/persona-api/internal/db"
	"github.com/craigtrim/persona-api/internal/llm"
	"github.com/craigtrim/persona-api/internal/logging"
	"github.com/craigtrim/persona-api/internal/repository"
	"github.com/craigtrim/persona-api/internal/service"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load("", ".env")
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	log, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}
	defer log.Sync()

	// Databases are opened once even when the corpus and history share a file.
	conns := map[string]*sql.DB{}
	defer func() {
		for _, c := range conns {
			c.Close()
		}
	}()
	openDB := func(path string) (*sql.DB, error) {
		if c, ok := conns[path]; ok {
			return c, nil
		}
		c, err := db.OpenDB(path)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", path, err)
		}
		conns[path] = c
		return c, nil
	}

	// Select the corpus store: SQLite behind a read-through cache when a
	// database is configured, otherwise the directory tree.
	var store corpus.Store
	if cfg.Corpus.DBPath != "" {
		conn, err := openDB(cfg.Corpus.DBPath)
		if err != nil {
			return err
		}
		store = corpus.NewCachedStore(repository.NewSQLiteCorpusRepo(conn))
	} else {
		store = corpus.NewDirStore(cfg.Corpus.Dir, log)
	}

	var history repository.ProfileRepo
	if cfg.History.DBPath != "" {
		conn, err := openDB(cfg.History.DBPath)
		if err != nil {
			return err
		}
		history = repository.NewSQLiteProfileRepo(conn)
	}

	newService := func(ctx context.Context, llmCfg llm.LLMConfig) (service.PersonaService, error) {
		var observer llm.Observer = llm.NewZapObserver(log)
		if llmCfg.LogCalls {
			observer = llm.NewLogObserver(os.Stderr)
		}
		completer, err := llm.NewCompleter(ctx, llmCfg, observer)
		if errors.Is(err, llm.ErrNotConfigured) {
			// Dry runs still work; full runs report the missing setting.
			log.Warn("llm backend not configured", zap.Error(err))
			completer = nil
		} else if err != nil {
			return nil, err
		}

		opts := []service.Option{
			service.WithLogger(log),
			service.WithObserver(service.NewZapUseCaseObserver(log)),
			service.WithModel(llmCfg.Model),
		}
		if history != nil {
			opts = append(opts, service.WithHistory(history))
		}
		return service.NewPersonaService(store, completer, opts...), nil
	}

	svc, err := newService(ctx, cfg.LLM)
	if err != nil {
		return err
	}

	app := &cli.App{
		Config:     cfg,
		Log:        log,
		Store:      store,
		Service:    svc,
		NewService: newService,
	}

	// Detect interactive terminal for spinners and the wizard.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}
