package cli

import (
	"context"

	"github.com/craigtrim/persona-api/internal/config"
	"github.com/craigtrim/persona-api/internal/corpus"
	"github.com/craigtrim/persona-api/internal/llm"
	"github.com/craigtrim/persona-api/internal/service"
	"go.uber.org/zap"
)

// ServiceFactory builds a PersonaService against a specific LLM backend. The
// generate command uses it when --model or --provider override the config.
type ServiceFactory func(ctx context.Context, cfg llm.LLMConfig) (service.PersonaService, error)

// App holds everything CLI commands need.
type App struct {
	Config  *config.Config
	Log     *zap.Logger
	Store   corpus.Store
	Service service.PersonaService

	NewService ServiceFactory

	// IsInteractive reports whether stdin is a terminal. Spinners and the
	// wizard are only used when it returns true.
	IsInteractive func() bool
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) logger() *zap.Logger {
	if a.Log == nil {
		return zap.NewNop()
	}
	return a.Log
}

// serviceFor returns the configured service, or a fresh one when the LLM
// settings were overridden on the command line.
func (a *App) serviceFor(ctx context.Context, model, provider string) (service.PersonaService, error) {
	if model == "" && provider == "" {
		return a.Service, nil
	}
	if a.NewService == nil {
		return a.Service, nil
	}
	cfg := llm.DefaultConfig()
	if a.Config != nil {
		cfg = a.Config.LLM
	}
	if provider != "" {
		cfg.Provider = llm.Provider(provider)
		if provider == string(llm.ProviderGemini) && model == "" {
			cfg.Model = llm.DefaultGeminiModel
		}
	}
	if model != "" {
		cfg.Model = model
	}
	return a.NewService(ctx, cfg)
}
