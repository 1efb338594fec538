package service

import (
	"context"
	"sync"
	"testing"

	"github.com/craigtrim/persona-api/internal/llm"
	"github.com/craigtrim/persona-api/internal/repository"
	"github.com/craigtrim/persona-api/internal/testutil"
)

// fakeCompleter echoes a fixed profile and counts calls. Safe for concurrent
// pipelines.
type fakeCompleter struct {
	mu      sync.Mutex
	calls   int
	prompts []string
	text    string
	err     error
}

func (f *fakeCompleter) Complete(_ context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.prompts = append(f.prompts, req.Prompt)
	if f.err != nil {
		return nil, f.err
	}
	text := f.text
	if text == "" {
		text = "Here is the system prompt:\n\"You MUST stay calm and kind.\""
	}
	return &llm.CompletionResponse{Text: text, Model: "fake"}, nil
}

func (f *fakeCompleter) Available(context.Context) bool { return true }

func (f *fakeCompleter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

type fixture struct {
	svc       PersonaService
	completer *fakeCompleter
	history   *repository.SQLiteProfileRepo
	observer  *recordingObserver
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{
		completer: &fakeCompleter{},
		history:   repository.NewSQLiteProfileRepo(testutil.NewTestDB(t)),
		observer:  &recordingObserver{},
	}
	opts = append([]Option{
		WithHistory(f.history),
		WithObserver(f.observer),
		WithModel("llama3.2"),
	}, opts...)
	f.svc = NewPersonaService(testutil.BuildCorpus(t), f.completer, opts...)
	return f
}
