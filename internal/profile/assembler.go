// Package profile samples behavioral instructions across domains and renders
// them into a chatbot system prompt.
package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/craigtrim/persona-api/internal/domain"
	"github.com/craigtrim/persona-api/internal/llm"
	"github.com/craigtrim/persona-api/internal/resolver"
	"github.com/craigtrim/persona-api/internal/rng"
	"go.uber.org/zap"
)

// DefaultInstructionCount is the number of traits sampled when a caller does
// not ask for a specific count.
const DefaultInstructionCount = 5

// ErrExternalService wraps every failure of the completion backend.
var ErrExternalService = errors.New("profile synthesis failed")

// Trait is one sampled instruction and the domain it came from.
type Trait struct {
	Trait  string        `json:"trait"`
	Domain domain.Domain `json:"domain"`
}

// Assembler draws from its own seeded stream. It is not safe for concurrent
// use.
type Assembler struct {
	stream    *rng.Stream
	completer llm.Completer
	log       *zap.Logger
}

// New returns an assembler seeded with seed. completer may be nil for callers
// that only render prompts.
func New(seed string, completer llm.Completer, log *zap.Logger) *Assembler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Assembler{stream: rng.New(seed), completer: completer, log: log}
}

// SliceInstructions samples up to count instructions, interleaving domains so
// no single domain dominates. Domains are visited in canonical order to
// shuffle their instructions, then the order of domains is shuffled once and
// instructions are taken round robin until count is reached or every domain
// runs dry.
func (a *Assembler) SliceInstructions(behaviors map[domain.Domain]*resolver.Behavior, count int) []Trait {
	pools := make(map[domain.Domain][]string)
	var order []domain.Domain
	for _, d := range domain.Domains {
		b := behaviors[d]
		if b == nil || len(b.Instructions) == 0 {
			continue
		}
		pool := append([]string(nil), b.Instructions...)
		rng.Shuffle(a.stream, pool)
		pools[d] = pool
		order = append(order, d)
	}
	if len(order) == 0 || count <= 0 {
		return nil
	}
	rng.Shuffle(a.stream, order)

	out := make([]Trait, 0, count)
	for len(out) < count && len(order) > 0 {
		next := order[:0]
		for _, d := range order {
			if len(out) == count {
				next = append(next, d)
				continue
			}
			pool := pools[d]
			out = append(out, Trait{Trait: pool[0], Domain: d})
			pools[d] = pool[1:]
			if len(pools[d]) > 0 {
				next = append(next, d)
			}
		}
		order = next
	}
	return out
}

// SliceInstructionsByDomain takes up to counts[d] shuffled instructions from
// each domain, in canonical domain order, with no interleaving.
func (a *Assembler) SliceInstructionsByDomain(behaviors map[domain.Domain]*resolver.Behavior, counts map[domain.Domain]int) []Trait {
	var out []Trait
	for _, d := range domain.Domains {
		n, ok := counts[d]
		if !ok || n <= 0 {
			continue
		}
		b := behaviors[d]
		if b == nil || len(b.Instructions) == 0 {
			continue
		}
		pool := append([]string(nil), b.Instructions...)
		rng.Shuffle(a.stream, pool)
		for _, ins := range pool[:min(n, len(pool))] {
			out = append(out, Trait{Trait: ins, Domain: d})
		}
	}
	return out
}

// GenerateProfile renders the prompt for traits and has the completer write
// the profile. Backend failures are returned wrapped in ErrExternalService.
func (a *Assembler) GenerateProfile(ctx context.Context, traits []Trait, length int) (string, error) {
	if a.completer == nil {
		return "", fmt.Errorf("%w: %w", ErrExternalService, llm.ErrNotConfigured)
	}
	prompt := GeneratePrompt(traits, length)

	resp, err := a.completer.Complete(ctx, llm.CompletionRequest{Task: llm.TaskProfile, Prompt: prompt})
	if err != nil {
		a.log.Warn("profile synthesis failed", zap.Error(err))
		return "", fmt.Errorf("%w: %w", ErrExternalService, err)
	}
	text, err := llm.CleanCompletion(resp.Text)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrExternalService, err)
	}
	a.log.Debug("profile synthesized",
		zap.String("model", resp.Model),
		zap.Int64("latency_ms", resp.LatencyMs),
		zap.Int("chars", len(text)))
	return strings.TrimSpace(text), nil
}
