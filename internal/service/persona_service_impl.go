package service

import (
	"context"
	"fmt"
	"time"

	"github.com/craigtrim/persona-api/internal/app"
	"github.com/craigtrim/persona-api/internal/corpus"
	"github.com/craigtrim/persona-api/internal/domain"
	"github.com/craigtrim/persona-api/internal/facet"
	"github.com/craigtrim/persona-api/internal/generation"
	"github.com/craigtrim/persona-api/internal/llm"
	"github.com/craigtrim/persona-api/internal/profile"
	"github.com/craigtrim/persona-api/internal/repository"
	"github.com/craigtrim/persona-api/internal/resolver"
	"github.com/craigtrim/persona-api/internal/rng"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultParallelism bounds concurrent pipelines in GenerateMany.
const DefaultParallelism = 4

type personaService struct {
	store       corpus.Store
	completer   llm.Completer
	history     repository.ProfileRepo
	catalog     facet.Catalog
	observer    UseCaseObserver
	log         *zap.Logger
	model       string
	parallelism int
}

// Option configures a PersonaService.
type Option func(*personaService)

// WithHistory records every generated profile in repo.
func WithHistory(repo repository.ProfileRepo) Option {
	return func(s *personaService) { s.history = repo }
}

func WithCatalog(c facet.Catalog) Option {
	return func(s *personaService) { s.catalog = c }
}

func WithObserver(o UseCaseObserver) Option {
	return func(s *personaService) { s.observer = o }
}

func WithLogger(log *zap.Logger) Option {
	return func(s *personaService) { s.log = log }
}

// WithModel names the model recorded with generated profiles.
func WithModel(model string) Option {
	return func(s *personaService) { s.model = model }
}

func WithParallelism(n int) Option {
	return func(s *personaService) { s.parallelism = n }
}

// NewPersonaService wires the generate, resolve and assemble stages over
// store. completer may be nil, in which case only dry runs succeed.
func NewPersonaService(store corpus.Store, completer llm.Completer, opts ...Option) PersonaService {
	s := &personaService{
		store:       store,
		completer:   completer,
		observer:    NoopUseCaseObserver{},
		log:         zap.NewNop(),
		parallelism: DefaultParallelism,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.catalog == nil {
		s.catalog = facet.MustDefault()
	}
	if s.parallelism < 1 {
		s.parallelism = 1
	}
	return s
}

func (s *personaService) Generate(ctx context.Context, req app.GenerateRequest) (resp *app.GenerateResponse, err error) {
	fields := map[string]any{"random": req.Random(), "dry_run": req.DryRun}
	defer s.observe(ctx, "generate", time.Now(), &err, fields)

	if err := req.Validate(); err != nil {
		return nil, err
	}
	resp, err = s.generate(ctx, req)
	if err != nil {
		return nil, err
	}
	fields["seed"] = resp.Seed
	if err := s.record(ctx, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// GenerateMany runs n independent pipelines concurrently. Sample i runs under
// rng.Derive(seed, i), so sample 0 equals a single Generate with the same seed.
func (s *personaService) GenerateMany(ctx context.Context, req app.GenerateRequest, n int) (out []*app.GenerateResponse, err error) {
	defer s.observe(ctx, "generate_many", time.Now(), &err, map[string]any{"count": n})

	if err := req.Validate(); err != nil {
		return nil, err
	}
	if n < 1 {
		return nil, &app.RequestError{Code: app.ErrInvalidLength, Message: fmt.Sprintf("count %d must be positive", n)}
	}
	base := req.EffectiveSeed()
	if base == "" {
		base = rng.NewSeed()
	}

	out = make([]*app.GenerateResponse, n)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallelism)
	for i := range n {
		sample := req
		sample.Seed = rng.Derive(base, i)
		g.Go(func() error {
			resp, err := s.generate(gctx, sample)
			if err != nil {
				return fmt.Errorf("sample %d (seed %s): %w", i, sample.Seed, err)
			}
			out[i] = resp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, resp := range out {
		if err := s.record(ctx, resp); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// generate runs one pipeline. Every stage owns a stream seeded from the same
// seed, so a pipeline shares no mutable state with its siblings.
func (s *personaService) generate(ctx context.Context, req app.GenerateRequest) (*app.GenerateResponse, error) {
	seed := req.EffectiveSeed()
	resp := &app.GenerateResponse{Mode: repository.ModeExplicit, TargetLen: req.Length}

	var triples map[domain.Domain]domain.Triple
	if req.Random() {
		result := generation.New(seed).Generate(req.Coherence)
		seed = result.Seed
		triples = result.Triples()
		resp.Mode = repository.ModeRandom
		resp.Coherence = req.Coherence
	} else {
		triples = req.ExplicitTriples()
		resp.Explicit = req.Scores
	}
	resp.Seed = seed
	resp.Facets = triples
	resp.Scores = make(map[domain.Domain]int, len(triples))
	for d, t := range triples {
		resp.Scores[d] = t.Score()
	}

	behaviors, err := resolver.New(s.store, seed, s.log).ResolveAllExact(ctx, triples)
	if err != nil {
		return nil, err
	}
	resp.Behaviors = behaviors

	count := req.Instructions
	if count == 0 {
		count = profile.DefaultInstructionCount
	}
	asm := profile.New(seed, s.completer, s.log)
	resp.Traits = asm.SliceInstructions(behaviors, count)

	if req.DryRun {
		resp.Prompt = profile.GeneratePrompt(resp.Traits, req.Length)
		return resp, nil
	}

	text, err := asm.GenerateProfile(ctx, resp.Traits, req.Length)
	if err != nil {
		return nil, err
	}
	resp.Profile = text
	resp.Model = s.model
	return resp, nil
}

func (s *personaService) record(ctx context.Context, resp *app.GenerateResponse) error {
	if s.history == nil || resp.Profile == "" {
		return nil
	}
	rec := &repository.ProfileRecord{
		Seed:      resp.Seed,
		Mode:      resp.Mode,
		Coherence: resp.Coherence,
		Length:    resp.TargetLen,
		Scores:    resp.Scores,
		Traits:    resp.Traits,
		Prompt:    profile.GeneratePrompt(resp.Traits, resp.TargetLen),
		Profile:   resp.Profile,
		Model:     resp.Model,
	}
	if err := s.history.Save(ctx, rec); err != nil {
		return fmt.Errorf("recording profile: %w", err)
	}
	resp.HistoryID = rec.ID
	return nil
}

func (s *personaService) ResolveBehavior(ctx context.Context, req app.ResolveRequest) (b *resolver.Behavior, err error) {
	defer s.observe(ctx, "resolve_behavior", time.Now(), &err, map[string]any{"domain": string(req.Domain)})

	if err := req.Validate(); err != nil {
		return nil, err
	}
	seed := rng.OrNew(req.Seed)
	r := resolver.New(s.store, seed, s.log)
	if req.Triple != nil {
		b, err = r.ResolveExact(ctx, req.Domain, *req.Triple)
	} else {
		b, err = r.Resolve(ctx, req.Domain, req.Score, req.Ceiling)
	}
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, &app.RequestError{Code: app.ErrNoMatch, Message: "No matching configuration found"}
	}
	return b, nil
}

func (s *personaService) RandomPersonality(ctx context.Context, seed string, coherence domain.Coherence) (p domain.PersonalityResult, err error) {
	defer s.observe(ctx, "random_personality", time.Now(), &err, nil)

	if coherence != domain.CoherenceAny && !coherence.Valid() {
		return p, &app.RequestError{Code: app.ErrInvalidCoherence, Message: fmt.Sprintf("coherence %d not in 0-3", coherence)}
	}
	return generation.New(seed).Generate(coherence), nil
}

func (s *personaService) DescribeFacets(ctx context.Context, seed string, coherence domain.Coherence) (*FacetTexts, error) {
	p, err := s.RandomPersonality(ctx, seed, coherence)
	if err != nil {
		return nil, err
	}
	texts := facet.NewTextResolver(s.catalog, p.Seed).ResolveAll(p)
	return &FacetTexts{Personality: p, Texts: texts}, nil
}

func (s *personaService) ListHistory(ctx context.Context, limit int) (recs []*repository.ProfileRecord, err error) {
	defer s.observe(ctx, "list_history", time.Now(), &err, nil)

	if s.history == nil {
		return nil, ErrHistoryDisabled
	}
	return s.history.List(ctx, limit)
}
