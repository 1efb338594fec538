package resolver_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/craigtrim/persona-api/internal/corpus"
	"github.com/craigtrim/persona-api/internal/domain"
	"github.com/craigtrim/persona-api/internal/resolver"
	"github.com/craigtrim/persona-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveExact_ReturnsStoredEntry(t *testing.T) {
	store := testutil.NewCorpusFS(t).
		Entry(domain.Conscientiousness, domain.Triple{3, 2, 4}, map[string][]string{"X Y": {"a", "b"}}).
		Store()
	r := resolver.New(store, "any", nil)

	got, err := r.ResolveExact(context.Background(), domain.Conscientiousness, domain.Triple{3, 2, 4})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, &resolver.Behavior{
		Domain:       domain.Conscientiousness,
		Score:        3,
		FacetScores:  domain.Triple{3, 2, 4},
		Coherence:    domain.CoherenceUncertain,
		Text:         "X Y",
		Instructions: []string{"a", "b"},
	}, got)
}

func TestResolve_NeutralScore(t *testing.T) {
	idx := corpus.CoherenceIndex{
		domain.CoherenceCoherent:      {"1/1/1.json", "3/3/3.json", "5/5/4.json"},
		domain.CoherenceUncertain:     {"1/3/5.json"},
		domain.CoherenceContradictory: {},
	}
	ctx := context.Background()

	t.Run("neutral entry with texts", func(t *testing.T) {
		store := testutil.NewCorpusFS(t).
			Index(domain.Agreeableness, idx).
			Entry(domain.Agreeableness, domain.Uniform(3), map[string][]string{"steady": {"keep calm"}}).
			Store()
		got, err := resolver.New(store, "b", nil).Resolve(ctx, domain.Agreeableness, 3, domain.CoherenceCoherent)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, domain.Uniform(3), got.FacetScores)
		assert.Equal(t, "steady", got.Text)
		assert.Equal(t, []string{"keep calm"}, got.Instructions)
		assert.Equal(t, domain.CoherenceCoherent, got.Coherence)
	})

	t.Run("neutral entry without texts", func(t *testing.T) {
		store := testutil.NewCorpusFS(t).
			Index(domain.Agreeableness, idx).
			Entry(domain.Agreeableness, domain.Uniform(3), nil).
			Store()
		got, err := resolver.New(store, "b", nil).Resolve(ctx, domain.Agreeableness, 3, domain.CoherenceCoherent)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestResolve_InvalidInputIsAbsent(t *testing.T) {
	r := resolver.New(testutil.NewCorpusFS(t).Store(), "c", nil)
	ctx := context.Background()

	got, err := r.Resolve(ctx, "made_up_domain", 3, domain.CoherenceCoherent)
	assert.NoError(t, err)
	assert.Nil(t, got)

	got, err = r.ResolveExact(ctx, "made_up_domain", domain.Uniform(3))
	assert.NoError(t, err)
	assert.Nil(t, got)

	for _, score := range []int{0, 6, -1} {
		got, err = r.Resolve(ctx, domain.Extraversion, score, domain.CoherenceCoherent)
		assert.NoError(t, err)
		assert.Nil(t, got, "score %d", score)
	}

	got, err = r.ResolveExact(ctx, domain.Extraversion, domain.Triple{3, 3, 6})
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestResolve_CeilingOutOfRangeClampsToCoherent(t *testing.T) {
	store := testutil.BuildCorpus(t)
	ctx := context.Background()

	for _, ceiling := range []domain.Coherence{0, 4, -2} {
		for i := 0; i < 20; i++ {
			got, err := resolver.New(store, fmt.Sprintf("clamp-%d-%d", ceiling, i), nil).Resolve(ctx, domain.Extraversion, 1, ceiling)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, domain.CoherenceCoherent, got.Coherence)
		}
	}
}

func TestResolve_CumulativeCeiling(t *testing.T) {
	store := testutil.BuildCorpus(t)
	ctx := context.Background()

	seen := map[domain.Coherence]bool{}
	for i := 0; i < 200; i++ {
		got, err := resolver.New(store, fmt.Sprint(i), nil).Resolve(ctx, domain.OpenMindedness, 2, domain.CoherenceContradictory)
		require.NoError(t, err)
		if got == nil {
			continue
		}
		assert.Equal(t, 2, got.FacetScores.Score())
		assert.Equal(t, domain.Classify(got.FacetScores), got.Coherence)
		seen[got.Coherence] = true
	}
	assert.True(t, seen[domain.CoherenceCoherent])
	assert.True(t, seen[domain.CoherenceUncertain])
	assert.True(t, seen[domain.CoherenceContradictory])
}

func TestResolve_Deterministic(t *testing.T) {
	store := testutil.BuildCorpus(t)
	ctx := context.Background()
	scores := map[domain.Domain]int{
		domain.Extraversion:         4,
		domain.Agreeableness:        2,
		domain.Conscientiousness:    5,
		domain.NegativeEmotionality: 1,
		domain.OpenMindedness:       4,
	}

	a, err := resolver.New(store, "repeat", nil).ResolveAll(ctx, scores, domain.CoherenceUncertain)
	require.NoError(t, err)
	b, err := resolver.New(store, "repeat", nil).ResolveAll(ctx, scores, domain.CoherenceUncertain)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a, 5)
}

func TestResolve_RoundTripMeta(t *testing.T) {
	store := testutil.BuildCorpus(t)
	ctx := context.Background()
	r := resolver.New(store, "round-trip", nil)

	for _, d := range domain.Domains {
		for score := 1; score <= 5; score++ {
			got, err := r.Resolve(ctx, d, score, domain.CoherenceContradictory)
			require.NoError(t, err)
			if got == nil {
				continue
			}
			e, err := store.Get(ctx, d, got.FacetScores)
			require.NoError(t, err)
			key, err := e.Triple()
			require.NoError(t, err)
			assert.Equal(t, got.FacetScores, key)
			assert.Contains(t, e.Texts, got.Text)
		}
	}
}

func TestResolve_FullCorpusNeutralScore(t *testing.T) {
	// Level 1 triples averaging 3 are (3,3,3) and the permutations of (2,3,3)
	// and (3,3,4). The neutral one has no texts and resolves to nil.
	store := testutil.BuildCorpus(t)
	allowed := map[domain.Triple]bool{domain.Uniform(3): true}
	for _, tr := range domain.TriplesOfClass(domain.CoherenceCoherent) {
		if tr.Score() == 3 {
			allowed[tr] = true
		}
	}
	require.Len(t, allowed, 7)

	for i := 0; i < 50; i++ {
		got, err := resolver.New(store, fmt.Sprint("n", i), nil).Resolve(context.Background(), domain.Extraversion, 3, domain.CoherenceCoherent)
		require.NoError(t, err)
		if got == nil {
			continue
		}
		assert.True(t, allowed[got.FacetScores], "%v", got.FacetScores)
		assert.NotEqual(t, domain.Uniform(3), got.FacetScores)
	}
}

func TestResolveAllExact(t *testing.T) {
	store := testutil.BuildCorpus(t)
	got, err := resolver.New(store, "exact", nil).ResolveAllExact(context.Background(), map[domain.Domain]domain.Triple{
		domain.Extraversion:   {1, 1, 1},
		domain.Agreeableness:  domain.Uniform(3),
		domain.OpenMindedness: {5, 4, 5},
	})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Nil(t, got[domain.Agreeableness])
	require.NotNil(t, got[domain.Extraversion])
	assert.Equal(t, 1, got[domain.Extraversion].Score)
	assert.Len(t, got[domain.Extraversion].Instructions, 3)
	require.NotNil(t, got[domain.OpenMindedness])
	assert.Equal(t, 5, got[domain.OpenMindedness].Score)
}

func TestResolve_IndexedEntryMissingIsAbsent(t *testing.T) {
	store := testutil.NewCorpusFS(t).
		Index(domain.Extraversion, corpus.CoherenceIndex{domain.CoherenceCoherent: {"1/1/1.json"}}).
		Store()
	got, err := resolver.New(store, "m", nil).Resolve(context.Background(), domain.Extraversion, 1, domain.CoherenceCoherent)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestResolve_IntegrityErrorsPropagate(t *testing.T) {
	ctx := context.Background()

	t.Run("corrupt entry", func(t *testing.T) {
		store := testutil.NewCorpusFS(t).
			Raw("extraversion/1/1/1.json", []byte("{")).
			Store()
		_, err := resolver.New(store, "x", nil).ResolveExact(ctx, domain.Extraversion, domain.Uniform(1))
		assert.ErrorIs(t, err, corpus.ErrDataIntegrity)
	})

	t.Run("meta disagrees with key", func(t *testing.T) {
		store := testutil.NewCorpusFS(t).
			Raw("extraversion/1/1/1.json", []byte(`{"_meta":{"domain":"extraversion","facets":[],"scores":[2,2,2]},"coherence":1,"texts":{"t":[]}}`)).
			Store()
		_, err := resolver.New(store, "x", nil).ResolveExact(ctx, domain.Extraversion, domain.Uniform(1))
		assert.ErrorIs(t, err, corpus.ErrDataIntegrity)
	})

	t.Run("stored coherence disagrees with classifier", func(t *testing.T) {
		store := testutil.NewCorpusFS(t).
			EntryWithCoherence(domain.Extraversion, domain.Triple{1, 2, 4}, domain.CoherenceCoherent, map[string][]string{"t": {"i"}}).
			Store()
		_, err := resolver.New(store, "x", nil).ResolveExact(ctx, domain.Extraversion, domain.Triple{1, 2, 4})
		assert.ErrorIs(t, err, corpus.ErrDataIntegrity)
	})

	t.Run("bad index path", func(t *testing.T) {
		store := testutil.NewCorpusFS(t).
			Index(domain.Extraversion, corpus.CoherenceIndex{domain.CoherenceCoherent: {"nine/1/1.json"}}).
			Store()
		_, err := resolver.New(store, "x", nil).Resolve(ctx, domain.Extraversion, 1, domain.CoherenceCoherent)
		assert.ErrorIs(t, err, corpus.ErrDataIntegrity)
	})
}
