package corpus

import (
	"context"
	"testing"

	"github.com/craigtrim/persona-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingStore struct {
	gets, indices int
	entry         *Entry
}

func (c *countingStore) Get(_ context.Context, _ domain.Domain, t domain.Triple) (*Entry, error) {
	c.gets++
	if t == domain.Uniform(5) {
		return nil, ErrNotFound
	}
	return c.entry, nil
}

func (c *countingStore) CoherenceIndex(context.Context, domain.Domain) (CoherenceIndex, error) {
	c.indices++
	return BuildIndex(), nil
}

func TestCachedStore(t *testing.T) {
	ctx := context.Background()
	inner := &countingStore{entry: &Entry{Texts: map[string][]string{}}}
	s := NewCachedStore(inner)

	for range 3 {
		e, err := s.Get(ctx, domain.Agreeableness, domain.Triple{1, 2, 1})
		require.NoError(t, err)
		assert.Same(t, inner.entry, e)

		_, err = s.Get(ctx, domain.Agreeableness, domain.Uniform(5))
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = s.CoherenceIndex(ctx, domain.Agreeableness)
		require.NoError(t, err)
	}

	assert.Equal(t, 4, inner.gets, "hit cached once, miss retried every call")
	assert.Equal(t, 1, inner.indices)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err := s.Get(canceled, domain.Agreeableness, domain.Triple{1, 2, 1})
	assert.ErrorIs(t, err, context.Canceled)
}
