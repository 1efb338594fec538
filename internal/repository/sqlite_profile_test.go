package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/craigtrim/persona-api/internal/domain"
	"github.com/craigtrim/persona-api/internal/repository"
	"github.com/craigtrim/persona-api/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileRepo_SaveAssignsIDAndTime(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewSQLiteProfileRepo(db)
	ctx := context.Background()

	rec := testutil.NewTestProfileRecord("482913")
	require.NoError(t, repo.Save(ctx, rec))

	_, err := uuid.Parse(rec.ID)
	require.NoError(t, err)
	assert.False(t, rec.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, "482913", got.Seed)
	assert.Equal(t, repository.ModeRandom, got.Mode)
	assert.Equal(t, domain.CoherenceCoherent, got.Coherence)
	assert.Equal(t, rec.Scores, got.Scores)
	assert.Equal(t, rec.Traits, got.Traits)
	assert.Equal(t, rec.Prompt, got.Prompt)
	assert.Equal(t, rec.Profile, got.Profile)
	assert.True(t, rec.CreatedAt.Equal(got.CreatedAt))
}

func TestProfileRepo_GetByID_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewSQLiteProfileRepo(db)

	_, err := repo.GetByID(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProfileRepo_ListNewestFirst(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewSQLiteProfileRepo(db)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, seed := range []string{"100000", "200000", "300000"} {
		rec := testutil.NewTestProfileRecord(seed, testutil.WithCreatedAt(base.Add(time.Duration(i)*time.Minute)))
		require.NoError(t, repo.Save(ctx, rec))
	}

	all, err := repo.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "300000", all[0].Seed)
	assert.Equal(t, "100000", all[2].Seed)

	two, err := repo.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, two, 2)
	assert.Equal(t, "200000", two[1].Seed)
}

func TestProfileRepo_ExplicitMode(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewSQLiteProfileRepo(db)
	ctx := context.Background()

	scores := map[domain.Domain]int{domain.Agreeableness: 5, domain.Extraversion: 1}
	rec := testutil.NewTestProfileRecord("777777",
		testutil.WithMode(repository.ModeExplicit),
		testutil.WithScores(scores),
		testutil.WithProfileText("Your responses MUST be warm."),
	)
	rec.Coherence = domain.CoherenceAny
	require.NoError(t, repo.Save(ctx, rec))

	got, err := repo.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, repository.ModeExplicit, got.Mode)
	assert.Equal(t, scores, got.Scores)
	assert.Equal(t, domain.CoherenceAny, got.Coherence)
	assert.Equal(t, "Your responses MUST be warm.", got.Profile)
}

func TestProfileRepo_RejectsUnknownMode(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewSQLiteProfileRepo(db)

	rec := testutil.NewTestProfileRecord("1", testutil.WithMode("vibes"))
	assert.Error(t, repo.Save(context.Background(), rec))
}
