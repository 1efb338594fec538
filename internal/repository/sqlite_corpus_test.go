package repository_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/craigtrim/persona-api/internal/corpus"
	"github.com/craigtrim/persona-api/internal/domain"
	"github.com/craigtrim/persona-api/internal/repository"
	"github.com/craigtrim/persona-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorpusRepo_PutAndGet(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewSQLiteCorpusRepo(db)
	ctx := context.Background()

	e := &corpus.Entry{
		Meta:      corpus.Meta{Domain: domain.Conscientiousness, Facets: []string{"Organization", "Productiveness", "Responsibility"}, Scores: []int{4, 5, 4}},
		Coherence: domain.CoherenceCoherent,
		Texts: map[string][]string{
			"I keep things tidy. I finish what I start.": {"Number your steps.", "Summarize next actions."},
		},
	}
	require.NoError(t, repo.PutEntry(ctx, e))

	got, err := repo.Get(ctx, domain.Conscientiousness, domain.Triple{4, 5, 4})
	require.NoError(t, err)
	assert.Equal(t, e, got)

	e.Coherence = domain.CoherenceUncertain
	require.NoError(t, repo.PutEntry(ctx, e), "replace")
	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCorpusRepo_GetMisses(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewSQLiteCorpusRepo(db)
	ctx := context.Background()

	_, err := repo.Get(ctx, domain.Extraversion, domain.Uniform(2))
	assert.ErrorIs(t, err, corpus.ErrNotFound)

	_, err = repo.Get(ctx, domain.Extraversion, domain.Triple{0, 2, 2})
	assert.ErrorIs(t, err, corpus.ErrNotFound)

	_, err = db.Exec(`INSERT INTO corpus_entries (domain, f1, f2, f3, coherence, texts) VALUES ('extraversion', 1, 1, 1, 1, '{oops')`)
	require.NoError(t, err)
	_, err = repo.Get(ctx, domain.Extraversion, domain.Uniform(1))
	assert.ErrorIs(t, err, corpus.ErrDataIntegrity)
}

func TestCorpusRepo_PutEntryRejectsBadMeta(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewSQLiteCorpusRepo(db)

	err := repo.PutEntry(context.Background(), &corpus.Entry{Meta: corpus.Meta{Domain: domain.Extraversion, Scores: []int{1, 2}}})
	assert.ErrorIs(t, err, corpus.ErrDataIntegrity)

	err = repo.PutEntry(context.Background(), &corpus.Entry{Meta: corpus.Meta{Domain: "charisma", Scores: []int{1, 2, 3}}})
	assert.ErrorIs(t, err, corpus.ErrDataIntegrity)
}

func TestCorpusRepo_CoherenceIndex(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewSQLiteCorpusRepo(db)
	ctx := context.Background()

	empty, err := repo.CoherenceIndex(ctx, domain.Agreeableness)
	require.NoError(t, err)
	assert.Empty(t, empty.Paths(domain.CoherenceContradictory))

	want := corpus.BuildIndex()
	require.NoError(t, repo.PutIndex(ctx, domain.Agreeableness, want))
	require.NoError(t, repo.PutIndex(ctx, domain.Agreeableness, want), "replacing keeps one copy")

	got, err := repo.CoherenceIndex(ctx, domain.Agreeableness)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestImportCorpus_FullCorpus(t *testing.T) {
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)
	ctx := context.Background()
	src := testutil.BuildCorpus(t)

	res, err := repository.ImportCorpus(ctx, uow, src, domain.Domains, "test", nil)
	require.NoError(t, err)
	assert.Equal(t, 625, res.Entries)
	assert.NotEmpty(t, res.ID)

	repo := repository.NewSQLiteCorpusRepo(database)
	report, err := corpus.Verify(ctx, repo, domain.Domains)
	require.NoError(t, err)
	assert.True(t, report.OK(), "%v", report.Problems)

	for _, d := range domain.Domains {
		for _, tr := range []domain.Triple{{1, 1, 1}, {2, 4, 5}, {3, 3, 3}} {
			want, err := src.Get(ctx, d, tr)
			require.NoError(t, err)
			got, err := repo.Get(ctx, d, tr)
			require.NoError(t, err)
			assert.Equal(t, want, got, "%s %v", d, tr)
		}
	}

	var imports int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM corpus_imports`).Scan(&imports))
	assert.Equal(t, 1, imports)
}

func TestImportCorpus_MissingEntryWritesNothing(t *testing.T) {
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)
	src := testutil.NewCorpusFS(t).
		Entry(domain.Extraversion, domain.Uniform(1), nil).
		Index(domain.Extraversion, corpus.BuildIndex()).
		Store()

	_, err := repository.ImportCorpus(context.Background(), uow, src, []domain.Domain{domain.Extraversion}, "sparse", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, corpus.ErrDataIntegrity)

	n, err := repository.NewSQLiteCorpusRepo(database).Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestImportCorpus_MissingIndexWritesNothing(t *testing.T) {
	database := testutil.NewTestDB(t)
	dir := testutil.CorpusDir(t)
	require.NoError(t, os.Remove(filepath.Join(dir, string(domain.Extraversion), corpus.IndexFile)))

	_, err := repository.ImportCorpus(context.Background(), testutil.NewTestUoW(database), corpus.NewDirStore(dir, nil), domain.Domains, "no-index", nil)
	require.ErrorIs(t, err, corpus.ErrDataIntegrity)
	assert.ErrorContains(t, err, "not indexed")

	n, err := repository.NewSQLiteCorpusRepo(database).Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestImportCorpus_MislabeledIndexRejected(t *testing.T) {
	database := testutil.NewTestDB(t)
	idx := corpus.BuildIndex()
	idx[domain.CoherenceCoherent], idx[domain.CoherenceUncertain] = idx[domain.CoherenceUncertain], idx[domain.CoherenceCoherent]
	src := testutil.NewCorpusFS(t).Index(domain.Agreeableness, idx)
	for _, tr := range domain.AllTriples() {
		src.Entry(domain.Agreeableness, tr, nil)
	}

	_, err := repository.ImportCorpus(context.Background(), testutil.NewTestUoW(database), src.Store(), []domain.Domain{domain.Agreeableness}, "swapped", nil)
	assert.ErrorIs(t, err, corpus.ErrDataIntegrity)
}

func TestImportCorpus_RollbackOnWriteFailure(t *testing.T) {
	database := testutil.NewTestDB(t)
	boom := errors.New("disk full")
	// The first domain is fully written before its successor's index fails.
	uow := &testutil.FailingUoW{
		Inner:  testutil.NewTestUoW(database),
		Match:  "INSERT INTO coherence_index",
		FailOn: 130,
		Err:    boom,
	}

	_, err := repository.ImportCorpus(context.Background(), uow, testutil.BuildCorpus(t), domain.Domains, "test", nil)
	require.ErrorIs(t, err, boom)

	n, err := repository.NewSQLiteCorpusRepo(database).Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCachedCorpusRepo(t *testing.T) {
	ctx := context.Background()
	store := corpus.NewCachedStore(repository.NewSQLiteCorpusRepo(testutil.NewImportedDB(t)))
	first, err := store.Get(ctx, domain.OpenMindedness, domain.Triple{5, 4, 5})
	require.NoError(t, err)
	again, err := store.Get(ctx, domain.OpenMindedness, domain.Triple{5, 4, 5})
	require.NoError(t, err)
	assert.Same(t, first, again)
}
