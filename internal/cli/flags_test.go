package cli

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/craigtrim/persona-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDomainFlagHint(t *testing.T) {
	tests := []struct {
		msg  string
		want string
	}{
		{"unknown flag: --A3", "Did you mean '--A 3' (with a space)?"},
		{"unknown flag: --N5", "Did you mean '--N 5' (with a space)?"},
		{"unknown flag: --e", "Domain flags must be uppercase. Use '--E' instead of '--e'."},
		{"unknown shorthand flag: 'o' in -o", "Domain flags must be uppercase. Use '--O' instead of '--o'."},
		{"unknown flag: --verbose", ""},
		{"invalid argument \"x\" for \"--A\" flag", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, domainFlagHint(errors.New(tt.msg)), tt.msg)
	}
}

func TestParseDomainArg(t *testing.T) {
	for in, want := range map[string]domain.Domain{
		"E":                     domain.Extraversion,
		"a":                     domain.Agreeableness,
		"Conscientiousness":     domain.Conscientiousness,
		"negative_emotionality": domain.NegativeEmotionality,
		"O":                     domain.OpenMindedness,
	} {
		got, err := parseDomainArg(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := parseDomainArg("X")
	assert.Error(t, err)
}

func TestParseAllScores_CanonicalOrder(t *testing.T) {
	got, err := parseAllScores("3,2,4, 1 ,5")
	require.NoError(t, err)
	assert.Equal(t, map[domain.Domain]int{
		domain.Extraversion:         3,
		domain.Agreeableness:        2,
		domain.Conscientiousness:    4,
		domain.NegativeEmotionality: 1,
		domain.OpenMindedness:       5,
	}, got)

	_, err = parseAllScores("3,2,4,1,6")
	assert.Error(t, err)
}

func TestParseTriple(t *testing.T) {
	got, err := parseTriple("4,4,5")
	require.NoError(t, err)
	assert.Equal(t, domain.Triple{4, 4, 5}, got)

	_, err = parseTriple("4,4")
	assert.Error(t, err)
}

func TestWizardAnswers_Options(t *testing.T) {
	w := newWizardAnswers()
	w.coherence = 2
	w.length = "300"
	opts, err := w.options()
	require.NoError(t, err)
	assert.Equal(t, 2, opts.random)
	assert.Equal(t, 300, opts.length)
	assert.Equal(t, 1, opts.count)

	w = newWizardAnswers()
	w.mode = wizardModeExplicit
	*w.scores[domain.Agreeableness] = 5
	opts, err = w.options()
	require.NoError(t, err)
	assert.Equal(t, map[domain.Domain]int{domain.Agreeableness: 5}, opts.scores)

	req, err := opts.request()
	require.NoError(t, err)
	assert.False(t, req.Random())

	w = newWizardAnswers()
	w.mode = wizardModeExplicit
	opts, err = w.options()
	require.NoError(t, err)
	_, err = opts.request()
	assert.ErrorIs(t, err, errNoGenerateMode)
}

func TestValidatePositiveInt(t *testing.T) {
	assert.NoError(t, validatePositiveInt(""))
	assert.NoError(t, validatePositiveInt("12"))
	assert.Error(t, validatePositiveInt("0"))
	assert.Error(t, validatePositiveInt("abc"))
}

func TestRunServer_ShutsDownOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	srv := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}

	err := runServer(ctx, srv, zap.NewNop(), cancel)
	assert.NoError(t, err)
}

func TestRoot_UnderscoreFlagAlias(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "generate", "--random", "1", "--seed", "8", "--dry_run")
	require.NoError(t, err)
	assert.Contains(t, out, "Prompt:")
}
