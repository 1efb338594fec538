package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/craigtrim/persona-api/internal/config"
	"github.com/craigtrim/persona-api/internal/llm"
	"github.com/craigtrim/persona-api/internal/repository"
	"github.com/craigtrim/persona-api/internal/service"
	"github.com/craigtrim/persona-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	text string
}

func (f fakeCompleter) Complete(context.Context, llm.CompletionRequest) (*llm.CompletionResponse, error) {
	text := f.text
	if text == "" {
		text = "You MUST answer with quiet confidence."
	}
	return &llm.CompletionResponse{Text: text, Model: "fake"}, nil
}

func (fakeCompleter) Available(context.Context) bool { return true }

// testApp wires an App over a complete temp-dir corpus and an in-memory
// history database.
func testApp(t *testing.T) *App {
	t.Helper()
	store := testutil.BuildCorpus(t)
	history := repository.NewSQLiteProfileRepo(testutil.NewTestDB(t))
	cfg := config.DefaultConfig()

	a := &App{
		Config:  cfg,
		Store:   store,
		Service: service.NewPersonaService(store, fakeCompleter{}, service.WithHistory(history), service.WithModel("fake")),
	}
	a.NewService = func(ctx context.Context, llmCfg llm.LLMConfig) (service.PersonaService, error) {
		return service.NewPersonaService(store, fakeCompleter{text: "model=" + llmCfg.Model},
			service.WithHistory(history), service.WithModel(llmCfg.Model)), nil
	}
	return a
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return stripANSI(buf.String()), err
}

func stripANSI(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == 0x1b && i+1 < len(s) && s[i+1] == '[' {
			j := i + 2
			for j < len(s) && !(s[j] >= 'A' && s[j] <= 'Z' || s[j] >= 'a' && s[j] <= 'z') {
				j++
			}
			i = j
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// --- generate ---

func TestGenerate_RandomDryRun(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "generate", "--random", "1", "--seed", "123456", "--dry-run", "--length", "250")
	require.NoError(t, err)

	assert.Contains(t, out, "Seed: 123456")
	assert.Contains(t, out, "Mode: Random: 1 - coherent (facets within ±1)")
	assert.Contains(t, out, "Target length: ~250 chars")
	assert.Contains(t, out, "Traits (")
	assert.Contains(t, out, "\nPrompt:\n")
	assert.NotContains(t, out, "Profile (")

	again, err := executeCmd(t, app, "generate", "-r", "1", "-s", "123456", "-d", "-l", "250")
	require.NoError(t, err)
	assert.Equal(t, out, again)
}

func TestGenerate_ExplicitSeedIsStable(t *testing.T) {
	app := testApp(t)

	first, err := executeCmd(t, app, "generate", "--A", "5", "--N", "1", "--dry-run")
	require.NoError(t, err)
	second, err := executeCmd(t, app, "generate", "--N", "1", "--A", "5", "--dry-run")
	require.NoError(t, err)

	assert.Equal(t, first, second, "same scores give the same seed regardless of flag order")
	assert.Contains(t, first, "Mode: Explicit: A(Agreeable)=5, N(Neurotic)=1")
	assert.Contains(t, first, "A₅")
}

func TestGenerate_FullRunRecordsHistory(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "generate", "--E", "4", "--seed", "42")
	require.NoError(t, err)
	assert.Contains(t, out, "Profile (38 chars):")
	assert.Contains(t, out, "You MUST answer with quiet confidence.")
	assert.Contains(t, out, "saved as ")

	hist, err := executeCmd(t, app, "history", "list")
	require.NoError(t, err)
	assert.Contains(t, hist, "explicit")
	assert.Contains(t, hist, "E₄")
}

func TestGenerate_ModelOverrideUsesFactory(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "generate", "--random", "2", "--model", "mistral")
	require.NoError(t, err)
	assert.Contains(t, out, "model=mistral")
}

func TestGenerate_JSON(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "generate", "--random", "3", "--seed", "777", "--dry-run", "--json", "--length", "100")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "777", doc["seed"])
	assert.Equal(t, "random", doc["mode"])
	assert.EqualValues(t, 3, doc["coherence"])
	assert.EqualValues(t, 100, doc["target_length"])
	assert.NotEmpty(t, doc["prompt"])
	assert.NotContains(t, doc, "profile")
	scores := doc["domain_scores"].(map[string]any)
	assert.Len(t, scores, 5)
	assert.Contains(t, scores, "O")
}

func TestGenerate_JSONCount(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "generate", "--random", "1", "--seed", "5", "--count", "3", "--json")
	require.NoError(t, err)

	var docs []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &docs))
	require.Len(t, docs, 3)
	assert.EqualValues(t, len("You MUST answer with quiet confidence."), docs[0]["profile_length"])
	assert.NotEqual(t, docs[0]["seed"], docs[1]["seed"])
}

func TestGenerate_Errors(t *testing.T) {
	app := testApp(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"both modes", []string{"--random", "1", "--A", "2"}, "cannot use --random with domain flags (--A, --C, --E, --N, --O)"},
		{"no mode", nil, "must specify either --random or at least one domain flag"},
		{"joined flag", []string{"--A3"}, "Did you mean '--A 3' (with a space)?"},
		{"lowercase flag", []string{"--a", "3"}, "Domain flags must be uppercase. Use '--A' instead of '--a'."},
		{"score range", []string{"--O", "9"}, "--O must be between 1 and 5"},
		{"coherence range", []string{"--random", "4"}, "coherence must be between 1 and 3"},
		{"count", []string{"--random", "1", "--count", "0"}, "--count must be at least 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := executeCmd(t, app, append([]string{"generate"}, tt.args...)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

// --- resolve ---

func TestResolve_Score(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "resolve", "extraversion", "5", "--seed", "99")
	require.NoError(t, err)
	assert.Contains(t, out, "Domain: extraversion")
	assert.Contains(t, out, "Score: 5")
	assert.Contains(t, out, "Coherence: ● 1 coherent")
	assert.Contains(t, out, "\nText:\n  ")
	assert.Contains(t, out, "\nInstructions:\n  - ")

	byLetter, err := executeCmd(t, app, "resolve", "E", "5", "--seed", "99")
	require.NoError(t, err)
	assert.Equal(t, out, byLetter)
}

func TestResolve_NeutralTripleHasNoMatch(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "resolve", "agreeableness", "--facets", "3,3,3")
	require.NoError(t, err)
	assert.Equal(t, "No matching configuration found\n", out)

	out, err = executeCmd(t, app, "resolve", "agreeableness", "--facets", "3,3,3", "--json")
	require.NoError(t, err)
	assert.Equal(t, "null\n", out)
}

func TestResolve_All(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "resolve", "--all", "5,1,4,2,5", "--seed", "314", "--json")
	require.NoError(t, err)

	var doc map[string]map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Len(t, doc, 5)
	assert.EqualValues(t, 5, doc["extraversion"]["score"])
	assert.EqualValues(t, 1, doc["agreeableness"]["score"])

	text, err := executeCmd(t, app, "resolve", "--all", "5,1,4,2,5", "--seed", "314")
	require.NoError(t, err)
	assert.Contains(t, text, "EXTRAVERSION (score: 5)")
	assert.Contains(t, text, "OPEN MINDEDNESS (score: 5)")
}

func TestResolve_CoherenceZeroAllowsEveryClass(t *testing.T) {
	app := testApp(t)

	seen := map[int]bool{}
	for i := 0; i < 80; i++ {
		out, err := executeCmd(t, app, "resolve", "open_mindedness", "2", "--coherence", "0", "--seed", fmt.Sprint(i), "--json")
		require.NoError(t, err)
		var b struct {
			Coherence int `json:"coherence"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &b))
		seen[b.Coherence] = true
	}
	assert.True(t, seen[1], "coherent")
	assert.True(t, len(seen) > 1, "only coherent triples resolved: %v", seen)
}

func TestResolve_Errors(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "resolve", "charisma", "3")
	assert.ErrorContains(t, err, "unknown domain")

	_, err = executeCmd(t, app, "resolve", "extraversion", "6")
	assert.ErrorContains(t, err, "between 1 and 5")

	_, err = executeCmd(t, app, "resolve", "extraversion")
	assert.Error(t, err)

	_, err = executeCmd(t, app, "resolve", "--all", "1,2,3")
	assert.ErrorContains(t, err, "exactly 5")
}

// --- random / facets ---

func TestRandom(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "random", "--seed", "123456")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Seed: 123456\n"))
	assert.Contains(t, out, "Negative Emotionality: ")
	assert.Contains(t, out, "  emotional_volatility: ")

	many, err := executeCmd(t, app, "random", "--seed", "123456", "--count", "2")
	require.NoError(t, err)
	assert.Contains(t, many, "--- Profile 1 (seed: ")
	assert.Contains(t, many, "--- Profile 2 (seed: ")

	again, err := executeCmd(t, app, "random", "--seed", "123456", "--count", "2")
	require.NoError(t, err)
	assert.Equal(t, many, again)
}

func TestFacets(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "facets", "--seed", "2024")
	require.NoError(t, err)
	assert.Contains(t, out, "Seed: 2024")
	assert.Contains(t, out, "EXTRAVERSION")
	assert.Contains(t, out, "  sociability (")

	js, err := executeCmd(t, app, "facets", "--seed", "2024", "--json")
	require.NoError(t, err)
	var doc service.FacetTexts
	require.NoError(t, json.Unmarshal([]byte(js), &doc))
	assert.Equal(t, "2024", doc.Personality.Seed)
}

// --- corpus ---

func TestCorpus_BuildVerifyImportCoherence(t *testing.T) {
	app := testApp(t)
	dir := filepath.Join(t.TempDir(), "text")
	dbPath := filepath.Join(t.TempDir(), "corpus.db")

	out, err := executeCmd(t, app, "corpus", "build", "--out", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 625 entries for 5 domains")

	out, err = executeCmd(t, app, "corpus", "verify", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "625 entries verified")

	out, err = executeCmd(t, app, "corpus", "import", "--from", dir, "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 625 entries")

	out, err = executeCmd(t, app, "corpus", "coherence", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "negative_emotionality")
	assert.Contains(t, out, "29")
	assert.Contains(t, out, "66")
	assert.Contains(t, out, "125")
}

func TestCorpus_VerifyFailsOnMissingEntry(t *testing.T) {
	app := testApp(t)
	dir := testutil.CorpusDir(t)
	require.NoError(t, os.Remove(filepath.Join(dir, "extraversion", "1", "1", "1.json")))

	out, err := executeCmd(t, app, "corpus", "verify", "--dir", dir, "--domain", "extraversion")
	assert.ErrorIs(t, err, errVerifyFailed)
	assert.Contains(t, out, "extraversion/")
}

func TestCorpus_SourceFlagsExclusive(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "corpus", "coherence", "--dir", "a", "--db", "b")
	assert.ErrorContains(t, err, "mutually exclusive")
}

// --- history / wizard ---

func TestHistory_Disabled(t *testing.T) {
	app := testApp(t)
	app.Service = service.NewPersonaService(app.Store, nil)

	_, err := executeCmd(t, app, "history", "list")
	assert.ErrorIs(t, err, service.ErrHistoryDisabled)
	assert.ErrorContains(t, err, "PERSONA_HISTORY_DB")
}

func TestWizard_RequiresTerminal(t *testing.T) {
	app := testApp(t)
	app.IsInteractive = func() bool { return false }

	_, err := executeCmd(t, app, "wizard")
	assert.ErrorContains(t, err, "interactive terminal")
}
