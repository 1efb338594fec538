package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/craigtrim/persona-api/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0644))
	return p
}

func TestLoad_DefaultsWhenNothingExists(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(filepath.Join(dir, "missing.yaml"), filepath.Join(dir, ".env"))
	require.NoError(t, err)

	def := DefaultConfig()
	assert.Equal(t, def.Corpus, cfg.Corpus)
	assert.Equal(t, def.Server, cfg.Server)
	assert.Equal(t, llm.ProviderOllama, cfg.LLM.Provider)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_YAML(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "persona.yaml", `
corpus:
  dir: /srv/corpus
history:
  db_path: /srv/history.db
llm:
  provider: gemini
  model: gemini-2.5-pro
  timeout_ms: 30000
logging:
  level: debug
  format: json
server:
  addr: 127.0.0.1:9000
`)
	cfg, err := Load(p, "")
	require.NoError(t, err)

	assert.Equal(t, "/srv/corpus", cfg.Corpus.Dir)
	assert.Equal(t, "/srv/history.db", cfg.History.DBPath)
	assert.Equal(t, llm.ProviderGemini, cfg.LLM.Provider)
	assert.Equal(t, "gemini-2.5-pro", cfg.LLM.Model)
	assert.Equal(t, 30000, cfg.LLM.TimeoutMs)
	assert.Equal(t, "http://localhost:11434", cfg.LLM.Endpoint, "unset keys keep defaults")
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
}

func TestLoad_EnvBeatsYAML(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "persona.yaml", "corpus:\n  dir: /from/yaml\nlogging:\n  level: info\n")
	t.Setenv("PERSONA_CORPUS_DIR", "/from/env")
	t.Setenv("PERSONA_LLM_MODEL", "mistral")

	cfg, err := Load(p, "")
	require.NoError(t, err)
	assert.Equal(t, "/from/env", cfg.Corpus.Dir)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "mistral", cfg.LLM.Model)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := writeFile(t, dir, ".env", "PERSONA_HISTORY_DB=/tmp/dotenv.db\n")
	// Registered so the variable set by godotenv is restored after the test.
	t.Setenv("PERSONA_HISTORY_DB", "")
	require.NoError(t, os.Unsetenv("PERSONA_HISTORY_DB"))

	cfg, err := Load(filepath.Join(dir, "none.yaml"), envFile)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/dotenv.db", cfg.History.DBPath)
}

func TestLoad_ConfigPathFromEnv(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "alt.yaml", "server:\n  addr: :7000\n")
	t.Setenv("PERSONA_CONFIG", p)

	cfg, err := Load("", "")
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.Addr)
}

func TestLoad_BadYAML(t *testing.T) {
	p := writeFile(t, t.TempDir(), "bad.yaml", "corpus: [unclosed")
	_, err := Load(p, "")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LLM.Provider = "telepathy"
	assert.ErrorContains(t, cfg.Validate(), "llm.provider")

	cfg = DefaultConfig()
	cfg.Logging.Format = "xml"
	assert.ErrorContains(t, cfg.Validate(), "logging.format")

	cfg = DefaultConfig()
	cfg.Corpus.Dir = ""
	assert.ErrorContains(t, cfg.Validate(), "corpus")

	cfg = DefaultConfig()
	cfg.LLM.TimeoutMs = 0
	assert.Error(t, cfg.Validate())
}
