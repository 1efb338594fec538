package llm

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestDefaultConfig_ProfileTimeoutFallsBackToGlobal(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, ProviderOllama, cfg.Provider)
	assert.Equal(t, 120000, cfg.TaskTimeout(TaskProfile))
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("PERSONA_LLM_PROVIDER", "gemini")
	t.Setenv("PERSONA_LLM_MODEL", "gemini-2.5-pro")
	t.Setenv("PERSONA_LLM_TIMEOUT_MS", "9000")
	t.Setenv("PERSONA_LLM_PROFILE_TIMEOUT_MS", "15000")
	t.Setenv("PERSONA_LLM_MAX_RETRIES", "3")
	t.Setenv("GEMINI_API_KEY", "from-gemini-var")

	cfg := LoadConfig()

	assert.Equal(t, ProviderGemini, cfg.Provider)
	assert.Equal(t, "gemini-2.5-pro", cfg.Model)
	assert.Equal(t, 9000, cfg.TimeoutMs)
	assert.Equal(t, 15000, cfg.TaskTimeout(TaskProfile))
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, "from-gemini-var", cfg.APIKey)
}

func TestLoadConfig_PersonaKeyWins(t *testing.T) {
	t.Setenv("PERSONA_LLM_API_KEY", "persona")
	t.Setenv("GEMINI_API_KEY", "gemini")
	assert.Equal(t, "persona", LoadConfig().APIKey)
}

func TestLoadConfig_InvalidNumbersIgnored(t *testing.T) {
	t.Setenv("PERSONA_LLM_TIMEOUT_MS", "soon")
	t.Setenv("PERSONA_LLM_MAX_RETRIES", "-1")
	t.Setenv("PERSONA_LLM_PROFILE_TIMEOUT_MS", "not-a-number")

	cfg := LoadConfig()

	assert.Equal(t, 120000, cfg.TimeoutMs)
	assert.Equal(t, 1, cfg.MaxRetries)
	assert.Equal(t, 120000, cfg.TaskTimeout(TaskProfile))
}

func TestLogObserver_Format(t *testing.T) {
	var buf bytes.Buffer
	NewLogObserver(&buf).OnCallComplete(LLMCallEvent{Task: TaskProfile, Model: "m", LatencyMs: 12, ErrorCode: "TIMEOUT"})
	assert.Contains(t, buf.String(), "llm_call task=profile model=m latency_ms=12 status=err:TIMEOUT")
}

func TestZapObserver_Levels(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	obs := NewZapObserver(zap.New(core))

	obs.OnCallComplete(LLMCallEvent{Task: TaskProfile, Model: "m", Success: true})
	obs.OnCallComplete(LLMCallEvent{Task: TaskProfile, Model: "m", ErrorCode: "UNAVAILABLE"})

	entries := logs.All()
	if assert.Len(t, entries, 2) {
		assert.Equal(t, zap.InfoLevel, entries[0].Level)
		assert.Equal(t, zap.WarnLevel, entries[1].Level)
		assert.Equal(t, "UNAVAILABLE", entries[1].ContextMap()["error_code"])
	}
}
