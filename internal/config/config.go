// Package config assembles runtime settings from defaults, an optional YAML
// file, a .env file and PERSONA_* environment variables, in that order of
// increasing precedence. Command-line flags are applied on top by the CLI.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/craigtrim/persona-api/internal/llm"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// CorpusConfig locates the corpus. When DBPath is set the SQLite store is
// used; otherwise the directory tree at Dir.
type CorpusConfig struct {
	Dir    string `yaml:"dir"`
	DBPath string `yaml:"db_path"`
}

// HistoryConfig enables profile history when DBPath is non-empty.
type HistoryConfig struct {
	DBPath string `yaml:"db_path"`
}

// LoggingConfig selects the zap logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "console" or "json"
}

// ServerConfig configures `persona serve`.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Config is the full runtime configuration.
type Config struct {
	Corpus  CorpusConfig  `yaml:"corpus"`
	History HistoryConfig `yaml:"history"`
	LLM     llm.LLMConfig `yaml:"llm"`
	Logging LoggingConfig `yaml:"logging"`
	Server  ServerConfig  `yaml:"server"`
}

// DefaultConfig returns the settings used when nothing else is configured.
func DefaultConfig() *Config {
	return &Config{
		Corpus:  CorpusConfig{Dir: filepath.Join("data", "text")},
		LLM:     llm.DefaultConfig(),
		Logging: LoggingConfig{Level: "warn", Format: "console"},
		Server:  ServerConfig{Addr: ":8000"},
	}
}

// DefaultPath is the YAML file read when PERSONA_CONFIG is unset.
const DefaultPath = "persona.yaml"

// Load builds the configuration. path may be empty, in which case
// PERSONA_CONFIG or DefaultPath is tried; a missing file is not an error.
// envFile is loaded into the process environment first when it exists.
func Load(path, envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	if path == "" {
		path = os.Getenv("PERSONA_CONFIG")
	}
	if path == "" {
		path = DefaultPath
	}

	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("PERSONA_CORPUS_DIR"); v != "" {
		c.Corpus.Dir = v
	}
	if v := os.Getenv("PERSONA_CORPUS_DB"); v != "" {
		c.Corpus.DBPath = v
	}
	if v := os.Getenv("PERSONA_HISTORY_DB"); v != "" {
		c.History.DBPath = v
	}
	if v := os.Getenv("PERSONA_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("PERSONA_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("PERSONA_ADDR"); v != "" {
		c.Server.Addr = v
	}
	llm.ApplyEnv(&c.LLM)
}

// Validate rejects settings no component can run with.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case llm.ProviderOllama, llm.ProviderGemini:
	default:
		return fmt.Errorf("llm.provider: unknown provider %q", c.LLM.Provider)
	}
	if c.LLM.TimeoutMs <= 0 {
		return fmt.Errorf("llm.timeout_ms must be positive")
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: want console or json, got %q", c.Logging.Format)
	}
	if c.Corpus.Dir == "" && c.Corpus.DBPath == "" {
		return fmt.Errorf("corpus: dir or db_path is required")
	}
	return nil
}
