package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// contentGenerator is the slice of the genai models service the Gemini
// client uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// geminiClient implements Completer using the Gemini API.
type geminiClient struct {
	cfg      LLMConfig
	models   contentGenerator
	observer Observer
}

// NewGeminiClient creates a Completer backed by Gemini. cfg.APIKey is
// required; cfg.Endpoint, when it is not the Ollama default, overrides the
// API base URL.
func NewGeminiClient(ctx context.Context, cfg LLMConfig, observer Observer) (Completer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: gemini requires an API key", ErrNotConfigured)
	}
	if cfg.Model == "" || cfg.Model == DefaultConfig().Model {
		cfg.Model = DefaultGeminiModel
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.Endpoint != "" && cfg.Endpoint != DefaultConfig().Endpoint {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.Endpoint}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return newGeminiClient(cfg, client.Models, observer), nil
}

func newGeminiClient(cfg LLMConfig, models contentGenerator, observer Observer) *geminiClient {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &geminiClient{cfg: cfg, models: models, observer: observer}
}

func (c *geminiClient) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	temp, maxTok := c.cfg.params(req)
	gc := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(temp)),
	}
	if maxTok > 0 {
		gc.MaxOutputTokens = int32(maxTok)
	}
	if req.System != "" {
		gc.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}

	return runAttempts(ctx, c.cfg, req.Task, c.observer, func(ctx context.Context) (string, string, error) {
		resp, err := c.models.GenerateContent(ctx, c.cfg.Model, genai.Text(req.Prompt), gc)
		if err != nil {
			return "", "", err
		}
		return resp.Text(), resp.ModelVersion, nil
	})
}

// Available reports whether an API key is present. The Gemini API offers no
// cheap unauthenticated probe.
func (c *geminiClient) Available(context.Context) bool {
	return c.cfg.APIKey != ""
}
