package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/kailas-cloud/revisor/internal/domain"
	"github.com/kailas-cloud/revisor/internal/metrics"
)

// DefaultTimeout bounds a single chat completion call.
const DefaultTimeout = 60 * time.Second

// Generator is a generation provider using the OpenAI-compatible chat completion API.
// The credential is chosen per call, so one client is kept per credential.
type Generator struct {
	baseURL     string
	model       string
	temperature float32
	provider    string
	healthKey   string
	hc          *http.Client
	logger      *zap.Logger

	mu      sync.Mutex
	clients map[string]*openai.Client
}

// Config holds the chat completion provider settings.
type Config struct {
	BaseURL     string
	Model       string
	Temperature float32
	Provider    string
	Timeout     time.Duration
	// HealthKey is the credential used by HealthCheck. Empty disables the probe.
	HealthKey string
	Logger    *zap.Logger
}

// NewGenerator creates an OpenAI-compatible generation provider.
func NewGenerator(cfg *Config) *Generator {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	provider := cfg.Provider
	if provider == "" {
		provider = "openai"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{
		baseURL:     cfg.BaseURL,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		provider:    provider,
		healthKey:   cfg.HealthKey,
		hc:          &http.Client{Timeout: timeout},
		logger:      logger,
		clients:     make(map[string]*openai.Client),
	}
}

func (g *Generator) client(credential string) *openai.Client {
	g.mu.Lock()
	defer g.mu.Unlock()
	if c, ok := g.clients[credential]; ok {
		return c
	}
	clientCfg := openai.DefaultConfig(credential)
	if g.baseURL != "" {
		clientCfg.BaseURL = g.baseURL
	}
	clientCfg.HTTPClient = g.hc
	c := openai.NewClientWithConfig(clientCfg)
	g.clients[credential] = c
	return c
}

// Generate implements domain.Generator. Returns the first choice's content.
func (g *Generator) Generate(ctx context.Context, credential, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: g.temperature,
	}

	start := time.Now()
	resp, err := g.client(credential).CreateChatCompletion(ctx, req)
	duration := time.Since(start)

	if err != nil {
		metrics.GenerationRequestsTotal.WithLabelValues(g.provider, g.model, "error").Inc()
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", parseAPIError(err)
	}

	if len(resp.Choices) == 0 {
		metrics.GenerationRequestsTotal.WithLabelValues(g.provider, g.model, "error").Inc()
		return "", fmt.Errorf("empty completion response: %w", domain.ErrGenerationProviderError)
	}

	metrics.GenerationRequestsTotal.WithLabelValues(g.provider, g.model, "success").Inc()
	metrics.GenerationRequestDuration.WithLabelValues(g.provider, g.model).Observe(duration.Seconds())

	g.logger.Debug("completion received",
		zap.String("provider", g.provider),
		zap.String("model", g.model),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
		zap.Duration("duration", duration),
	)

	return resp.Choices[0].Message.Content, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (g *Generator) HealthCheck(ctx context.Context) error {
	if g.healthKey == "" {
		return nil
	}
	if _, err := g.client(g.healthKey).ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", parseAPIError(err))
	}
	return nil
}

// parseAPIError extracts a human-readable error from the API response.
// All errors are wrapped with domain.ErrGenerationProviderError for correct 502 mapping.
func parseAPIError(err error) error {
	wrap := domain.ErrGenerationProviderError

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		detail := extractDetail(reqErr.Body)
		if detail == "" {
			detail = strings.TrimSpace(string(reqErr.Body))
		}
		return fmt.Errorf("generation API error %d: %s: %w", reqErr.HTTPStatusCode, detail, wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("generation API error %d: %s: %w", apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("generation request failed: %w", wrap)
}

// extractDetail reads "detail" (Nebius) or "error.message" from a JSON error body.
func extractDetail(body []byte) string {
	res := gjson.GetManyBytes(body, "detail", "error.message")
	for _, r := range res {
		if r.Type == gjson.String && r.Str != "" {
			return r.Str
		}
	}
	return ""
}
