// Package gemini is a generation provider for the Google Generative Language REST API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/kailas-cloud/revisor/internal/domain"
	"github.com/kailas-cloud/revisor/internal/metrics"
)

// Defaults.
const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	DefaultModel   = "gemini-2.5-flash"
	DefaultTimeout = 60 * time.Second

	provider     = "gemini"
	maxErrorBody = 4 << 10
)

// Config holds the Gemini provider settings.
type Config struct {
	BaseURL string
	Model   string
	Timeout time.Duration
	// HealthKey is the credential used by HealthCheck. Empty disables the probe.
	HealthKey string
	Logger    *zap.Logger
}

// Generator calls models/{model}:generateContent with the credential in the query.
type Generator struct {
	hc        *http.Client
	baseURL   string
	model     string
	healthKey string
	logger    *zap.Logger
}

// NewGenerator creates a Gemini generator.
func NewGenerator(cfg *Config) *Generator {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{
		hc:        &http.Client{Timeout: timeout},
		baseURL:   base,
		model:     model,
		healthKey: cfg.HealthKey,
		logger:    logger,
	}
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Generate implements domain.Generator. Returns the first candidate's text.
func (g *Generator) Generate(ctx context.Context, credential, prompt string) (string, error) {
	body, err := json.Marshal(&generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	u := g.baseURL + "/v1beta/models/" + url.PathEscape(g.model) + ":generateContent?key=" + url.QueryEscape(credential)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := g.hc.Do(req)
	if err != nil {
		g.observe("error", start)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		// The URL carries the credential; report only the cause.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return "", fmt.Errorf("gemini request failed: %v: %w", err, domain.ErrGenerationProviderError)
	}
	defer resp.Body.Close() //nolint:errcheck // read-only body

	if resp.StatusCode/100 != 2 {
		g.observe("error", start)
		slurp, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", upstreamError(resp.StatusCode, slurp)
	}

	var gr generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		g.observe("error", start)
		return "", fmt.Errorf("decode response: %v: %w", err, domain.ErrGenerationProviderError)
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		g.observe("error", start)
		return "", fmt.Errorf("gemini returned no candidates: %w", domain.ErrGenerationProviderError)
	}

	var sb strings.Builder
	for _, p := range gr.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	g.observe("success", start)
	return sb.String(), nil
}

// HealthCheck lists models with the health credential.
func (g *Generator) HealthCheck(ctx context.Context) error {
	if g.healthKey == "" {
		return nil
	}
	u := g.baseURL + "/v1beta/models?pageSize=1&key=" + url.QueryEscape(g.healthKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	resp, err := g.hc.Do(req)
	if err != nil {
		return fmt.Errorf("list models: %w", domain.ErrGenerationProviderError)
	}
	defer resp.Body.Close() //nolint:errcheck // read-only body
	if resp.StatusCode/100 != 2 {
		slurp, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return upstreamError(resp.StatusCode, slurp)
	}
	return nil
}

func (g *Generator) observe(status string, start time.Time) {
	metrics.GenerationRequestsTotal.WithLabelValues(provider, g.model, status).Inc()
	metrics.GenerationRequestDuration.WithLabelValues(provider, g.model).Observe(time.Since(start).Seconds())
}

// upstreamError extracts error.message from a Gemini error body.
func upstreamError(status int, body []byte) error {
	msg := gjson.GetBytes(body, "error.message").String()
	if msg == "" {
		msg = strings.TrimSpace(string(body))
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return fmt.Errorf("gemini API error %d: %s: %w", status, msg, domain.ErrGenerationProviderError)
}
