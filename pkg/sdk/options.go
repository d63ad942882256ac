package revisor

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	provider  string // "gemini" or "openai"
	baseURL   string
	model     string
	generator Generator

	credentials []string

	cacheAddrs    []string
	cachePassword string
	cacheTTL      time.Duration

	threshold    float64
	maxDocuments int
	timeout      time.Duration

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithGemini selects the Gemini REST API. An empty model uses the default.
func WithGemini(model string) Option {
	return optionFunc(func(c *clientConfig) {
		c.provider = providerGemini
		c.model = model
	})
}

// WithOpenAI selects an OpenAI-compatible chat completions API.
// An empty baseURL targets api.openai.com.
func WithOpenAI(baseURL, model string) Option {
	return optionFunc(func(c *clientConfig) {
		c.provider = providerOpenAI
		c.baseURL = baseURL
		c.model = model
	})
}

// WithGenerator plugs in a custom generation backend. Overrides WithGemini and WithOpenAI.
func WithGenerator(g Generator) Option {
	return optionFunc(func(c *clientConfig) {
		c.generator = g
	})
}

// WithCredentials sets the default credentials, tried in order on each call.
func WithCredentials(creds ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.credentials = append(c.credentials, creds...)
	})
}

// WithRedisCache caches completions in Redis for ttl (0 = no expiry).
func WithRedisCache(addr, password string, ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheAddrs = []string{addr}
		c.cachePassword = password
		c.cacheTTL = ttl
	})
}

// WithThreshold sets the minimum locator score a region needs to be rewritten.
// Default: 0.05.
func WithThreshold(t float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.threshold = t
	})
}

// WithMaxDocuments bounds the number of open documents. Default: unbounded.
func WithMaxDocuments(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxDocuments = n
	})
}

// WithTimeout sets the per-request timeout of the built-in providers.
// Default: 60s.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.timeout = d
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
