// Package completioncache caches generation results in a key-value store.
package completioncache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/revisor/internal/db"
	"github.com/kailas-cloud/revisor/internal/domain"
)

// DefaultKeyPrefix namespaces cached completions.
var DefaultKeyPrefix = domain.KeyPrefix + "completion:"

// store is the consumer interface for the completion cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Config controls cache keys and expiry.
type Config struct {
	// Namespace separates entries of different models sharing one store.
	Namespace string
	KeyPrefix string
	TTL       time.Duration
}

// CachedGenerator caches completions keyed by prompt. The credential is not part of the key.
type CachedGenerator struct {
	inner      domain.Generator
	store      store
	cfg        Config
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner domain.Generator,
	s store,
	cfg Config,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedGenerator {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = DefaultKeyPrefix
	}
	return &CachedGenerator{
		inner:      inner,
		store:      s,
		cfg:        cfg,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Generate returns a cached completion or calls the inner generator.
// Failed generations are never cached.
func (c *CachedGenerator) Generate(ctx context.Context, credential, prompt string) (string, error) {
	key := c.cacheKey(prompt)

	if text, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return text, nil
	}

	c.incCache("miss")

	text, err := c.inner.Generate(ctx, credential, prompt)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}

	c.putToCache(ctx, key, text)
	return text, nil
}

// HealthCheck delegates to the inner generator when it supports probing.
func (c *CachedGenerator) HealthCheck(ctx context.Context) error {
	if hc, ok := c.inner.(domain.HealthChecker); ok {
		return hc.HealthCheck(ctx)
	}
	return nil
}

func (c *CachedGenerator) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *CachedGenerator) cacheKey(prompt string) string {
	h := sha256.New()
	h.Write([]byte(c.cfg.Namespace))
	h.Write([]byte{0})
	h.Write([]byte(prompt))
	return c.cfg.KeyPrefix + hex.EncodeToString(h.Sum(nil))
}

func (c *CachedGenerator) getFromCache(ctx context.Context, key string) (string, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached completion", zap.String("key", key), zap.Error(err))
		}
		return "", false
	}
	if len(data) == 0 {
		return "", false
	}
	return string(data), true
}

func (c *CachedGenerator) putToCache(ctx context.Context, key, text string) {
	if text == "" {
		return
	}
	if err := c.store.SetWithTTL(ctx, key, []byte(text), c.cfg.TTL); err != nil {
		c.logger.Warn("Failed to cache completion", zap.String("key", key), zap.Error(err))
	}
}
