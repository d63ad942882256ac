package revisor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/revisor/internal/db"
	dbRedis "github.com/kailas-cloud/revisor/internal/db/redis"
	"github.com/kailas-cloud/revisor/internal/domain"
	domreview "github.com/kailas-cloud/revisor/internal/domain/review"
	domws "github.com/kailas-cloud/revisor/internal/domain/workspace"
	"github.com/kailas-cloud/revisor/internal/metrics"
	"github.com/kailas-cloud/revisor/internal/repository/completioncache"
	workspacerepo "github.com/kailas-cloud/revisor/internal/repository/workspace"
	geminiGen "github.com/kailas-cloud/revisor/internal/transport/gemini"
	openaiGen "github.com/kailas-cloud/revisor/internal/transport/openai"
	"github.com/kailas-cloud/revisor/internal/usecase/completion"
	edituc "github.com/kailas-cloud/revisor/internal/usecase/edit"
	healthuc "github.com/kailas-cloud/revisor/internal/usecase/health"
	"github.com/kailas-cloud/revisor/internal/usecase/locate"
	reviewuc "github.com/kailas-cloud/revisor/internal/usecase/review"
	workspaceuc "github.com/kailas-cloud/revisor/internal/usecase/workspace"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultTimeout          = 60 * time.Second

	providerGemini = "gemini"
	providerOpenAI = "openai"
)

// Внутренние интерфейсы для подмены в тестах.
type workspaceUseCase interface {
	Open(ctx context.Context, markup string) (*domws.Workspace, error)
	Get(ctx context.Context, id string) (*domws.Workspace, error)
	List(ctx context.Context) ([]*domws.Workspace, error)
	Replace(ctx context.Context, id, markup string) (*domws.Workspace, error)
	Close(ctx context.Context, id string) error
}

type editUseCase interface {
	Edit(ctx context.Context, ws *domws.Workspace, req edituc.Request) (edituc.Outcome, error)
	Replace(ctx context.Context, ws *domws.Workspace, req edituc.Request) (edituc.Outcome, error)
	Ask(ctx context.Context, ws *domws.Workspace, question string, req edituc.Request) (string, error)
}

type reviewUseCase interface {
	List(ctx context.Context, wsID string) ([]domreview.Unit, error)
	Get(ctx context.Context, wsID, unitID string) (domreview.Unit, error)
	Show(ctx context.Context, wsID, unitID string) (domreview.Unit, error)
	Accept(ctx context.Context, wsID, unitID string) (domreview.Unit, error)
	Reject(ctx context.Context, wsID, unitID string) (domreview.Unit, error)
	AcceptAll(ctx context.Context, wsID string) ([]domreview.Unit, error)
	RejectAll(ctx context.Context, wsID string) ([]domreview.Unit, error)
}

// Client is the revisor SDK entry point. Documents live in process memory.
type Client struct {
	store        db.Store
	workspaceSvc workspaceUseCase
	editSvc      editUseCase
	reviewSvc    reviewUseCase
	healthSvc    healthUseCase
	obs          *observer
}

// New creates a revisor Client. The provided context is used for the
// initial cache readiness check when WithRedisCache is set.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{provider: providerGemini, timeout: defaultTimeout}
	for _, o := range opts {
		o.apply(cfg)
	}

	gen, err := createGenerator(cfg)
	if err != nil {
		return nil, err
	}

	var store db.Store
	if len(cfg.cacheAddrs) > 0 {
		rs, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.cacheAddrs,
			Password: cfg.cachePassword,
		})
		if err != nil {
			return nil, fmt.Errorf("revisor: create redis store: %w", err)
		}
		if err := rs.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			rs.Close()
			return nil, fmt.Errorf("revisor: cache not ready: %w", err)
		}
		store = rs
		gen = completioncache.New(gen, rs, completioncache.Config{
			Namespace: cfg.provider + "/" + cfg.model,
			TTL:       cfg.cacheTTL,
		}, metrics.CompletionCacheTotal, zap.NewNop())
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, err
	}
	return wireClient(store, gen, cfg, obs), nil
}

func createGenerator(cfg *clientConfig) (domain.Generator, error) {
	if cfg.generator != nil {
		cfg.provider = "custom"
		return &generatorAdapter{inner: cfg.generator}, nil
	}

	var healthKey string
	if len(cfg.credentials) > 0 {
		healthKey = cfg.credentials[0]
	}

	switch cfg.provider {
	case providerGemini:
		if cfg.model == "" {
			cfg.model = geminiGen.DefaultModel
		}
		return geminiGen.NewGenerator(&geminiGen.Config{
			BaseURL:   cfg.baseURL,
			Model:     cfg.model,
			Timeout:   cfg.timeout,
			HealthKey: healthKey,
		}), nil
	case providerOpenAI:
		if cfg.model == "" {
			return nil, errors.New("revisor: model required for openai provider")
		}
		return openaiGen.NewGenerator(&openaiGen.Config{
			BaseURL:   cfg.baseURL,
			Model:     cfg.model,
			Provider:  providerOpenAI,
			Timeout:   cfg.timeout,
			HealthKey: healthKey,
		}), nil
	default:
		return nil, fmt.Errorf("revisor: unknown provider %q", cfg.provider)
	}
}

func wireClient(store db.Store, gen domain.Generator, cfg *clientConfig, obs *observer) *Client {
	repo := workspacerepo.New(cfg.maxDocuments)
	editSvc := edituc.New(
		completion.New(gen, nil),
		locate.New(cfg.threshold, nil),
		cfg.credentials,
		nil,
	)

	var cachePinger healthuc.CachePinger
	if store != nil {
		cachePinger = store
	}
	var genChecker healthuc.GenerationChecker
	if hc, ok := gen.(domain.HealthChecker); ok && len(cfg.credentials) > 0 {
		genChecker = hc
	}

	return &Client{
		store:        store,
		workspaceSvc: workspaceuc.New(repo),
		editSvc:      editSvc,
		reviewSvc:    reviewuc.New(repo, nil),
		healthSvc:    healthuc.New(cachePinger, genChecker),
		obs:          obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Open parses markup into a new document.
func (c *Client) Open(ctx context.Context, markup string) (_ *Document, err error) {
	start := time.Now()
	var id string
	defer func() { c.obs.observe("open", id, start, err) }()

	ws, err := c.workspaceSvc.Open(ctx, markup)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	id = ws.ID()
	return c.Document(id), nil
}

// Document returns a handle for an already open document.
// The handle is not checked until it is used.
func (c *Client) Document(id string) *Document {
	return &Document{id: id, client: c}
}

// Documents lists open documents, oldest first.
func (c *Client) Documents(ctx context.Context) (_ []DocumentInfo, err error) {
	start := time.Now()
	defer func() { c.obs.observe("list", "", start, err) }()

	list, err := c.workspaceSvc.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	out := make([]DocumentInfo, 0, len(list))
	for _, ws := range list {
		out = append(out, documentInfo(ws))
	}
	return out, nil
}
