package spacefit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	dbRedis "github.com/spacefit/spacefit/internal/db/redis"
	"github.com/spacefit/spacefit/internal/domain"
	"github.com/spacefit/spacefit/internal/domain/property"
	"github.com/spacefit/spacefit/internal/metrics"
	catalogrepo "github.com/spacefit/spacefit/internal/repository/catalog"
	"github.com/spacefit/spacefit/internal/repository/embcache"
	vectorrepo "github.com/spacefit/spacefit/internal/repository/vector"
	openaiClient "github.com/spacefit/spacefit/internal/transport/openai"
	healthuc "github.com/spacefit/spacefit/internal/usecase/health"
	indexeruc "github.com/spacefit/spacefit/internal/usecase/indexer"
	matchuc "github.com/spacefit/spacefit/internal/usecase/match"
	scoreuc "github.com/spacefit/spacefit/internal/usecase/score"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces so tests can substitute the pipeline.
type matcherUseCase interface {
	Match(ctx context.Context, query string) ([]domain.MatchedProperty, error)
}

type indexerUseCase interface {
	EnsureIndex(ctx context.Context) error
	IndexProperty(ctx context.Context, p property.Property) error
	IndexProperties(ctx context.Context, props []property.Property) error
	RemoveProperty(ctx context.Context, id string) error
	GetProperty(ctx context.Context, id string) (property.Property, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the spacefit SDK entry point.
type Client struct {
	store   *dbRedis.Store
	matcher matcherUseCase
	indexer indexerUseCase
	health  healthUseCase
}

// New creates a spacefit Client, connects to Redis, and ensures the vector
// index exists. The provided context bounds the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		embedModel:       "text-embedding-3-small",
		dimensions:       1536,
		scoreModel:       "gpt-4o-mini",
		maxScoreAttempts: 2,
		topK:             10,
		indexName:        "properties",
		logger:           zap.NewNop(),
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("spacefit: database address required (use WithRedis)")
	}
	if cfg.apiKey == "" && cfg.embedder == nil {
		return nil, errors.New("spacefit: credentials required (use WithOpenAI or WithEmbedder)")
	}
	if cfg.apiKey == "" {
		return nil, errors.New("spacefit: scoring requires an API key (use WithOpenAI)")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Password: cfg.password,
	})
	if err != nil {
		return nil, fmt.Errorf("spacefit: create store: %w", err)
	}
	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("spacefit: database not ready: %w", err)
	}

	c, err := wireClient(ctx, store, cfg)
	if err != nil {
		store.Close()
		return nil, err
	}
	return c, nil
}

func wireClient(ctx context.Context, store *dbRedis.Store, cfg *clientConfig) (*Client, error) {
	var embedder domain.Embedder
	if cfg.embedder != nil {
		embedder = &embedderAdapter{inner: cfg.embedder}
	} else {
		embedder = openaiClient.NewEmbedder(&openaiClient.EmbedderConfig{
			APIKey:     cfg.apiKey,
			BaseURL:    cfg.baseURL,
			Model:      cfg.embedModel,
			Dimensions: cfg.dimensions,
			Logger:     cfg.logger,
		})
	}
	if cfg.cacheEmbeddings {
		embedder = embcache.New(embedder, store, metrics.EmbeddingCacheTotal, cfg.logger)
	}

	chat := openaiClient.NewChatClient(&openaiClient.ChatConfig{
		APIKey:  cfg.apiKey,
		BaseURL: cfg.baseURL,
		Model:   cfg.scoreModel,
		Logger:  cfg.logger,
	})

	indexCfg := domain.IndexConfig{Name: cfg.indexName, Dimensions: cfg.dimensions}
	vectorRepo := vectorrepo.New(store, indexCfg)
	if cfg.hnswM > 0 || cfg.hnswEFConstruct > 0 {
		vectorRepo = vectorRepo.WithHNSW(vectorrepo.HNSWConfig{
			M:           cfg.hnswM,
			EFConstruct: cfg.hnswEFConstruct,
		})
	}
	catalogRepo := catalogrepo.New(store)

	scorer := scoreuc.New(&chatCompleter{chat: chat}, cfg.maxScoreAttempts)
	indexer := indexeruc.New(catalogRepo, vectorRepo, embedder)
	matcher := matchuc.New(embedder, vectorRepo, catalogRepo, scorer, cfg.topK)
	health := healthuc.New(store, nil)

	if err := indexer.EnsureIndex(ctx); err != nil {
		return nil, fmt.Errorf("spacefit: ensure index: %w", err)
	}

	return &Client{
		store:   store,
		matcher: matcher,
		indexer: indexer,
		health:  health,
	}, nil
}

// Close releases the database connection.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("spacefit: ping: %w", err)
	}
	return nil
}

// Match ranks indexed properties for a free-text tenant query.
func (c *Client) Match(ctx context.Context, query string) ([]Match, error) {
	if query == "" {
		return nil, errors.New("spacefit: query must not be empty")
	}
	results, err := c.matcher.Match(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("spacefit: match: %w", err)
	}
	out := make([]Match, len(results))
	for i := range results {
		out[i] = Match{
			Property: propertyFromDomain(&results[i].Property),
			Score:    results[i].Score,
			Reason:   results[i].Reason,
		}
	}
	return out, nil
}

// IndexProperty stores a property and indexes its search text.
func (c *Client) IndexProperty(ctx context.Context, p Property) error {
	dp, err := propertyToDomain(p)
	if err != nil {
		return err
	}
	if err := c.indexer.IndexProperty(ctx, dp); err != nil {
		return fmt.Errorf("spacefit: index property: %w", err)
	}
	return nil
}

// IndexProperties stores and indexes a batch of properties.
func (c *Client) IndexProperties(ctx context.Context, props []Property) error {
	converted := make([]property.Property, 0, len(props))
	for _, p := range props {
		dp, err := propertyToDomain(p)
		if err != nil {
			return err
		}
		converted = append(converted, dp)
	}
	if err := c.indexer.IndexProperties(ctx, converted); err != nil {
		return fmt.Errorf("spacefit: index properties: %w", err)
	}
	return nil
}

// GetProperty reads a property by id.
func (c *Client) GetProperty(ctx context.Context, id string) (Property, error) {
	p, err := c.indexer.GetProperty(ctx, id)
	if err != nil {
		return Property{}, fmt.Errorf("spacefit: get property: %w", err)
	}
	return propertyFromDomain(&p), nil
}

// RemoveProperty deletes a property from the index and the catalog.
func (c *Client) RemoveProperty(ctx context.Context, id string) error {
	if err := c.indexer.RemoveProperty(ctx, id); err != nil {
		return fmt.Errorf("spacefit: remove property: %w", err)
	}
	return nil
}

// Health reports component availability.
func (c *Client) Health(ctx context.Context) HealthReport {
	report := c.health.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthReport{Status: string(report.Status), Checks: checks}
}

// chatCompleter adapts the OpenAI chat client to the scoring contract.
type chatCompleter struct {
	chat *openaiClient.ChatClient
}

func (c *chatCompleter) Complete(ctx context.Context, messages []scoreuc.Message) (string, error) {
	converted := make([]openaiClient.ChatMessage, len(messages))
	for i, m := range messages {
		converted[i] = openaiClient.ChatMessage{Role: m.Role, Content: m.Content}
	}
	return c.chat.Complete(ctx, converted)
}
