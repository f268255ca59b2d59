package spacefit

import "go.uber.org/zap"

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	addrs    []string
	password string

	apiKey  string
	baseURL string

	embedModel string
	dimensions int
	embedder   Embedder // custom embedder overrides the OpenAI provider

	scoreModel       string
	maxScoreAttempts int

	topK            int
	indexName       string
	hnswM           int
	hnswEFConstruct int
	cacheEmbeddings bool

	logger *zap.Logger
}

// WithRedis configures the client to connect to a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithOpenAI sets the API key used for both embeddings and scoring.
func WithOpenAI(apiKey string) Option {
	return optionFunc(func(c *clientConfig) {
		c.apiKey = apiKey
	})
}

// WithBaseURL points the OpenAI-compatible clients at a different endpoint.
func WithBaseURL(url string) Option {
	return optionFunc(func(c *clientConfig) {
		c.baseURL = url
	})
}

// WithEmbeddingModel sets the embedding model and its dimensionality.
func WithEmbeddingModel(model string, dimensions int) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedModel = model
		c.dimensions = dimensions
	})
}

// WithEmbedder supplies a custom embedding provider instead of OpenAI.
// The dimensionality set via WithEmbeddingModel must match its output.
func WithEmbedder(e Embedder) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedder = e
	})
}

// WithScoringModel sets the chat model used for relevance scoring.
func WithScoringModel(model string) Option {
	return optionFunc(func(c *clientConfig) {
		c.scoreModel = model
	})
}

// WithMaxScoreAttempts bounds re-prompts on unparseable scoring output.
func WithMaxScoreAttempts(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxScoreAttempts = n
	})
}

// WithTopK sets how many candidates the vector index returns per match.
func WithTopK(k int) Option {
	return optionFunc(func(c *clientConfig) {
		c.topK = k
	})
}

// WithIndexName overrides the vector index name.
func WithIndexName(name string) Option {
	return optionFunc(func(c *clientConfig) {
		c.indexName = name
	})
}

// WithHNSW tunes the HNSW graph parameters of the vector index.
func WithHNSW(m, efConstruct int) Option {
	return optionFunc(func(c *clientConfig) {
		c.hnswM = m
		c.hnswEFConstruct = efConstruct
	})
}

// WithEmbeddingCache caches embeddings in Redis keyed by input text.
func WithEmbeddingCache() Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheEmbeddings = true
	})
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}
