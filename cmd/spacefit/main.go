package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/spacefit/spacefit/internal/config"
	dbRedis "github.com/spacefit/spacefit/internal/db/redis"
	"github.com/spacefit/spacefit/internal/domain"
	logpkg "github.com/spacefit/spacefit/internal/logger"
	"github.com/spacefit/spacefit/internal/metrics"
	catalogrepo "github.com/spacefit/spacefit/internal/repository/catalog"
	"github.com/spacefit/spacefit/internal/repository/embcache"
	vectorrepo "github.com/spacefit/spacefit/internal/repository/vector"
	chiTransport "github.com/spacefit/spacefit/internal/transport/chi"
	openaiClient "github.com/spacefit/spacefit/internal/transport/openai"
	healthuc "github.com/spacefit/spacefit/internal/usecase/health"
	indexeruc "github.com/spacefit/spacefit/internal/usecase/indexer"
	matchuc "github.com/spacefit/spacefit/internal/usecase/match"
	scoreuc "github.com/spacefit/spacefit/internal/usecase/score"
	"github.com/spacefit/spacefit/internal/version"
)

func main() {
	// Local development convenience; a missing .env is not an error.
	_ = godotenv.Load()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting spacefit API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register metrics explicitly (no init())
	metrics.RegisterPipelineMetrics()

	embedder := buildEmbedder(cfg, store, logger)
	logger.Info("Embedder created",
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
		zap.Bool("cache", cfg.Embedding.CacheEnabled),
	)

	chat := openaiClient.NewChatClient(&openaiClient.ChatConfig{
		APIKey:  cfg.Scoring.APIKey,
		BaseURL: cfg.Scoring.BaseURL,
		Model:   cfg.Scoring.Model,
		Timeout: time.Duration(cfg.Scoring.TimeoutSec) * time.Second,
		Logger:  logger,
	})

	// Repositories
	indexCfg := domain.IndexConfig{
		Name:       cfg.Index.Name,
		Dimensions: cfg.Embedding.Dimensions,
	}
	vectorRepo := vectorrepo.New(store, indexCfg).WithHNSW(vectorrepo.HNSWConfig{
		M:           cfg.Index.HNSWM,
		EFConstruct: cfg.Index.HNSWEFConstruct,
	})
	catalogRepo := catalogrepo.New(store)

	// Use case services
	scorerSvc := scoreuc.New(&chatCompleter{chat: chat}, cfg.Scoring.MaxAttempts)
	matcherSvc := matchuc.New(embedder, vectorRepo, catalogRepo, scorerSvc, cfg.Matching.TopK)
	indexerSvc := indexeruc.New(catalogRepo, vectorRepo, embedder)
	healthSvc := healthuc.New(store, newProviderHealthChecker(embedder))

	if err := indexerSvc.EnsureIndex(ctx); err != nil {
		logger.Fatal("Failed to ensure vector index", zap.Error(err))
	}
	logger.Info("Vector index ready", zap.String("index", cfg.Index.Name))

	server := chiTransport.NewServer(matcherSvc, indexerSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Register(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildEmbedder assembles the embedder chain: OpenAI provider, optionally
// wrapped by the Redis-backed cache.
func buildEmbedder(cfg config.Config, store *dbRedis.Store, logger *zap.Logger) domain.Embedder {
	base := openaiClient.NewEmbedder(&openaiClient.EmbedderConfig{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Timeout:    time.Duration(cfg.Embedding.TimeoutSec) * time.Second,
		Logger:     logger,
	})

	if cfg.Embedding.CacheEnabled {
		return embcache.New(base, store, metrics.EmbeddingCacheTotal, logger)
	}
	return base
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

// providerHealthChecker exposes the embedder's health check when it has one.
type providerHealthChecker struct {
	embedder domain.Embedder
}

func newProviderHealthChecker(embedder domain.Embedder) *providerHealthChecker {
	return &providerHealthChecker{embedder: embedder}
}

func (h *providerHealthChecker) HealthCheck(ctx context.Context) error {
	if hc, ok := h.embedder.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("embedding health check: %w", err)
		}
	}
	return nil
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
