package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	chirouter "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/spacefit/spacefit/internal/domain"
	healthuc "github.com/spacefit/spacefit/internal/usecase/health"
	indexeruc "github.com/spacefit/spacefit/internal/usecase/indexer"
	matchuc "github.com/spacefit/spacefit/internal/usecase/match"
)

const maxBatchSize = 100

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server exposes the matching pipeline over HTTP.
type Server struct {
	matcher       *matchuc.Service
	indexer       *indexeruc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	matcher *matchuc.Service,
	indexer *indexeruc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		matcher: matcher,
		indexer: indexer,
		health:  health,
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		staleIndexHandler,
		// Dim mismatch wraps ErrIndex, so it must match first.
		sentinelHandler(domain.ErrVectorDimMismatch, http.StatusBadRequest, codeVectorDimMismatch),
		sentinelHandler(domain.ErrPropertyNotFound, http.StatusNotFound, codePropertyNotFound),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, codeRateLimited),
		sentinelHandler(domain.ErrEmbeddingProvider, http.StatusBadGateway, codeEmbeddingProvider),
		sentinelHandler(domain.ErrScoreParse, http.StatusBadGateway, codeScoreParse),
		sentinelHandler(domain.ErrScorer, http.StatusBadGateway, codeScorerError),
		sentinelHandler(domain.ErrIndex, http.StatusBadGateway, codeInternalError),
	}
	return s
}

// Register mounts all API routes on the router.
func (s *Server) Register(r chirouter.Router) {
	r.Post("/v1/match", s.MatchTenant)
	r.Put("/v1/properties/{id}", s.UpsertProperty)
	r.Post("/v1/properties:batch", s.BatchUpsertProperties)
	r.Get("/v1/properties/{id}", s.GetProperty)
	r.Delete("/v1/properties/{id}", s.DeleteProperty)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// MatchTenant handles POST /v1/match.
func (s *Server) MatchTenant(w http.ResponseWriter, r *http.Request) {
	var req matchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "query is required")
		return
	}

	results, err := s.matcher.Match(r.Context(), req.Query)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]matchResultItem, len(results))
	for i := range results {
		items[i] = matchResultItem{
			Property: propertyToResponse(&results[i].Property),
			Score:    results[i].Score,
			Reason:   results[i].Reason,
		}
	}
	writeJSON(w, http.StatusOK, matchResponse{Results: items, Total: len(items)})
}

// UpsertProperty handles PUT /v1/properties/{id}.
func (s *Server) UpsertProperty(w http.ResponseWriter, r *http.Request) {
	id := chirouter.URLParam(r, "id")

	var req propertyPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.ID != "" && req.ID != id {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "payload id does not match URL")
		return
	}

	p, err := propertyFromPayload(id, req)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	if err := s.indexer.IndexProperty(r.Context(), p); err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, propertyToResponse(&p))
}

// BatchUpsertProperties handles POST /v1/properties:batch.
func (s *Server) BatchUpsertProperties(w http.ResponseWriter, r *http.Request) {
	var req batchUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(req.Properties) == 0 || len(req.Properties) > maxBatchSize {
		writeError(w, http.StatusBadRequest, codeValidationFailed,
			fmt.Sprintf("properties count must be between 1 and %d", maxBatchSize))
		return
	}

	list, err := batchToProperties(req.Properties)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	if err := s.indexer.IndexProperties(r.Context(), list); err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, batchUpsertResponse{Indexed: len(list)})
}

// GetProperty handles GET /v1/properties/{id}.
func (s *Server) GetProperty(w http.ResponseWriter, r *http.Request) {
	id := chirouter.URLParam(r, "id")

	p, err := s.indexer.GetProperty(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, propertyToResponse(&p))
}

// DeleteProperty handles DELETE /v1/properties/{id}.
func (s *Server) DeleteProperty(w http.ResponseWriter, r *http.Request) {
	id := chirouter.URLParam(r, "id")

	if err := s.indexer.RemoveProperty(r.Context(), id); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrPropertyNotFound,
		domain.ErrVectorDimMismatch,
		domain.ErrStaleIndex,
		domain.ErrEmbeddingProvider,
		domain.ErrScoreParse,
		domain.ErrScorer,
		domain.ErrRateLimited,
		domain.ErrIndex,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code errorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// staleIndexHandler handles ErrStaleIndex with the missing ids included.
func staleIndexHandler(w http.ResponseWriter, err error, msg string) bool {
	if !errors.Is(err, domain.ErrStaleIndex) {
		return false
	}
	var sie *domain.StaleIndexError
	if errors.As(err, &sie) {
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"code":        codeStaleIndex,
			"message":     msg,
			"missing_ids": sie.MissingIDs,
		})
		return true
	}
	writeError(w, http.StatusBadGateway, codeStaleIndex, msg)
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	writeError(w, http.StatusInternalServerError, codeInternalError, msg)
}
