package handler

import (
	"context"
	"net/http"
	"time"

	"request-logger/internal/pipeline"
	"request-logger/internal/repository"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	store repository.Store
}

func NewHealthHandler(s repository.Store) *HealthHandler {
	return &HealthHandler{store: s}
}

// LivenessResponse represents liveness probe response.
type LivenessResponse struct {
	Status string `json:"status"`
	Time   int64  `json:"timestamp"`
}

// ReadinessResponse represents readiness probe response.
type ReadinessResponse struct {
	Status string `json:"status"`
	Store  string `json:"store"`
}

// Liveness returns 200 if the service is running.
func (h *HealthHandler) Liveness(ctx context.Context, r *http.Request) (any, error) {
	return LivenessResponse{Status: "alive", Time: time.Now().Unix()}, nil
}

// Readiness returns 200 if the backing store answers, 503 otherwise.
func (h *HealthHandler) Readiness(ctx context.Context, r *http.Request) (any, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if err := h.store.Ping(ctx); err != nil {
		return nil, pipeline.NewHTTPError(http.StatusServiceUnavailable, "store_unavailable", "store is not reachable")
	}
	return ReadinessResponse{Status: "ready", Store: "ok"}, nil
}
