package handler

import (
	"net/http"

	"request-logger/internal/pipeline"
	"request-logger/internal/repository"
)

// Routes collects what the controllers need.
type Routes struct {
	Service string
	Version string
	Store   repository.Store
	Metrics http.Handler

	// AdminGuard wraps the admin endpoint when set.
	AdminGuard func(http.Handler) http.Handler
}

// Register installs every controller on rt.
func (d Routes) Register(rt *pipeline.Router) {
	status := &StatusHandler{Service: d.Service, Version: d.Version}
	health := NewHealthHandler(d.Store)
	hits := NewHitsHandler(d.Store)

	var admin http.Handler = NewAdminHandler()
	if d.AdminGuard != nil {
		admin = d.AdminGuard(admin)
	}

	rt.Handle("GET /status", "StatusController", "getStatus", status.GetStatus)
	rt.Handle("GET /health", "HealthController", "liveness", health.Liveness)
	rt.Handle("GET /ready", "HealthController", "readiness", health.Readiness)
	rt.Handle("POST /hits/{name}", "HitsController", "hit", hits.Hit)
	rt.Handle("GET /hits/{name}", "HitsController", "get", hits.Get)
	rt.HandleHTTP("/admin/log-level", "AdminController", "logLevel", admin)
	if d.Metrics != nil {
		rt.HandleHTTP("GET /metrics", "MetricsController", "scrape", d.Metrics)
	}
}
