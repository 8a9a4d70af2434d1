package handler

import (
	"context"
	"net/http"
	"time"
)

var startTime = time.Now()

// StatusHandler reports service identity and uptime.
type StatusHandler struct {
	Service string
	Version string
}

// StatusResponse is the body of GET /status.
type StatusResponse struct {
	Service   string  `json:"service"`
	Version   string  `json:"version"`
	Timestamp int64   `json:"timestamp"`
	Uptime    float64 `json:"uptime"`
}

// GetStatus returns detailed status information.
func (h *StatusHandler) GetStatus(ctx context.Context, r *http.Request) (any, error) {
	return StatusResponse{
		Service:   h.Service,
		Version:   h.Version,
		Timestamp: time.Now().Unix(),
		Uptime:    time.Since(startTime).Seconds(),
	}, nil
}
