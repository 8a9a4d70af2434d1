package handler

import (
	"context"
	"net/http"
	"regexp"

	"request-logger/internal/pipeline"
	"request-logger/internal/repository"

	"github.com/rs/zerolog/log"
)

var validName = regexp.MustCompile(`^[a-zA-Z0-9_.-]{1,64}$`)

// HitsHandler counts hits per name.
type HitsHandler struct {
	store repository.Store
}

func NewHitsHandler(s repository.Store) *HitsHandler {
	return &HitsHandler{store: s}
}

// HitsResponse is returned by both hit endpoints.
type HitsResponse struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// Hit increments the counter named by the {name} path segment.
func (h *HitsHandler) Hit(ctx context.Context, r *http.Request) (any, error) {
	name, err := hitName(r)
	if err != nil {
		return nil, err
	}
	n, err := h.store.Incr(ctx, name)
	if err != nil {
		log.Error().Err(err).Str("name", name).Msg("increment failed")
		return nil, errStoreUnavailable
	}
	return HitsResponse{Name: name, Count: n}, nil
}

// Get reads the counter named by the {name} path segment.
func (h *HitsHandler) Get(ctx context.Context, r *http.Request) (any, error) {
	name, err := hitName(r)
	if err != nil {
		return nil, err
	}
	n, err := h.store.Get(ctx, name)
	if err != nil {
		log.Error().Err(err).Str("name", name).Msg("read failed")
		return nil, errStoreUnavailable
	}
	return HitsResponse{Name: name, Count: n}, nil
}

var errStoreUnavailable = pipeline.NewHTTPError(http.StatusServiceUnavailable, "store_unavailable", "counter store is unavailable")

func hitName(r *http.Request) (string, error) {
	name := r.PathValue("name")
	if !validName.MatchString(name) {
		return "", pipeline.NewHTTPError(http.StatusBadRequest, "invalid_name", "name must be 1-64 characters of [a-zA-Z0-9_.-]")
	}
	return name, nil
}
