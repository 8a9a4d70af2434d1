package handler

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
)

// AdminHandler reads and changes the process log level at runtime.
type AdminHandler struct{}

func NewAdminHandler() *AdminHandler {
	return &AdminHandler{}
}

type logLevelPayload struct {
	Level string `json:"level"`
}

// ServeHTTP dispatches on method: GET returns the level, PUT replaces it.
func (a *AdminHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch r.Method {
	case http.MethodGet:
		json.NewEncoder(w).Encode(logLevelPayload{Level: zerolog.GlobalLevel().String()})
	case http.MethodPut:
		var payload logLevelPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, "invalid payload", http.StatusBadRequest)
			return
		}
		lvl, err := zerolog.ParseLevel(payload.Level)
		if err != nil || payload.Level == "" {
			http.Error(w, "unknown level", http.StatusBadRequest)
			return
		}
		zerolog.SetGlobalLevel(lvl)
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}
