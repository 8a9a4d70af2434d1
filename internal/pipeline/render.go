package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"
)

// HTTPError is an error carrying the status code it should be rendered with.
type HTTPError struct {
	Status  int
	Code    string
	Message string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates an HTTPError.
func NewHTTPError(status int, code, message string) *HTTPError {
	return &HTTPError{Status: status, Code: code, Message: message}
}

type statusResult struct {
	status int
	body   any
}

// WithStatus overrides the default success status for a handler result.
func WithStatus(status int, body any) any {
	return statusResult{status: status, body: body}
}

func defaultStatus(method string) int {
	if method == http.MethodPost {
		return http.StatusCreated
	}
	return http.StatusOK
}

// render writes a successful handler result.
func render(w http.ResponseWriter, r *http.Request, v any) error {
	status := defaultStatus(r.Method)
	if sr, ok := v.(statusResult); ok {
		status, v = sr.status, sr.body
	}

	var body []byte
	switch b := v.(type) {
	case nil:
	case []byte:
		body = b
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	case string:
		body = []byte(b)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	default:
		var err error
		body, err = json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode response: %w", err)
		}
		w.Header().Set("Content-Type", "application/json")
	}

	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(status)
	_, err := w.Write(body)
	return err
}

// renderError writes err as a JSON error document. Errors that are not an
// HTTPError are reported as 500 without exposing their message.
func renderError(w http.ResponseWriter, r *http.Request, err error) {
	var he *HTTPError
	if !errors.As(err, &he) {
		log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("handler failed")
		he = NewHTTPError(http.StatusInternalServerError, "internal", "internal server error")
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.Status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": he.Code, "message": he.Message})
}
