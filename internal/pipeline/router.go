package pipeline

import (
	"context"
	"net/http"

	"request-logger/internal/interceptor"

	"github.com/rs/zerolog/log"
)

// HandlerFunc is a controller method. Its result is rendered by the router
// once it returns without error.
type HandlerFunc func(ctx context.Context, r *http.Request) (any, error)

// Router resolves routes and runs every matched request through one
// interceptor chain.
type Router struct {
	mux        *http.ServeMux
	chain      interceptor.Interceptor
	trustProxy bool
}

// Option configures a Router.
type Option func(*Router)

// WithTrustProxy makes the client address come from X-Forwarded-For when present.
func WithTrustProxy(trust bool) Option {
	return func(rt *Router) { rt.trustProxy = trust }
}

// NewRouter returns a Router that wraps each route in interceptors, the first
// one outermost.
func NewRouter(interceptors []interceptor.Interceptor, opts ...Option) *Router {
	rt := &Router{
		mux:   http.NewServeMux(),
		chain: interceptor.Chain(interceptors...),
	}
	for _, o := range opts {
		o(rt)
	}
	return rt
}

// Handle registers a controller method under pattern.
func (rt *Router) Handle(pattern, controller, handler string, h HandlerFunc) {
	rt.handle(pattern, interceptor.Target{Controller: controller, Handler: handler},
		func(ctx context.Context, w http.ResponseWriter, r *http.Request) (any, error) {
			v, err := h(ctx, r)
			if err != nil {
				return nil, err
			}
			if err := render(w, r, v); err != nil {
				return nil, err
			}
			return v, nil
		})
}

// HandleHTTP registers a plain http.Handler under pattern. It runs inside the
// chain like any controller method.
func (rt *Router) HandleHTTP(pattern, controller, handler string, h http.Handler) {
	rt.handle(pattern, interceptor.Target{Controller: controller, Handler: handler},
		func(ctx context.Context, w http.ResponseWriter, r *http.Request) (any, error) {
			h.ServeHTTP(w, r.WithContext(ctx))
			return nil, nil
		})
}

type invokeFunc func(ctx context.Context, w http.ResponseWriter, r *http.Request) (any, error)

func (rt *Router) handle(pattern string, target interceptor.Target, invoke invokeFunc) {
	rt.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		call := newHTTPCall(w, r, target, rt.trustProxy)
		_, err := rt.chain.Intercept(r.Context(), call, func(ctx context.Context) (any, error) {
			return invoke(ctx, call.w, r)
		})
		if err == nil {
			return
		}
		if call.w.wroteHeader {
			log.Warn().Err(err).Str("path", r.URL.Path).Msg("error after response was started")
			return
		}
		renderError(call.w, r, err)
	})
}

func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rt.mux.ServeHTTP(w, r)
}
