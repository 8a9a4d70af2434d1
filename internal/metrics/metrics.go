package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"request-logger/internal/interceptor"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds the pipeline metrics on a private prometheus registry.
type Registry struct {
	reg      *prometheus.Registry
	Calls    *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

// NewRegistry builds a registry with the call metrics plus the Go and process collectors.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		Calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "calls_total",
			Help: "Calls seen by the pipeline, by call type and outcome",
		}, []string{"type", "outcome"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP call latency by handler and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"controller", "handler", "status"}),
	}
	r.reg.MustRegister(
		r.Calls,
		r.Duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// Gatherer exposes the underlying registry.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// Interceptor counts every call and, for HTTP calls that complete, records latency.
func (r *Registry) Interceptor() interceptor.Interceptor {
	return interceptor.InterceptorFunc(func(ctx context.Context, call interceptor.Call, next interceptor.Next) (any, error) {
		start := time.Now()
		v, err := next(ctx)
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		r.Calls.WithLabelValues(string(call.Type()), outcome).Inc()
		if err == nil && call.Type() == interceptor.CallHTTP {
			t := call.Target()
			status := strconv.Itoa(call.Response().Status)
			r.Duration.WithLabelValues(t.Controller, t.Handler, status).Observe(time.Since(start).Seconds())
		}
		return v, err
	})
}
