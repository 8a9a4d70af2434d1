package interceptor

import (
	"context"
	"net/http"
)

// CallType discriminates network calls from other invocations sharing the pipeline.
type CallType string

const (
	CallHTTP CallType = "http"
	CallTask CallType = "task"
)

// RequestInfo is a read-only view of the inbound request.
type RequestInfo struct {
	Method     string
	Path       string // without query string
	ClientAddr string
	Header     http.Header
}

// Target names the controller and handler resolved for a call.
type Target struct {
	Controller string
	Handler    string
}

// ResponseInfo is a read-only view of the response produced by the call.
type ResponseInfo struct {
	Status int
	Header http.Header
}

// Call exposes one invocation to interceptors. Response is only meaningful
// once the continuation has returned.
type Call interface {
	Type() CallType
	Request() RequestInfo
	Target() Target
	Response() ResponseInfo
}

// Next runs the remaining pipeline work and yields its result.
type Next func(ctx context.Context) (any, error)

// Interceptor wraps the invocation of a call.
type Interceptor interface {
	Intercept(ctx context.Context, call Call, next Next) (any, error)
}

// InterceptorFunc adapts a function to Interceptor.
type InterceptorFunc func(ctx context.Context, call Call, next Next) (any, error)

func (f InterceptorFunc) Intercept(ctx context.Context, call Call, next Next) (any, error) {
	return f(ctx, call, next)
}

// Chain composes interceptors into one. The first interceptor is the outermost.
func Chain(interceptors ...Interceptor) Interceptor {
	return InterceptorFunc(func(ctx context.Context, call Call, next Next) (any, error) {
		h := next
		for i := len(interceptors) - 1; i >= 0; i-- {
			ic, inner := interceptors[i], h
			h = func(ctx context.Context) (any, error) {
				return ic.Intercept(ctx, call, inner)
			}
		}
		return h(ctx)
	})
}

// Result carries the outcome of an asynchronous invocation.
type Result struct {
	Value any
	Err   error
}

// Async runs i around next on its own goroutine. The returned channel receives
// exactly one Result, after every completion hook of i has run.
func Async(ctx context.Context, i Interceptor, call Call, next Next) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		v, err := i.Intercept(ctx, call, next)
		out <- Result{Value: v, Err: err}
	}()
	return out
}
