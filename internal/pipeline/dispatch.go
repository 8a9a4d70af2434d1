package pipeline

import (
	"context"
	"time"

	"request-logger/internal/interceptor"

	"github.com/rs/zerolog/log"
)

// taskCall is the interceptor.Call for an in-process invocation.
type taskCall struct {
	target interceptor.Target
}

func (c taskCall) Type() interceptor.CallType { return interceptor.CallTask }
func (c taskCall) Request() interceptor.RequestInfo { return interceptor.RequestInfo{} }
func (c taskCall) Target() interceptor.Target { return c.target }
func (c taskCall) Response() interceptor.ResponseInfo { return interceptor.ResponseInfo{} }

// Dispatcher runs non-network calls through the same interceptor chain as the Router.
type Dispatcher struct {
	chain interceptor.Interceptor
}

// NewDispatcher returns a Dispatcher wrapping tasks in interceptors, the first one outermost.
func NewDispatcher(interceptors []interceptor.Interceptor) *Dispatcher {
	return &Dispatcher{chain: interceptor.Chain(interceptors...)}
}

// Dispatch runs fn as task name and returns its result.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, fn interceptor.Next) (any, error) {
	return d.chain.Intercept(ctx, taskCall{target: interceptor.Target{Controller: "task", Handler: name}}, fn)
}

// Go runs fn as task name on a new goroutine.
func (d *Dispatcher) Go(ctx context.Context, name string, fn interceptor.Next) <-chan interceptor.Result {
	return interceptor.Async(ctx, d.chain, taskCall{target: interceptor.Target{Controller: "task", Handler: name}}, fn)
}

// Every dispatches fn as task name each interval until ctx is done.
func (d *Dispatcher) Every(ctx context.Context, interval time.Duration, name string, fn interceptor.Next) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if _, err := d.Dispatch(ctx, name, fn); err != nil {
				log.Warn().Err(err).Str("task", name).Msg("task failed")
			}
		}
	}
}
