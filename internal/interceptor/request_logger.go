package interceptor

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// RequestLoggerSource is the logical source name attached to every line.
const RequestLoggerSource = "RequestLogger"

// RequestLogger emits a REQUEST line before an HTTP call runs and a RESPONSE
// line once it has completed successfully. Both lines carry the same
// correlation id. Non-HTTP calls pass through without logging.
//
// A continuation that returns an error (or panics) leaves the REQUEST line
// without a matching RESPONSE line.
type RequestLogger struct {
	sink  Sink
	newID func() string
}

// NewRequestLogger constructs a RequestLogger writing to sink.
func NewRequestLogger(sink Sink) *RequestLogger {
	return &RequestLogger{sink: sink, newID: uuid.NewString}
}

func (l *RequestLogger) Intercept(ctx context.Context, call Call, next Next) (any, error) {
	if call.Type() != CallHTTP {
		return next(ctx)
	}

	req := call.Request()
	target := call.Target()
	id := l.newID()
	userAgent := req.Header.Get("User-Agent")

	l.emit(fmt.Sprintf("[%s] REQUEST %s %s %s %s: %s %s",
		id, req.Method, req.Path, userAgent, req.ClientAddr, target.Controller, target.Handler))

	v, err := next(ctx)
	if err != nil {
		return v, err
	}

	resp := call.Response()
	l.emit(fmt.Sprintf("[%s] RESPONSE %s %s %d %s",
		id, req.Method, req.Path, resp.Status, resp.Header.Get("Content-Length")))
	return v, nil
}

func (l *RequestLogger) emit(line string) {
	l.sink.Log(RequestLoggerSource, true, line)
}
