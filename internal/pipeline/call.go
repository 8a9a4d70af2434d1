package pipeline

import (
	"net"
	"net/http"
	"strings"

	"request-logger/internal/interceptor"
)

// recorder observes the status code written through a ResponseWriter.
type recorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (rw *recorder) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.status = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *recorder) Write(b []byte) (int, error) {
	if !rw.wroteHeader {
		rw.status = http.StatusOK
		rw.wroteHeader = true
	}
	return rw.ResponseWriter.Write(b)
}

func (rw *recorder) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (rw *recorder) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// httpCall is the interceptor.Call for one inbound HTTP request.
type httpCall struct {
	w      *recorder
	req    interceptor.RequestInfo
	target interceptor.Target
}

func newHTTPCall(w http.ResponseWriter, r *http.Request, target interceptor.Target, trustProxy bool) *httpCall {
	return &httpCall{
		w: &recorder{ResponseWriter: w, status: http.StatusOK},
		req: interceptor.RequestInfo{
			Method:     r.Method,
			Path:       r.URL.Path,
			ClientAddr: clientAddr(r, trustProxy),
			Header:     r.Header,
		},
		target: target,
	}
}

func (c *httpCall) Type() interceptor.CallType { return interceptor.CallHTTP }
func (c *httpCall) Request() interceptor.RequestInfo { return c.req }
func (c *httpCall) Target() interceptor.Target { return c.target }

func (c *httpCall) Response() interceptor.ResponseInfo {
	return interceptor.ResponseInfo{Status: c.w.status, Header: c.w.Header()}
}

// clientAddr returns the remote host as seen by the server, or the first
// X-Forwarded-For hop when the server sits behind a trusted proxy.
func clientAddr(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			parts := strings.Split(xff, ",")
			return strings.TrimSpace(parts[0])
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
