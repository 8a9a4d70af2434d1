package pipeline

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"request-logger/internal/interceptor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memSink struct {
	mu    sync.Mutex
	lines []string
}

func (s *memSink) Log(source string, timestamp bool, line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, line)
}

func (s *memSink) all() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.lines...)
}

// stripID removes the leading "[<id>] " so lines can be compared literally.
func stripID(t *testing.T, line string) (string, string) {
	t.Helper()
	end := strings.Index(line, "] ")
	require.True(t, strings.HasPrefix(line, "[") && end > 0, "malformed line %q", line)
	return line[1:end], line[end+2:]
}

func newTestRouter(opts ...Option) (*Router, *memSink) {
	sink := &memSink{}
	rt := NewRouter([]interceptor.Interceptor{interceptor.NewRequestLogger(sink)}, opts...)
	return rt, sink
}

func TestRouter_StatusScenario(t *testing.T) {
	rt, sink := newTestRouter()
	rt.Handle("GET /status", "StatusController", "getStatus", func(ctx context.Context, r *http.Request) (any, error) {
		return "hello world!", nil
	})

	req := httptest.NewRequest(http.MethodGet, "/status?verbose=1", nil)
	req.RemoteAddr = "10.0.0.5:51234"
	req.Header.Set("User-Agent", "curl/8.0")
	rr := httptest.NewRecorder()
	rt.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "hello world!", rr.Body.String())
	assert.Equal(t, "12", rr.Header().Get("Content-Length"))

	lines := sink.all()
	require.Len(t, lines, 2)
	reqID, reqLine := stripID(t, lines[0])
	respID, respLine := stripID(t, lines[1])
	assert.Equal(t, "REQUEST GET /status curl/8.0 10.0.0.5: StatusController getStatus", reqLine)
	assert.Equal(t, "RESPONSE GET /status 200 12", respLine)
	assert.Equal(t, reqID, respID)
}

func TestRouter_JSONAndPostStatus(t *testing.T) {
	rt, sink := newTestRouter()
	rt.Handle("POST /things", "ThingsController", "create", func(ctx context.Context, r *http.Request) (any, error) {
		return map[string]int{"id": 7}, nil
	})

	rr := httptest.NewRecorder()
	rt.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/things", nil))

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"id":7}`, rr.Body.String())

	lines := sink.all()
	require.Len(t, lines, 2)
	_, respLine := stripID(t, lines[1])
	assert.Equal(t, "RESPONSE POST /things 201 8", respLine)
}

func TestRouter_WithStatus(t *testing.T) {
	rt, _ := newTestRouter()
	rt.Handle("GET /accepted", "C", "h", func(ctx context.Context, r *http.Request) (any, error) {
		return WithStatus(http.StatusAccepted, "queued"), nil
	})

	rr := httptest.NewRecorder()
	rt.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/accepted", nil))
	assert.Equal(t, http.StatusAccepted, rr.Code)
	assert.Equal(t, "queued", rr.Body.String())
}

func TestRouter_HandlerErrorSkipsResponseLine(t *testing.T) {
	rt, sink := newTestRouter()
	rt.Handle("GET /broken", "BrokenController", "fail", func(ctx context.Context, r *http.Request) (any, error) {
		return nil, errors.New("db down")
	})
	rt.Handle("GET /missing", "MissingController", "find", func(ctx context.Context, r *http.Request) (any, error) {
		return nil, NewHTTPError(http.StatusNotFound, "not_found", "no such thing")
	})

	rr := httptest.NewRecorder()
	rt.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/broken", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "db down")

	rr = httptest.NewRecorder()
	rt.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"error":"not_found","message":"no such thing"}`, rr.Body.String())

	lines := sink.all()
	require.Len(t, lines, 2)
	for _, l := range lines {
		_, rest := stripID(t, l)
		assert.True(t, strings.HasPrefix(rest, "REQUEST "), "unexpected line %q", l)
	}
}

func TestRouter_PanicRecoveredOutsideChain(t *testing.T) {
	rt, sink := newTestRouter()
	rt.Handle("GET /panic", "PanicController", "explode", func(ctx context.Context, r *http.Request) (any, error) {
		panic("kaboom")
	})

	rr := httptest.NewRecorder()
	Recovery(rt).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Len(t, sink.all(), 1)
}

func TestRouter_PlainHandler(t *testing.T) {
	rt, sink := newTestRouter()
	rt.HandleHTTP("GET /raw", "RawController", "serve", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short"))
	}))

	rr := httptest.NewRecorder()
	rt.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/raw", nil))
	assert.Equal(t, http.StatusTeapot, rr.Code)

	lines := sink.all()
	require.Len(t, lines, 2)
	_, respLine := stripID(t, lines[1])
	assert.Equal(t, "RESPONSE GET /raw 418 ", respLine)
}

func TestRouter_ClientAddr(t *testing.T) {
	tests := []struct {
		name  string
		trust bool
		want  string
	}{
		{"remote addr", false, "10.0.0.5"},
		{"forwarded", true, "203.0.113.9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt, sink := newTestRouter(WithTrustProxy(tt.trust))
			rt.Handle("GET /ip", "IPController", "get", func(ctx context.Context, r *http.Request) (any, error) {
				return nil, nil
			})
			req := httptest.NewRequest(http.MethodGet, "/ip", nil)
			req.RemoteAddr = "10.0.0.5:4000"
			req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
			rt.ServeHTTP(httptest.NewRecorder(), req)

			lines := sink.all()
			require.Len(t, lines, 2)
			_, reqLine := stripID(t, lines[0])
			assert.Equal(t, "REQUEST GET /ip  "+tt.want+": IPController get", reqLine)
		})
	}
}

func TestRouter_ConcurrentCalls(t *testing.T) {
	rt, sink := newTestRouter()
	rt.Handle("GET /status", "StatusController", "getStatus", func(ctx context.Context, r *http.Request) (any, error) {
		time.Sleep(time.Millisecond)
		return "hello world!", nil
	})

	srv := httptest.NewServer(rt)

	const n = 100
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			resp, err := srv.Client().Get(srv.URL + "/status")
			if assert.NoError(t, err) {
				resp.Body.Close()
			}
		}()
	}
	wg.Wait()
	srv.Close()

	byID := map[string][]string{}
	for _, l := range sink.all() {
		id, rest := stripID(t, l)
		byID[id] = append(byID[id], strings.Fields(rest)[0])
	}
	assert.Len(t, byID, n)
	for id, tags := range byID {
		assert.Equal(t, []string{"REQUEST", "RESPONSE"}, tags, "call %s", id)
	}
}

func TestDispatcher_TasksAreNotLogged(t *testing.T) {
	sink := &memSink{}
	d := NewDispatcher([]interceptor.Interceptor{interceptor.NewRequestLogger(sink)})

	v, err := d.Dispatch(context.Background(), "probe", func(ctx context.Context) (any, error) {
		return "pong", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "pong", v)

	res := <-d.Go(context.Background(), "async-probe", func(ctx context.Context) (any, error) {
		return nil, errors.New("unreachable")
	})
	assert.EqualError(t, res.Err, "unreachable")

	assert.Empty(t, sink.all())
}

func TestDispatcher_Every(t *testing.T) {
	d := NewDispatcher(nil)
	ctx, cancel := context.WithCancel(context.Background())

	var mu sync.Mutex
	runs := 0
	done := make(chan struct{})
	go func() {
		defer close(done)
		d.Every(ctx, 5*time.Millisecond, "tick", func(ctx context.Context) (any, error) {
			mu.Lock()
			runs++
			mu.Unlock()
			return nil, nil
		})
	}()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return runs >= 2
	}, time.Second, time.Millisecond)
	cancel()
	<-done
}
