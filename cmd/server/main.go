package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"request-logger/internal/config"
	"request-logger/internal/handler"
	"request-logger/internal/interceptor"
	"request-logger/internal/metrics"
	"request-logger/internal/middleware"
	"request-logger/internal/pipeline"
	"request-logger/internal/repository"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const version = "1.0.0"

func main() {
	if err := run(config.Load()); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
	log.Info().Msg("server exited")
}

// run serves until a signal arrives or the listener fails. Deferred cleanup,
// including the request log flush, always runs before it returns.
func run(cfg config.Config) error {

	zerolog.TimeFieldFormat = time.RFC3339Nano
	lvl, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	var out io.Writer = os.Stdout
	if cfg.LogFormat == "console" {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339Nano}
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()

	// request log lines go through a ring buffer so a slow stdout never stalls a request
	sinkOut := interceptor.NewNonBlockingWriter(out, cfg.LogBufferSize, func(missed int) {
		log.Warn().Int("missed", missed).Msg("request log buffer overflow, lines dropped")
	})
	defer sinkOut.Close()
	requestLogger := interceptor.NewRequestLogger(interceptor.NewZerologSink(zerolog.New(sinkOut)))

	// storage
	var store repository.Store
	if cfg.RedisAddr != "" {
		r, err := repository.NewRedisStore(cfg.RedisAddr)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		store = r
	} else {
		store = repository.NewMemoryStore()
	}

	// metrics
	metricsRegistry := metrics.NewRegistry()

	interceptors := []interceptor.Interceptor{metricsRegistry.Interceptor(), requestLogger}
	router := pipeline.NewRouter(interceptors, pipeline.WithTrustProxy(cfg.TrustProxy))
	dispatcher := pipeline.NewDispatcher(interceptors)

	routes := handler.Routes{
		Service: "request-logger",
		Version: version,
		Store:   store,
		Metrics: metricsRegistry.Handler(),
	}
	// JWT auth (optional: only if JWT_SECRET is set)
	if cfg.JWTSecret != "" {
		routes.AdminGuard = middleware.NewJWTMiddleware([]byte(cfg.JWTSecret), cfg.JWTIssuer, "admin")
		log.Info().Msg("JWT authentication enabled for admin endpoints")
	}
	routes.Register(router)

	srv := &http.Server{Addr: cfg.ListenAddr, Handler: pipeline.Recovery(router)}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	if cfg.ProbeInterval > 0 {
		go dispatcher.Every(ctx, time.Duration(cfg.ProbeInterval)*time.Second, "storeProbe", func(ctx context.Context) (any, error) {
			pctx, cancel := context.WithTimeout(ctx, time.Second)
			defer cancel()
			return nil, store.Ping(pctx)
		})
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Msgf("listening %s", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)
	select {
	case err := <-serveErr:
		return fmt.Errorf("listen %s: %w", cfg.ListenAddr, err)
	case <-quit:
	}
	log.Info().Msg("shutting down")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.GracefulShutdownTimeout)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
