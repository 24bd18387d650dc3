package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/composite/concurrency"
	"github.com/ncobase/composite/config"
	"github.com/ncobase/composite/handler"
	"github.com/ncobase/composite/logging/logger"
	"go.opentelemetry.io/otel"
)

// App serves the composite API.
type App struct {
	config  *config.Config
	handler *handler.Handler
	sentry  bool
	limiter *concurrency.Limiter
	engine  *gin.Engine
	server  *http.Server
}

// New builds the gin engine for h. limiter may be nil.
func New(cfg *config.Config, h *handler.Handler, obs *Observability, limiter *concurrency.Limiter) *App {
	if cfg.IsDebug() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	a := &App{config: cfg, handler: h, sentry: obs != nil && obs.Sentry, limiter: limiter}
	a.engine = a.newEngine()
	a.server = &http.Server{
		Addr:              cfg.Addr(),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      a.writeTimeout(),
		IdleTimeout:       60 * time.Second,
	}
	return a
}

func (a *App) newEngine() *gin.Engine {
	engine := gin.New()
	engine.HandleMethodNotAllowed = true
	engine.Use(requestID(), traceRequests(otel.GetTracerProvider()), accessLog(), recovery(a.sentry))
	if a.limiter != nil {
		engine.Use(limit(a.limiter, a.config.QueueTimeout))
	}
	engine.NoRoute(notFound)
	engine.NoMethod(notFound)

	a.handler.RegisterRoutes(engine)
	return engine
}

// writeTimeout leaves room for the slowest upstream call.
func (a *App) writeTimeout() time.Duration {
	timeout := 15 * time.Second
	if a.config.Upstreams == nil {
		return timeout
	}
	for _, u := range []*config.Upstream{a.config.Upstreams.Users, a.config.Upstreams.Addresses} {
		if u != nil && u.Timeout+5*time.Second > timeout {
			timeout = u.Timeout + 5*time.Second
		}
	}
	return timeout
}

// Handler returns the HTTP handler, for tests and embedding.
func (a *App) Handler() http.Handler {
	return a.engine
}

// Run listens on the configured address until ctx is done, then shuts down
// gracefully within the configured shutdown timeout.
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.server.Addr, err)
	}
	return a.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Infof(ctx, "listening on %s", ln.Addr())
		if err := a.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Infof(context.Background(), "shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Infof(context.Background(), "server exited")
	return nil
}
