// Package server assembles the HTTP server: storage, catalog, Connect
// services, interceptors and the operational endpoints.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/personas/internal/config"
	"github.com/mmynk/personas/internal/middleware"
	"github.com/mmynk/personas/internal/persona"
	"github.com/mmynk/personas/internal/service"
	"github.com/mmynk/personas/internal/share"
	"github.com/mmynk/personas/internal/storage"
	"github.com/mmynk/personas/internal/storage/sqlite"
)

const shutdownTimeout = 10 * time.Second

// Server owns the store and the HTTP handler built on top of it.
type Server struct {
	cfg     *config.Config
	store   storage.Store
	handler http.Handler
}

// New opens the store and wires every service.
func New(cfg *config.Config) (*Server, error) {
	catalog := persona.Default()
	if cfg.CatalogPath != "" {
		c, err := persona.LoadCatalogFile(cfg.CatalogPath)
		if err != nil {
			return nil, err
		}
		catalog = c
		slog.Info("Catalog loaded", "path", cfg.CatalogPath, "personas", c.Len())
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	slog.Info("Storage initialized", "database", cfg.DBPath)

	handler, err := NewHandler(cfg, store, catalog, prometheus.NewRegistry())
	if err != nil {
		store.Close()
		return nil, err
	}
	return &Server{cfg: cfg, store: store, handler: handler}, nil
}

// NewHandler builds the routed handler around store. Metrics are registered
// with reg and exposed on /metrics.
func NewHandler(cfg *config.Config, store storage.Store, catalog *persona.Catalog, reg *prometheus.Registry) (http.Handler, error) {
	cache, err := service.NewAnalysisCache(cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create analysis cache: %w", err)
	}

	var issuer *share.Issuer
	if cfg.ShareSecret != "" {
		issuer = share.NewIssuer(cfg.ShareSecret, cfg.ShareTTL)
	} else {
		slog.Warn("share_secret not set, share cards disabled")
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	rpcMetrics := middleware.NewRPCMetrics(reg)
	interceptors := connect.WithInterceptors(
		middleware.LoggingInterceptor(),
		rpcMetrics.Interceptor(),
	)

	personaSvc := service.NewPersonaService(store, service.PersonaServiceConfig{
		Catalog: catalog,
		Issuer:  issuer,
		Metrics: service.NewMetrics(reg),
		Cache:   cache,
	})
	recordSvc := service.NewRecordService(store, cache)

	mux := http.NewServeMux()

	personaPath, personaHandler := service.NewPersonaServiceHandler(personaSvc, interceptors)
	mux.Handle(personaPath, personaHandler)

	recordPath, recordHandler := service.NewRecordServiceHandler(recordSvc, interceptors)
	mux.Handle(recordPath, recordHandler)

	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})

	return loggingMiddleware(corsMiddleware(mux)), nil
}

// Handler returns the routed handler without h2c.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves until ctx is cancelled, then shuts down gracefully and closes
// the store.
func (s *Server) Run(ctx context.Context) error {
	defer s.store.Close()

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	srv := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           h2c.NewHandler(s.handler, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Connect server starting", "address", srv.Addr, "url", fmt.Sprintf("http://localhost%s", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next.ServeHTTP(w, r)

		slog.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
