// Package server exposes the analysis pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/jackzampolin/leaselens/internal/analyzer"
	"github.com/jackzampolin/leaselens/internal/assistant"
	"github.com/jackzampolin/leaselens/internal/config"
	"github.com/jackzampolin/leaselens/internal/export"
	"github.com/jackzampolin/leaselens/internal/providers"
	"github.com/jackzampolin/leaselens/internal/report"
)

// Server is the main leaselens HTTP server. It owns one analyzer, one
// assistant session, and one report layout for the lifetime of the process.
type Server struct {
	httpServer *http.Server
	registry   *providers.Registry
	configMgr  *config.Manager
	logger     *slog.Logger

	analyzer *analyzer.Analyzer
	session  *assistant.Session
	report   *report.Report
	exporter *export.PDFExporter

	mu      sync.RWMutex
	running bool
}

// Config holds server configuration.
type Config struct {
	// Host is the address to bind to (default: 127.0.0.1)
	Host string
	// Port is the port to listen on (default: 8080)
	Port string
	// ConfigManager provides configuration with hot-reload support
	ConfigManager *config.Manager
	// Logger is the structured logger to use
	Logger *slog.Logger
}

// New creates a new Server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	registry := providers.NewRegistry()
	registry.SetLogger(cfg.Logger)

	appCfg := config.DefaultConfig()
	if cfg.ConfigManager != nil {
		appCfg = cfg.ConfigManager.Get()
		registry.Reload(appCfg.ToRegistryConfig())

		// Watch for config changes
		cfg.ConfigManager.OnChange(func(c *config.Config) {
			registry.Reload(c.ToRegistryConfig())
			cfg.Logger.Info("provider registry reloaded from config")
		})
	}

	s := &Server{
		registry:  registry,
		configMgr: cfg.ConfigManager,
		logger:    cfg.Logger,
		report:    report.New(),
		exporter:  export.NewPDFExporter(appCfg.PageSize(), appCfg.Export.PixelWidth, cfg.Logger),
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	s.httpServer = &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:      mux,
		ReadTimeout:  120 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// Start starts the server. It blocks until the context is cancelled or an
// error occurs. The default provider is probed for reachability before the
// listener comes up so a misconfigured key fails fast.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	s.running = true
	s.mu.Unlock()

	client, err := s.registry.Default()
	if err != nil {
		s.setNotRunning()
		return fmt.Errorf("no usable provider: %w", err)
	}

	if err := s.probeProvider(ctx, client); err != nil {
		s.setNotRunning()
		return fmt.Errorf("provider %s unreachable: %w", client.Name(), err)
	}

	s.analyzer = analyzer.New(client, s.logger)

	session, err := assistant.New(ctx, client, s.logger)
	if err != nil {
		s.setNotRunning()
		return fmt.Errorf("failed to start assistant session: %w", err)
	}
	s.session = session

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr, "provider", client.Name())
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			s.setNotRunning()
			return fmt.Errorf("HTTP server error: %w", err)
		}
	}

	return s.shutdown()
}

// probeProvider verifies the provider is reachable at startup. This is a
// startup readiness check only; pipeline failures are never retried.
func (s *Server) probeProvider(ctx context.Context, client providers.Client) error {
	pinger, ok := client.(providers.Pinger)
	if !ok {
		return nil
	}
	return retry.Do(
		func() error { return pinger.Ping(ctx) },
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(2*time.Second),
		retry.DelayType(retry.BackOffDelay),
		retry.OnRetry(func(n uint, err error) {
			s.logger.Warn("provider probe failed, retrying", "attempt", n+1, "error", err)
		}),
	)
}

// shutdown performs graceful shutdown of the HTTP server.
func (s *Server) shutdown() error {
	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
	}

	s.setNotRunning()
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) setNotRunning() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// IsRunning returns whether the server is currently running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Addr returns the server's listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Registry returns the provider registry.
func (s *Server) Registry() *providers.Registry {
	return s.registry
}
