// Package server provides the HTTP API for spell checker settings resolution.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/afero"

	"github.com/werunom/vscode-spell-checker/internal/event"
	"github.com/werunom/vscode-spell-checker/internal/host"
	"github.com/werunom/vscode-spell-checker/internal/settings"
)

// Config holds server configuration.
type Config struct {
	Host         string
	Port         int
	EnableCORS   bool
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultConfig returns default server configuration.
func DefaultConfig() *Config {
	return &Config{
		Host:         "127.0.0.1",
		Port:         4096,
		EnableCORS:   true,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // No write timeout for SSE
	}
}

// FileWatcher is told about import files registered through the API.
type FileWatcher interface {
	AddFile(path string)
}

// Deps are the services the server exposes.
type Deps struct {
	Settings  *settings.DocumentSettings
	Workspace *host.Workspace
	// Fs is where words are written. The OS filesystem when nil.
	Fs      afero.Fs
	Bus     *event.Bus
	Watcher FileWatcher
}

// Server is the HTTP server.
type Server struct {
	config    *Config
	router    *chi.Mux
	httpSrv   *http.Server
	docs      *settings.DocumentSettings
	workspace *host.Workspace
	fs        afero.Fs
	bus       *event.Bus
	watcher   FileWatcher
}

// New creates a new Server instance.
func New(cfg *Config, deps Deps) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	fs := deps.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	bus := deps.Bus
	if bus == nil {
		bus = event.NewBus()
	}

	s := &Server{
		config:    cfg,
		router:    chi.NewRouter(),
		docs:      deps.Settings,
		workspace: deps.Workspace,
		fs:        fs,
		bus:       bus,
		watcher:   deps.Watcher,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures middleware for the server.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RealIP)

	if s.config.EnableCORS {
		s.router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.httpSrv = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.config.Host, s.config.Port),
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	return s.httpSrv.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

// Router returns the Chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}
