// Package web serves the query page and its JSON twin.
package web

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"search-agent/internal/application/port/input"
	"search-agent/internal/application/port/output"
	"search-agent/internal/domain/entity"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog"
)

type Config struct {
	Addr            string
	Title           string
	Subtitle        string
	Theme           entity.Theme
	ShutdownTimeout time.Duration
	// LogJSON switches request logs from the console format to JSON lines.
	LogJSON  bool
	LogLevel string
}

func DefaultConfig() Config {
	return Config{
		Addr:            ":8080",
		Title:           "AI Search Agent",
		Subtitle:        "Ask a question and the agent will search the web for an answer.",
		Theme:           entity.DefaultTheme(),
		ShutdownTimeout: 10 * time.Second,
		LogLevel:        "info",
	}
}

type Server struct {
	cfg    Config
	runner input.QueryRunner
	logger output.LoggerPort
	guard  *sessionGuard
	page   *template.Template
	router chi.Router
	srv    *http.Server
}

func NewServer(runner input.QueryRunner, logger output.LoggerPort, cfg Config) (*Server, error) {
	defaults := DefaultConfig()
	if cfg.Addr == "" {
		cfg.Addr = defaults.Addr
	}
	if cfg.Title == "" {
		cfg.Title = defaults.Title
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaults.ShutdownTimeout
	}
	cfg.Theme = cfg.Theme.Merge(defaults.Theme)

	page, err := parsePage()
	if err != nil {
		return nil, fmt.Errorf("failed to parse page template: %w", err)
	}

	s := &Server{
		cfg:    cfg,
		runner: runner,
		logger: logger.WithField("component", "web"),
		guard:  newSessionGuard(),
		page:   page,
	}
	s.router = s.routes()
	s.srv = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

func (s *Server) routes() chi.Router {
	level := s.cfg.LogLevel
	if level == "" {
		level = "info"
	}
	accessLog := httplog.NewLogger("search-agent", httplog.Options{
		LogLevel: level,
		JSON:     s.cfg.LogJSON,
		Concise:  true,
	})

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(accessLog))
	r.Use(middleware.Recoverer)
	r.Use(sessionMiddleware)

	r.Get("/", s.handleIndex)
	r.Post("/query", s.handleQuery)
	r.Post("/api/query", s.handleAPIQuery)
	r.Get("/healthz", s.handleHealth)
	return r
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is done, then drains in-flight requests for
// at most ShutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Web UI listening", "addr", s.cfg.Addr)
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("web server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down web UI", "timeout", s.cfg.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("web server shutdown: %w", err)
	}
	return nil
}
