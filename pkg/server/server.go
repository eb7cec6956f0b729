// Package server serves generated graphs to browsers.
//
// A visit to "/" grows a new random graph, lays it out, stores it and
// redirects to its page. The page shows the final layout and connects a
// websocket that replays the layout transition: the server renders every
// morph frame on its own canvas and sends only the DOM mutations of that
// frame, which the page script applies to its copy of the document.
//
// Every response is rendered for the requesting browser. Browsers with
// unreliable SVG marker support get explicit arrow elements instead of
// marker references.
//
// # Routes
//
//	GET  /                     create a graph and redirect to its page
//	GET  /graphs/{id}          HTML page
//	GET  /graphs/{id}/svg      SVG document
//	GET  /graphs/{id}/ws       websocket morph stream
//	GET  /api/graphs/{id}      graph data as JSON
//	POST /api/graphs           create a graph, JSON in and out
//	GET  /api/useragent        browser classification of the caller
//	GET  /healthz              liveness probe
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/cssgraph/pkg/config"
	cgerrors "github.com/matzehuels/cssgraph/pkg/errors"
	"github.com/matzehuels/cssgraph/pkg/pipeline"
	"github.com/matzehuels/cssgraph/pkg/store"
	"github.com/matzehuels/cssgraph/pkg/useragent"
)

// CleanupInterval is how often expired graphs are purged from the store.
const CleanupInterval = time.Hour

// shutdownTimeout bounds the graceful shutdown of the HTTP server.
const shutdownTimeout = 10 * time.Second

// Server serves graphs over HTTP. Create instances with [New].
type Server struct {
	cfg      config.Config
	runner   *pipeline.Runner
	store    store.Store
	logger   *log.Logger
	detector useragent.Detector
	upgrader websocket.Upgrader

	// RecordTTL is how long created graphs stay available.
	RecordTTL time.Duration
}

// New creates a server. The runner and store are owned by the caller.
func New(cfg config.Config, runner *pipeline.Runner, st store.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		cfg:    cfg,
		runner: runner,
		store:  st,
		logger: logger.WithPrefix("server"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 16 * 1024,
		},
		RecordTTL: store.DefaultTTL,
	}
}

// Handler returns the router with all routes and middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)
	r.Use(serverHeader)

	r.Get("/", s.handleCreatePage)
	r.Get("/healthz", s.handleHealth)

	r.Route("/graphs/{id}", func(r chi.Router) {
		r.Use(s.loadRecord)
		r.Get("/", s.handlePage)
		r.Get("/svg", s.handleSVG)
		r.Get("/ws", s.handleStream)
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/graphs", s.handleCreateAPI)
		r.With(s.loadRecord).Get("/graphs/{id}", s.handleData)
		r.Get("/useragent", s.handleUserAgent)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.fail(w, r, cgerrors.New(cgerrors.ErrCodeNotFound, "no route for %s", r.URL.Path))
	})
	return r
}

// Run serves on the configured address until ctx is done, then shuts down
// gracefully. Expired graphs are purged periodically while running.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Server.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		s.cleanupLoop(gctx)
		return nil
	})
	return g.Wait()
}

func (s *Server) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.store.Cleanup(ctx)
			if err != nil {
				s.logger.Warn("store cleanup failed", "err", err)
				continue
			}
			if n > 0 {
				s.logger.Info("purged expired graphs", "count", n)
			}
		}
	}
}
