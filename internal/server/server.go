// Package server wires the inventory handlers, middleware and probes into
// HTTP servers.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/vyrodovalexey/inventory-api/internal/config"
	"github.com/vyrodovalexey/inventory-api/internal/handler"
	"github.com/vyrodovalexey/inventory-api/internal/middleware"
)

// Server represents the API server and its optional probe server.
type Server struct {
	httpServer  *http.Server
	probeServer *http.Server
	router      *mux.Router
	probeRouter *mux.Router
	config      *config.Config
	logger      *zap.Logger
	inventory   *Inventory
	wsHandler   *handler.WebSocketHandler
}

// New creates a new Server serving inv.
func New(cfg *config.Config, logger *zap.Logger, inv *Inventory) *Server {
	s := &Server{
		router:      mux.NewRouter(),
		probeRouter: mux.NewRouter(),
		config:      cfg,
		logger:      logger,
		inventory:   inv,
	}

	s.setupMiddleware()
	s.setupRoutes()
	s.setupProbeRoutes()
	s.setupHTTPServers()

	return s
}

// setupMiddleware configures the middleware chain; the first entry is outermost.
func (s *Server) setupMiddleware() {
	allowedMethods := []string{
		http.MethodGet,
		http.MethodPost,
		http.MethodPut,
		http.MethodDelete,
		http.MethodOptions,
	}
	allowedHeaders := []string{
		"Content-Type",
		"Accept",
		middleware.RequestIDHeader,
	}

	chain := []middleware.Middleware{
		middleware.Recovery(s.logger),
		middleware.RequestID(),
	}
	if s.config.MetricsEnabled {
		chain = append(chain, middleware.Metrics())
	}
	chain = append(chain,
		middleware.Logging(s.logger),
		middleware.BodyLimit(s.config.MaxBodyBytes),
		middleware.CORS(s.config.AllowedOrigins, allowedMethods, allowedHeaders),
	)

	s.router.Use(mux.MiddlewareFunc(middleware.Chain(chain...)))
}

// setupRoutes configures the API routes.
func (s *Server) setupRoutes() {
	handler.NewHealthHandler(s.logger).RegisterRoutes(s.router)
	handler.NewProductHandler(s.inventory.Products, s.logger).RegisterRoutes(s.router)
	handler.NewRecordHandler(s.inventory.Records, s.logger).RegisterRoutes(s.router)

	if s.config.EventsEnabled {
		s.wsHandler = handler.NewWebSocketHandler(s.inventory.Events, s.logger)
		s.wsHandler.RegisterRoutes(s.router)
	}

	if s.config.MetricsEnabled {
		s.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	}

	// mux skips middleware on method mismatches, so preflights need a route
	// of their own for the CORS middleware to answer them.
	s.router.Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

// setupProbeRoutes configures the probe router. It is built even when the
// probe server is disabled so that it can be exercised directly.
func (s *Server) setupProbeRoutes() {
	s.probeRouter.Use(mux.MiddlewareFunc(middleware.Recovery(s.logger)))

	handler.NewHealthHandler(s.logger).RegisterRoutes(s.probeRouter)

	if s.config.MetricsEnabled {
		s.probeRouter.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	}
}

func (s *Server) setupHTTPServers() {
	s.httpServer = &http.Server{
		Addr:              s.config.Address(),
		Handler:           s.router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	if s.config.ProbePort == 0 {
		return
	}

	s.probeServer = &http.Server{
		Addr:              s.config.ProbeAddress(),
		Handler:           s.probeRouter,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      5 * time.Second,
		IdleTimeout:       30 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
}

// Start runs the API server, and the probe server when configured, until
// one of them fails or both are shut down.
func (s *Server) Start() error {
	s.logger.Info("starting server",
		zap.String("address", s.config.Address()),
		zap.Bool("metrics_enabled", s.config.MetricsEnabled),
		zap.Bool("events_enabled", s.config.EventsEnabled),
	)

	errs := make(chan error, 2)
	running := 1

	if s.probeServer != nil {
		running++
		s.logger.Info("starting probe server", zap.String("address", s.config.ProbeAddress()))
		go func() {
			errs <- serve(s.probeServer, "probe server")
		}()
	}

	go func() {
		errs <- serve(s.httpServer, "server")
	}()

	for range running {
		if err := <-errs; err != nil {
			return err
		}
	}

	return nil
}

func serve(srv *http.Server, name string) error {
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("%s listen and serve: %w", name, err)
	}
	return nil
}

// Shutdown gracefully shuts down the servers and closes the event feed.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")

	// Event feed connections are hijacked and ignored by http.Server.Shutdown.
	if s.wsHandler != nil {
		s.wsHandler.CloseAllConnections()
	}
	s.inventory.Events.Close()

	var errs []error

	if err := s.httpServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown: %w", err))
	}

	if s.probeServer != nil {
		if err := s.probeServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("probe server shutdown: %w", err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}

	s.logger.Info("server shutdown complete")
	return nil
}

// Router returns the API router.
func (s *Server) Router() *mux.Router {
	return s.router
}

// ProbeRouter returns the probe router.
func (s *Server) ProbeRouter() *mux.Router {
	return s.probeRouter
}
