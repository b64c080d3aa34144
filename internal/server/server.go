// Package server is the console's own HTTP surface: it re-publishes registry
// snapshots to the UI and drives the composer and lifecycle controller.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/phishdeck/phishdeck/internal/composer"
	"github.com/phishdeck/phishdeck/internal/config"
	"github.com/phishdeck/phishdeck/internal/drafts"
	"github.com/phishdeck/phishdeck/internal/engine"
	"github.com/phishdeck/phishdeck/internal/lifecycle"
	"github.com/phishdeck/phishdeck/internal/metrics"
	"github.com/phishdeck/phishdeck/internal/registry"
)

// Server wires the console components together behind a chi router.
type Server struct {
	cfg    *config.Config
	logger *slog.Logger

	engine    *engine.Client
	registry  *registry.Registry
	refresher *registry.Refresher
	composer  *composer.Composer
	lifecycle *lifecycle.Controller
	drafts    *drafts.Store
	metrics   *metrics.Metrics

	router     *chi.Mux
	httpServer *http.Server
}

// New creates a fully wired console server.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	draftStore, err := drafts.Open(cfg.Drafts.Path)
	if err != nil {
		return nil, fmt.Errorf("open draft store: %w", err)
	}

	client := engine.NewClient(cfg.Engine.BaseURL, cfg.Engine.APIToken, cfg.Engine.Timeout)
	reg := registry.New(client, logger)
	m := metrics.New()

	s := &Server{
		cfg:      cfg,
		logger:   logger.With("component", "server"),
		engine:   client,
		registry: reg,
		composer: composer.New(client, logger),
		drafts:   draftStore,
		metrics:  m,
		router:   chi.NewRouter(),
	}
	s.lifecycle = lifecycle.New(client, logger, s.refreshRegistry)
	s.refresher = registry.NewRefresher(reg, logger, cfg.Registry.RefreshInterval)

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         cfg.Server.ListenAddr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// refreshRegistry reloads the registry and records the outcome.
func (s *Server) refreshRegistry(ctx context.Context) error {
	err := s.registry.LoadAll(ctx)
	s.metrics.ObserveRegistryLoad(err)
	s.updateEntityGauges()
	return err
}

func (s *Server) updateEntityGauges() {
	s.metrics.RegistryEntities.WithLabelValues("campaign").Set(float64(len(s.registry.Campaigns())))
	s.metrics.RegistryEntities.WithLabelValues("profile").Set(float64(len(s.registry.SenderProfiles())))
	s.metrics.RegistryEntities.WithLabelValues("template").Set(float64(len(s.registry.EmailTemplates())))
	s.metrics.RegistryEntities.WithLabelValues("phishlet").Set(float64(len(s.registry.Phishlets())))
	s.metrics.RegistryEntities.WithLabelValues("attachment").Set(float64(len(s.registry.Attachments())))
	s.metrics.RegistryEntities.WithLabelValues("group").Set(float64(len(s.registry.Groups())))
	s.metrics.RegistryEntities.WithLabelValues("target").Set(float64(len(s.registry.Targets())))
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.metrics.HTTPMiddleware)

	s.router.Get("/health", s.handleHealth)
	if s.cfg.Metrics.Enabled {
		s.router.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/registry", s.handleRegistry)
		r.Post("/registry/refresh", s.handleRegistryRefresh)
		r.Get("/registry/options/{kind}", s.handleOptions)
		r.Get("/registry/resolve/{kind}/{id}", s.handleResolveName)

		r.Get("/campaigns", s.handleCampaignList)
		r.Get("/campaigns/{id}", s.handleCampaignGet)
		r.Get("/campaigns/{id}/results", s.handleCampaignResults)
		r.Post("/campaigns/{id}/edit", s.handleCampaignEdit)
		r.Post("/campaigns/{id}/run", s.handleCampaignRun)
		r.Post("/campaigns/{id}/pause", s.handleCampaignPause)
		r.Delete("/campaigns/{id}", s.handleCampaignDelete)

		r.Get("/drafts", s.handleDraftList)
		r.Post("/drafts", s.handleDraftCreate)
		r.Get("/drafts/{id}", s.handleDraftGet)
		r.Put("/drafts/{id}", s.handleDraftUpdate)
		r.Delete("/drafts/{id}", s.handleDraftDelete)
		r.Put("/drafts/{id}/schedule", s.handleDraftSchedule)
		r.Post("/drafts/{id}/submit", s.handleDraftSubmit)
	})
}

// loggingMiddleware logs HTTP requests.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"remote_addr", r.RemoteAddr,
		)
	})
}

// Run performs the initial registry load, starts the background refresher,
// and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	// A failed initial load is not fatal: the console starts with whatever
	// collections did load and the refresher retries.
	if err := s.refreshRegistry(ctx); err != nil {
		s.logger.Error("initial registry load failed", "error", err)
	}

	s.refresher.Start()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting console server", "addr", s.cfg.Server.ListenAddr)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		s.refresher.Stop()
		s.drafts.Close()
		return err
	case <-ctx.Done():
		s.refresher.Stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("shutdown error", "error", err)
		}
		s.drafts.Close()
		return nil
	}
}
