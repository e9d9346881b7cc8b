// Package api exposes item generation, routing, and item storage over HTTP.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/smilepat/csat-connectedu-company/internal/generate"
	"github.com/smilepat/csat-connectedu-company/internal/router"
	"github.com/smilepat/csat-connectedu-company/internal/spec"
	"github.com/smilepat/csat-connectedu-company/internal/store"
)

// Server wires the HTTP surface to the generation pipeline.
type Server struct {
	engine       *gin.Engine
	registry     *spec.Registry
	orchestrator *generate.Orchestrator
	router       *router.TypeRouter
	items        store.ItemRepo
	heartbeat    time.Duration
	logger       *slog.Logger
}

// New builds a Server. The item repo and router may be nil; the matching
// endpoints then report 503.
func New(registry *spec.Registry, orch *generate.Orchestrator, rt *router.TypeRouter, items store.ItemRepo, heartbeat time.Duration, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		registry:     registry,
		orchestrator: orch,
		router:       rt,
		items:        items,
		heartbeat:    heartbeat,
		logger:       logger,
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), RequestID())

	engine.GET("/healthz", s.health)

	apiGroup := engine.Group("/api")
	{
		apiGroup.POST("/generate", s.generateRouted)
		apiGroup.POST("/generate/:itemType", s.generatePinned)
		apiGroup.POST("/route", s.route)
		apiGroup.POST("/items", s.createItem)
		apiGroup.GET("/items", s.listItems)
		apiGroup.GET("/items/:id", s.getItem)
	}

	s.engine = engine
	return s
}

// Handler returns the HTTP handler, for serving and for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Serve runs the HTTP server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"bundle_version": s.registry.BundleVersion(),
	})
}
