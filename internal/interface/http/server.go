package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"flightassist-service/internal/infrastructure/config"
	"flightassist-service/pkg/logger"
)

// Server is the gin HTTP server of the flight assistant
type Server struct {
	engine *gin.Engine
	server *http.Server
	logger logger.Logger
}

// NewServer creates a new server with middleware and routes registered
func NewServer(cfg *config.Config, handler *Handler, gatherer prometheus.Gatherer, logger logger.Logger) *Server {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(RequestLogger(logger))

	registerRoutes(engine, handler, Auth(cfg.AuthTokens), gatherer)

	return &Server{
		engine: engine,
		server: &http.Server{
			Addr:         ":" + cfg.Port,
			Handler:      engine,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		logger: logger,
	}
}

func registerRoutes(engine *gin.Engine, h *Handler, auth gin.HandlerFunc, gatherer prometheus.Gatherer) {
	engine.GET("/health", h.Health)
	if gatherer != nil {
		engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	v1 := engine.Group("/api/v1", auth)
	{
		v1.POST("/search", h.Search)
		v1.POST("/search-direct", h.SearchDirect)
		v1.GET("/context", h.GetContext)
		v1.POST("/context/reset", h.ResetContext)
		v1.GET("/airlines/stats", h.AirlineStats)
	}
}

// Handler exposes the routed engine
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start blocks serving requests until Stop is called
func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop drains in-flight requests
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
