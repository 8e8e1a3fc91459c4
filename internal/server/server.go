package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kubev2v/jobrunner/internal/config"
)

const (
	apiPrefix         = "/api/v1"
	readHeaderTimeout = 10 * time.Second
)

type Server struct {
	srv    *http.Server
	engine *gin.Engine
}

// NewServer builds the HTTP server. registerHandlerFn receives the /api/v1
// route group.
func NewServer(cfg *config.Configuration, registerHandlerFn func(router *gin.RouterGroup)) (*Server, error) {
	switch cfg.Server.ServerMode {
	case config.ServerModeProd:
		gin.SetMode(gin.ReleaseMode)
	case config.ServerModeDev:
		gin.SetMode(gin.DebugMode)
	default:
		return nil, fmt.Errorf("unknown server mode %q", cfg.Server.ServerMode)
	}

	logger := zap.L().Named("http")

	engine := gin.New()
	engine.Use(
		ginzap.Ginzap(logger, time.RFC3339, true),
		ginzap.RecoveryWithZap(logger, true),
	)

	router := engine.Group(apiPrefix)
	registerHandlerFn(router)

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	return &Server{
		engine: engine,
		srv: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Server.HTTPPort),
			Handler:           engine,
			ReadHeaderTimeout: readHeaderTimeout,
		},
	}, nil
}

// Start blocks until the server fails or is stopped. A stopped server
// returns nil.
func (s *Server) Start(ctx context.Context) error {
	s.srv.BaseContext = func(net.Listener) context.Context { return ctx }

	zap.S().Named("server").Infow("http server listening", "addr", s.srv.Addr)

	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop performs a graceful shutdown, waiting for in-flight requests.
func (s *Server) Stop(ctx context.Context) error {
	zap.S().Named("server").Info("http server shutting down")
	return s.srv.Shutdown(ctx)
}

// Handler exposes the router, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}
