package api_gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rewear/swap-platform/internal/api_gateway/handler"
	"github.com/rewear/swap-platform/internal/api_gateway/middleware"
	"github.com/rewear/swap-platform/internal/api_gateway/service"
	"github.com/rewear/swap-platform/internal/config"
	swapsvc "github.com/rewear/swap-platform/internal/swap_manager/service"
)

// maxMultipartMemory bounds the part of an upload held in memory; the rest
// spills to temporary files
const maxMultipartMemory = 8 << 20

// Services are the business services the gateway exposes over HTTP
type Services struct {
	Auth    service.AuthService
	Items   service.ItemService
	Reports service.ReportService
	Admin   service.AdminService
	Swaps   swapsvc.SwapManager
}

// Server handles HTTP requests and manages the application's lifecycle
type Server struct {
	logger     *slog.Logger // For structured logging
	httpServer *http.Server // Underlying HTTP server
	httpRouter *gin.Engine  // Gin router instance
}

// NewServer creates and configures a new HTTP server with the given services
func NewServer(log *slog.Logger, cfg *config.Config, services Services, verifier middleware.TokenVerifier) *Server {
	if cfg.Application.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	httpRouter := gin.New()
	httpRouter.MaxMultipartMemory = maxMultipartMemory

	setupRouter(log, httpRouter, handlers{
		auth:    handler.NewAuthHandler(log, services.Auth),
		items:   handler.NewItemHandler(log, services.Items),
		swaps:   handler.NewSwapHandler(log, services.Swaps),
		reports: handler.NewReportHandler(log, services.Reports),
		admin:   handler.NewAdminHandler(log, services.Admin),
	}, verifier)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      httpRouter,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Server{
		logger:     log,
		httpServer: httpServer,
		httpRouter: httpRouter,
	}
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.httpRouter
}

// Start begins listening for HTTP requests
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the HTTP server, waiting for in-flight requests
// until ctx expires
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping HTTP server")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to stop HTTP server: %w", err)
	}
	return nil
}
