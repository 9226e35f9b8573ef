package api_gateway

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rewear/swap-platform/internal/api_gateway/handler"
	"github.com/rewear/swap-platform/internal/api_gateway/middleware"
	"github.com/rewear/swap-platform/internal/domain/shared"
)

// handlers groups the HTTP handlers mounted by the router
type handlers struct {
	auth    *handler.AuthHandler
	items   *handler.ItemHandler
	swaps   *handler.SwapHandler
	reports *handler.ReportHandler
	admin   *handler.AdminHandler
}

// setupRouter configures API routes and middleware for the application
func setupRouter(logger *slog.Logger, r *gin.Engine, h handlers, verifier middleware.TokenVerifier) {
	r.Use(middleware.CorrelationID())
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics())

	requireAuth := middleware.RequireAuth(verifier)
	requireUser := middleware.RequireRole(shared.RoleUser)
	requireAdmin := middleware.RequireRole(shared.RoleAdmin)

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", h.auth.Register)
			auth.POST("/login", h.auth.Login)
		}

		// Browsing is public; everything else needs a member token
		items := v1.Group("/items")
		{
			items.GET("", h.items.List)
			items.GET("/mine", requireAuth, requireUser, h.items.ListMine)
			items.GET("/:id", h.items.GetByID)
			items.POST("", requireAuth, requireUser, h.items.Create)
			items.PATCH("/:id", requireAuth, requireUser, h.items.Update)
			items.DELETE("/:id", requireAuth, requireUser, h.items.Delete)
		}

		swaps := v1.Group("/swaps", requireAuth, requireUser)
		{
			swaps.POST("/request", h.swaps.Request)
			swaps.GET("/my-swaps", h.swaps.ListMine)
			swaps.GET("/:id", h.swaps.GetByID)
			swaps.POST("/:id/cancel", h.swaps.Cancel)
			swaps.POST("/:id/complete", h.swaps.Complete)
		}

		v1.POST("/reports", requireAuth, requireUser, h.reports.Create)

		admin := v1.Group("/admin", requireAuth, requireAdmin)
		{
			admin.GET("/users", h.admin.ListUsers)
			admin.PATCH("/users/:id/status", h.admin.SetUserStatus)
			admin.POST("/users/:id/points", h.admin.AdjustPoints)
			admin.GET("/users/:id/reconcile", h.admin.Reconcile)
			admin.GET("/users/:id/ledger", h.admin.UserLedger)
			admin.GET("/items", h.admin.ListItems)
			admin.DELETE("/items/:id", h.admin.RemoveItem)
			admin.GET("/swaps", h.admin.ListSwaps)
			admin.GET("/activity", h.admin.Activity)
			admin.GET("/reports", h.reports.List)
			admin.POST("/reports/:id/review", h.reports.Review)
			admin.POST("/reports/:id/resolve", h.reports.Resolve)
		}
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
