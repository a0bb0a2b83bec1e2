package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"humanglue-backend/internal/shared/middleware"
	"humanglue-backend/pkg/container"
)

// SetupRouter builds the full route tree.
func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS())

	router.GET("/health", func(ctx *gin.Context) {
		if err := c.DB.HealthCheck(ctx.Request.Context()); err != nil {
			ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		if err := c.Cache.Ping(ctx.Request.Context()); err != nil {
			ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"version": c.Config.App.Version,
		})
	})

	window := time.Duration(c.Config.RateLimit.WindowSeconds) * time.Second
	applyLimit := middleware.RateLimit(c.Cache, "apply", c.Config.RateLimit.Requests, window)
	authLimit := middleware.RateLimit(c.Cache, "auth", c.Config.RateLimit.Requests, window)

	optionalAuth := middleware.OptionalAuth(c.JWTManager)
	requireAuth := middleware.RequireAuth(c.JWTManager)

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth", authLimit)
		{
			auth.POST("/register", c.ProfileHandler.Register)
			auth.POST("/login", c.ProfileHandler.Login)
		}
		v1.GET("/users/me", requireAuth, c.ProfileHandler.Me)

		applications := v1.Group("/expert-applications")
		{
			// Creation and reads are open to anonymous callers;
			// creation is rate limited per IP. Anonymous readers only
			// ever see NOT_FOUND, but a valid token upgrades the view.
			applications.POST("", optionalAuth, applyLimit, c.AppHandler.Create)
			applications.GET("", optionalAuth, c.AppHandler.List)
			applications.GET("/:id", optionalAuth, c.AppHandler.Get)

			applications.PATCH("/:id", requireAuth, c.AppHandler.Update)
			applications.DELETE("/:id", requireAuth, c.AppHandler.Delete)
			applications.POST("/:id/image", requireAuth, c.AppHandler.UploadImage)
			applications.POST("/:id/review", requireAuth, c.AppHandler.Review)
		}

		admin := v1.Group("/admin", requireAuth)
		{
			admin.GET("/expert-applications/export", c.AppHandler.Export)
			admin.PUT("/users/:id/role", c.ProfileHandler.UpdateRole)
		}
	}

	return router
}
