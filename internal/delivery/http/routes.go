package http

import (
	"github.com/gin-gonic/gin"

	"github.com/dbklik/recapdash/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))
	router.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		match := v1.Group("/match")
		{
			match.POST("/compare", handler.CompareMatches)
			match.GET("/runs/:id", handler.GetRun)
		}

		label := v1.Group("/label")
		{
			label.POST("/run", handler.RunLabeling)
		}

		analytics := v1.Group("/analytics")
		{
			analytics.GET("/latest", handler.LatestEntries)
			analytics.GET("/top-products", handler.TopProducts)
			analytics.GET("/brand-revenue", handler.BrandRevenue)
			analytics.GET("/weekly-revenue", handler.WeeklyRevenue)
			analytics.GET("/stock-trend", handler.StockTrend)
			analytics.GET("/new-products", handler.NewProducts)
		}

		data := v1.Group("/data")
		{
			data.POST("/refresh", handler.RefreshData)
		}
	}

	return router
}
