package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/codyseavey/cardledger/backend/internal/api/handlers"
	"github.com/codyseavey/cardledger/backend/internal/config"
	"github.com/codyseavey/cardledger/backend/internal/metrics"
)

func SetupRouter(cfg config.HTTPConfig, searchHandler *handlers.SearchHandler, statusHandler *handlers.StatusHandler, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))
	router.Use(metrics.GinMiddleware())

	// CORS configuration - allow configured origins or local dev servers
	corsConfig := cors.DefaultConfig()
	if len(cfg.CORSOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.CORSOrigins
	} else {
		corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://localhost:3000"}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", RequestIDHeader}
	corsConfig.ExposeHeaders = []string{RequestIDHeader}
	corsConfig.AllowCredentials = false
	router.Use(cors.New(corsConfig))

	// API routes
	api := router.Group("/api")
	{
		search := api.Group("/search")
		{
			search.POST("", searchHandler.Search)
			search.GET("", searchHandler.SearchQuery)
			search.GET("/status", statusHandler.GetStatus)
		}
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}
