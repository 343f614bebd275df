package api

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/dfs-covariance/internal/api/handlers"
	"github.com/jstittsworth/dfs-covariance/internal/cache"
	"github.com/jstittsworth/dfs-covariance/internal/storage"
	"github.com/jstittsworth/dfs-covariance/pkg/config"
	"github.com/jstittsworth/dfs-covariance/pkg/database"
)

// SetupRouter configures the gin engine with all service routes
func SetupRouter(db *database.DB, redisClient *redis.Client, repo *storage.Repository, cacheService *cache.CovarianceCacheService, cfg *config.Config, logger *logrus.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handlers.NewHealthHandler(db, redisClient, logger)
	covarianceHandler := handlers.NewCovarianceHandler(repo, cacheService, cfg, logger)

	router.GET("/health", healthHandler.GetHealth)
	router.GET("/ready", healthHandler.GetReady)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/covariance", covarianceHandler.ComputeCovariance)
		v1.GET("/covariance/:date", covarianceHandler.GetCovariance)
	}

	return router
}
