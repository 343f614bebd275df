package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/dfs-covariance/internal/api"
	"github.com/jstittsworth/dfs-covariance/internal/cache"
	"github.com/jstittsworth/dfs-covariance/internal/covariance"
	"github.com/jstittsworth/dfs-covariance/internal/pipeline"
	"github.com/jstittsworth/dfs-covariance/internal/storage"
	"github.com/jstittsworth/dfs-covariance/pkg/config"
	"github.com/jstittsworth/dfs-covariance/pkg/database"
	"github.com/jstittsworth/dfs-covariance/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Initialize structured logger
	log := logger.InitLogger("", cfg.IsDevelopment())
	logger.WithService("covariance-service").WithFields(logrus.Fields{
		"environment": cfg.Env,
		"port":        cfg.Port,
	}).Info("Starting Covariance Service")

	// Setup Gin mode
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	repo, err := storage.NewRepository(db)
	if err != nil {
		log.Fatalf("Failed to initialize repository: %v", err)
	}

	// Connect to Redis
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to parse Redis URL: %v", err)
	}
	redisClient := redis.NewClient(opt)
	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	cacheService := cache.NewCovarianceCacheService(redisClient, log)

	// Schedule the daily artifact refresh if enabled
	var scheduler *cron.Cron
	if cfg.EnableRefreshJob {
		scheduler = cron.New()
		if _, err := scheduler.AddFunc(cfg.RefreshSchedule, func() {
			refreshTodayArtifact(repo, cacheService, cfg, log)
		}); err != nil {
			log.Fatalf("Failed to schedule refresh job: %v", err)
		}
		scheduler.Start()
		log.WithField("schedule", cfg.RefreshSchedule).Info("Covariance refresh job scheduled")
	}

	// Initialize router
	router := api.SetupRouter(db, redisClient, repo, cacheService, cfg, log)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.WithField("port", cfg.Port).Info("Covariance service listening")

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down covariance service")

	if scheduler != nil {
		scheduler.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Covariance service stopped")
}

// refreshTodayArtifact recomputes and re-caches the artifact for the current
// slate date from the stored slate, if one exists.
func refreshTodayArtifact(repo *storage.Repository, cacheService *cache.CovarianceCacheService, cfg *config.Config, log *logrus.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	slateDate := time.Now().Format("2006-01-02")
	entries, err := repo.LoadSlate(ctx, slateDate)
	if err != nil {
		log.WithError(err).Error("Refresh job failed to load slate")
		return
	}
	if len(entries) == 0 {
		log.WithField("slate_date", slateDate).Debug("Refresh job found no slate for today")
		return
	}

	history, err := repo.LoadGameRecords(ctx)
	if err != nil {
		log.WithError(err).Error("Refresh job failed to load history")
		return
	}

	result, err := pipeline.Run(history, entries, pipeline.Options{
		Epsilon:   cfg.PSDEpsilon,
		SlateDate: slateDate,
		Defaults: covariance.StdDevDefaults{
			Pitcher: cfg.DefaultPitcherStd,
			Batter:  cfg.DefaultBatterStd,
		},
	})
	if err != nil {
		log.WithError(err).Error("Refresh job computation failed")
		return
	}

	if err := cacheService.SetArtifact(ctx, result.ToArtifact(), cfg.CacheExpiration); err != nil {
		log.WithError(err).Error("Refresh job failed to cache artifact")
		return
	}
	log.WithFields(logrus.Fields{
		"slate_date":     slateDate,
		"computation_id": result.ComputationID,
	}).Info("Refreshed covariance artifact")
}
