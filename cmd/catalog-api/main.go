package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/fuzailpalnak/authentic-ilm/api/swagger"
	"github.com/fuzailpalnak/authentic-ilm/internal/handler"
	"github.com/fuzailpalnak/authentic-ilm/internal/middleware"
	"github.com/fuzailpalnak/authentic-ilm/internal/repository"
	"github.com/fuzailpalnak/authentic-ilm/internal/service"
	"github.com/fuzailpalnak/authentic-ilm/pkg/cache"
	"github.com/fuzailpalnak/authentic-ilm/pkg/config"
	"github.com/fuzailpalnak/authentic-ilm/pkg/database"
	"github.com/fuzailpalnak/authentic-ilm/pkg/jobs"
	"github.com/fuzailpalnak/authentic-ilm/pkg/logger"
	corsmiddleware "github.com/fuzailpalnak/authentic-ilm/pkg/middleware/cors"
	reqidmiddleware "github.com/fuzailpalnak/authentic-ilm/pkg/middleware/requestid"
)

// @title Course Catalog API
// @version 0.1.0
// @description Stores nested course records and streams catalog queries
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, entity cache disabled", "error", err)
		redisClient = nil
	}

	courseRepo := repository.NewCourseRepository(db)
	topicRepo := repository.NewTopicRepository(db)
	professorRepo := repository.NewProfessorRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	invalidation := jobs.NewQueue("cache-invalidation", func(ctx context.Context, task jobs.Task) error {
		keys, ok := task.Payload.([]string)
		if !ok {
			return nil
		}
		return cacheRepo.Delete(ctx, keys...)
	}, jobs.QueueConfig{Workers: 1, Logger: logr})
	invalidation.Start(context.Background())
	defer invalidation.Stop()

	metricsSvc := service.NewMetricsService()

	catalogSvc := service.NewCatalogService(courseRepo, topicRepo, professorRepo, cacheRepo, invalidation, nil, logr, service.CatalogOptions{
		StreamBatchSize: cfg.Catalog.StreamBatchSize,
		EntityCacheTTL:  cfg.Catalog.EntityCacheTTL,
	}).WithMetrics(metricsSvc)
	exportSvc := service.NewExportService(catalogSvc, logr)

	catalogHandler := handler.NewCatalogHandler(catalogSvc, exportSvc, metricsSvc, logr)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", metricsHandler.Expose)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.Timeout(cfg.Catalog.RequestTimeout))

	api.POST("/courses", catalogHandler.Create)
	api.GET("/courses/topic/:name", catalogHandler.StreamByTopic)
	api.GET("/courses/professor/:name", catalogHandler.StreamByProfessor)

	if cfg.Catalog.ExportEnabled {
		api.GET("/courses/export", catalogHandler.ExportCSV)
		api.GET("/syllabus/:id", catalogHandler.SyllabusPDF)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
