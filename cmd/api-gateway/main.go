package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/rosterhub/rosterhub-api/api/swagger"
	"github.com/rosterhub/rosterhub-api/internal/catalog"
	"github.com/rosterhub/rosterhub-api/internal/handler"
	"github.com/rosterhub/rosterhub-api/internal/middleware"
	"github.com/rosterhub/rosterhub-api/internal/repository"
	"github.com/rosterhub/rosterhub-api/internal/service"
	"github.com/rosterhub/rosterhub-api/pkg/cache"
	"github.com/rosterhub/rosterhub-api/pkg/config"
	"github.com/rosterhub/rosterhub-api/pkg/database"
	"github.com/rosterhub/rosterhub-api/pkg/logger"
	corsmiddleware "github.com/rosterhub/rosterhub-api/pkg/middleware/cors"
	reqidmiddleware "github.com/rosterhub/rosterhub-api/pkg/middleware/requestid"
)

// @title RosterHub API
// @version 0.1.0
// @description Student roster dashboard backend
// @BasePath /
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

	store, err := newStore(cfg, logr)
	if err != nil {
		logr.Sugar().Fatalw("failed to init roster store", "backend", cfg.Store.Backend, "error", err)
	}

	simulator := catalog.NewSimulator(cfg.Catalog)
	metricsSvc := service.NewMetricsService()

	rosterSvc := service.NewRosterService(store, simulator, nil, logr).WithMetrics(metricsSvc)
	editorSvc := service.NewEditorService(rosterSvc, simulator, cfg.Editor.DebounceInterval, cfg.Editor.MaxImageBytes, logr).WithMetrics(metricsSvc)
	exportSvc := service.NewExportService(rosterSvc, cfg.Exports.Title, logr)

	// Initialization failure is not fatal: the service starts degraded and
	// /api/v1/system/retry re-runs the same sequence.
	initCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := rosterSvc.Init(initCtx); err != nil {
		logr.Sugar().Warnw("initial load failed, serving degraded", "error", err)
	}
	cancel()

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
		if !rosterSvc.Ready() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "initializing"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	metricsHandler := handler.NewMetricsHandler(metricsSvc)
	r.GET("/metrics", metricsHandler.Scrape)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	rosterHandler := handler.NewRosterHandler(rosterSvc)
	catalogHandler := handler.NewCatalogHandler(rosterSvc, simulator)
	editorHandler := handler.NewEditorHandler(editorSvc)
	dashboardHandler := handler.NewDashboardHandler(rosterSvc)
	exportHandler := handler.NewExportHandler(exportSvc)

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/students", rosterHandler.List)
		api.POST("/students", rosterHandler.Create)
		api.GET("/students/:id", rosterHandler.Get)
		api.PUT("/students/:id", rosterHandler.Update)
		api.DELETE("/students/:id", rosterHandler.Delete)

		api.GET("/courses", catalogHandler.List)
		api.GET("/courses/:id", catalogHandler.Get)
		api.GET("/email/availability", catalogHandler.CheckEmail)

		api.POST("/editor/sessions", editorHandler.Start)
		api.GET("/editor/sessions/:id", editorHandler.Get)
		api.DELETE("/editor/sessions/:id", editorHandler.Close)
		api.PUT("/editor/sessions/:id/fields", editorHandler.UpdateFields)
		api.POST("/editor/sessions/:id/image", editorHandler.AttachImage)
		api.POST("/editor/sessions/:id/submit", editorHandler.Submit)

		api.GET("/dashboard", dashboardHandler.Summary)
		api.POST("/system/retry", dashboardHandler.Retry)

		if cfg.Exports.Enabled {
			api.GET("/exports/students.csv", exportHandler.CSV)
			api.GET("/exports/students.pdf", exportHandler.PDF)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "store", cfg.Store.Backend)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

// newStore builds the configured roster snapshot backend.
func newStore(cfg *config.Config, logr *zap.Logger) (repository.RosterStore, error) {
	switch cfg.Store.Backend {
	case config.StoreRedis:
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			return nil, err
		}
		return repository.NewRedisStore(client, cfg.Store.Key, logr), nil
	case config.StorePostgres:
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			return nil, err
		}
		return repository.NewPostgresStore(db, cfg.Store.Key, logr), nil
	case config.StoreMemory:
		return repository.NewMemoryStore(logr), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
