package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/bizmetrics-api/internal/application/analytics"
	"github.com/sangkips/bizmetrics-api/internal/application/service"
	"github.com/sangkips/bizmetrics-api/internal/config"
	"github.com/sangkips/bizmetrics-api/internal/infrastructure/cache"
	"github.com/sangkips/bizmetrics-api/internal/infrastructure/database"
	"github.com/sangkips/bizmetrics-api/internal/infrastructure/repository"
	"github.com/sangkips/bizmetrics-api/internal/presentation/http/handler"
	"github.com/sangkips/bizmetrics-api/internal/presentation/http/routes"
	"github.com/sangkips/bizmetrics-api/pkg/logger"
	"github.com/sangkips/bizmetrics-api/pkg/utils"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	zlog, err := logger.New(cfg.App.Env, cfg.App.Debug)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Misconfigured ladders stop the process before it accepts traffic
	engineCfg, err := cfg.Metrics.Analytics()
	if err != nil {
		zlog.Fatal("invalid metrics configuration", zap.Error(err))
	}
	engine, err := analytics.NewEngine(engineCfg)
	if err != nil {
		zlog.Fatal("invalid metrics configuration", zap.Error(err))
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Debug, zlog)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run auto-migrations
	if cfg.Database.Migrate {
		if err := database.AutoMigrate(db, zlog); err != nil {
			zlog.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	reportCache := newReportCache(cfg, zlog)

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(cfg.JWT.Secret)

	// Initialize repositories
	recordRepo := repository.NewRecordRepository(db)

	// Initialize services
	dashboardService := service.NewDashboardService(engine, recordRepo, reportCache, service.DashboardOptions{
		FetchTimeout:     cfg.Metrics.FetchTimeout,
		ClockGranularity: cfg.Metrics.ClockGranularity,
		CacheTTL:         cfg.Cache.TTL,
	}, zlog)

	// Initialize handlers
	handlers := &routes.Handlers{
		Dashboard: handler.NewDashboardHandler(dashboardService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager: jwtManager,
		Cfg:        cfg,
		Logger:     zlog,
	})

	// Get port from environment or use default
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	zlog.Info("starting server",
		zap.String("service", cfg.App.Name),
		zap.String("port", port),
		zap.String("env", cfg.App.Env),
	)

	if err := router.Run(":" + port); err != nil {
		zlog.Fatal("failed to start server", zap.Error(err))
	}
}

func newReportCache(cfg *config.Config, zlog *zap.Logger) cache.ReportCache {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rc := cache.New(ctx, cache.Options{
		Driver:        cfg.Cache.Driver,
		RedisAddr:     cfg.Redis.Addr,
		RedisPassword: cfg.Redis.Password,
		RedisDB:       cfg.Redis.DB,
	}, zlog)
	zlog.Info("report cache ready", zap.String("driver", cache.DriverOf(rc)), zap.Duration("ttl", cfg.Cache.TTL))
	return rc
}
