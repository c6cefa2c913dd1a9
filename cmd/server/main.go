package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	reportapp "github.com/ogw/sanity-backend/internal/application/report"
	runnerapp "github.com/ogw/sanity-backend/internal/application/runner"
	"github.com/ogw/sanity-backend/internal/domain/report"
	"github.com/ogw/sanity-backend/internal/domain/runner"
	"github.com/ogw/sanity-backend/internal/infrastructure/cache"
	"github.com/ogw/sanity-backend/internal/infrastructure/config"
	"github.com/ogw/sanity-backend/internal/infrastructure/gateway"
	"github.com/ogw/sanity-backend/internal/infrastructure/logger"
	"github.com/ogw/sanity-backend/internal/infrastructure/persistence"
	"github.com/ogw/sanity-backend/internal/infrastructure/statusstore"
	"github.com/ogw/sanity-backend/internal/interfaces/http/handler"
	"github.com/ogw/sanity-backend/internal/interfaces/http/middleware"
	"github.com/ogw/sanity-backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting OGW sanity backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("environment", cfg.Environment.Name),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Report database
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to report database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Report database connected")

	reportRepo := persistence.NewGormReportRepository(db.DB)

	// Recent-runs cache is optional; the dashboard works without Redis,
	// only the recent list comes back empty.
	var recentCache report.RecentCache
	redisCache, err := cache.NewRedisRecentCache(cfg.Redis, log)
	if err != nil {
		log.Warn("Redis unavailable, recent-runs cache disabled", zap.Error(err))
	} else {
		recentCache = redisCache
		defer func() {
			_ = redisCache.Close()
		}()
	}

	reportService := reportapp.NewService(reportRepo, recentCache, log)

	// Optional direct connection to the order-status store. Runs that carry
	// a proxy URL bypass this entirely.
	var statusDB *persistence.Database
	if cfg.StatusStore.DirectDSN != "" {
		statusDB, err = persistence.NewDatabaseFromDSN(cfg.StatusStore.DirectDSN, gormLog)
		if err != nil {
			log.Warn("Status store direct connection failed, falling back to proxy or simulation", zap.Error(err))
		} else {
			defer func() {
				_ = statusDB.Close()
			}()
			log.Info("Status store direct connection established")
		}
	}

	var statusGormDB *gorm.DB
	if statusDB != nil {
		statusGormDB = statusDB.DB
	}
	selector := statusstore.NewSelector(statusGormDB, log)

	// Scenario engine
	gatewayClient := gateway.NewClient(cfg.Gateway.Timeout, log)
	poller := runnerapp.NewPoller(cfg.Poller.MaxAttempts, cfg.Poller.Interval, log)
	engineSvc := runnerapp.NewEngine(gatewayClient, poller, selector.Select, log)

	baseEnv := runner.EnvironmentConfig{
		Auth: runner.Credentials{
			Username: cfg.Environment.Username,
			Password: cfg.Environment.Password,
		},
		Endpoint: runner.EndpointConfig{Host: cfg.Environment.Host},
		StatusStore: runner.StatusStoreConfig{
			ProxyURL: cfg.StatusStore.ProxyURL,
		},
	}

	// Handlers
	runHandler := handler.NewRunHandler(engineSvc, reportService, baseEnv, cfg.Environment.Name, log)
	reportHandler := handler.NewReportHandler(reportService)
	systemHandler := handler.NewSystemHandler(db)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack: request ID first so recovery and request logs
	// carry it, then security headers and CORS.
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSFromConfig(cfg.HTTP))

	// Scenario runs block for the full polling budget, so the request
	// context must outlive it.
	engine.Use(middleware.Timeout(cfg.HTTP.WriteTimeout))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", systemHandler.Health)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	for _, group := range router.APIGroups(router.Handlers{
		Run:    runHandler,
		Report: reportHandler,
		System: systemHandler,
	}) {
		r.Register(group)
	}
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
