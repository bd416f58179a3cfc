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

	appsync "github.com/nicksmagento/syncbridge/internal/application/sync"
	"github.com/nicksmagento/syncbridge/internal/infrastructure/cache"
	"github.com/nicksmagento/syncbridge/internal/infrastructure/config"
	"github.com/nicksmagento/syncbridge/internal/infrastructure/connectors"
	"github.com/nicksmagento/syncbridge/internal/infrastructure/event"
	"github.com/nicksmagento/syncbridge/internal/infrastructure/logger"
	"github.com/nicksmagento/syncbridge/internal/infrastructure/persistence"
	"github.com/nicksmagento/syncbridge/internal/infrastructure/scheduler"
	"github.com/nicksmagento/syncbridge/internal/interfaces/http/handler"
	"github.com/nicksmagento/syncbridge/internal/interfaces/http/router"
)

const version = "1.0.0"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting SyncBridge",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.Strings("connectors", cfg.ConnectorCodes()),
	)

	// Token store: Redis when configured, in-memory otherwise. The sync
	// layer works the same either way, Redis just survives restarts.
	var tokenStore connectors.TokenStore
	if cfg.Redis.Enabled {
		redisStore, err := cache.NewRedisTokenStore(cfg.Redis)
		if err != nil {
			log.Warn("Redis unavailable, falling back to in-memory token store", zap.Error(err))
			tokenStore = cache.NewInMemoryTokenStore()
		} else {
			defer func() {
				_ = redisStore.Close()
			}()
			tokenStore = redisStore
			log.Info("Redis token store connected", zap.String("addr", cfg.Redis.Addr()))
		}
	} else {
		tokenStore = cache.NewInMemoryTokenStore()
	}

	// Sync run history is optional; without a database the service still
	// syncs, it just does not remember past runs.
	var runRepo appsync.RunRepository
	var db *persistence.Database
	if cfg.Sync.HistoryEnabled {
		gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
		db, err = persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
		if err != nil {
			log.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer func() {
			if err := db.Close(); err != nil {
				log.Error("Error closing database", zap.Error(err))
			}
		}()

		if err := db.Migrate(); err != nil {
			log.Fatal("Failed to migrate database", zap.Error(err))
		}
		runRepo = persistence.NewGormSyncRunRepository(db.DB)
		log.Info("Database connected successfully")
	}

	// Connector registry and event bus
	registry := connectors.NewDefaultRegistry(cfg, tokenStore, log)

	bus := event.NewInMemoryEventBus(log)
	bus.Subscribe(appsync.NewImportSubscriber(log))

	// Sync core
	orchestrator := appsync.NewOrchestrator(registry, bus, log, cfg.Sync.MaxConcurrent)
	runner := appsync.NewRunner(orchestrator, runRepo, log)

	// Initialize every configured connector once at startup so broken
	// credentials show up in the logs right away
	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	for code, conn := range registry.Enabled(startupCtx) {
		if !conn.Initialize(startupCtx) {
			log.Warn("Connector failed to initialize", zap.String("code", code))
		}
	}
	cancelStartup()

	// Periodic sync
	if cfg.Sync.Enabled {
		syncScheduler, err := scheduler.NewSyncScheduler(scheduler.SyncSchedulerConfig{
			Interval:   cfg.Sync.Interval,
			JobTimeout: cfg.Sync.JobTimeout,
		}, runner, log)
		if err != nil {
			log.Fatal("Failed to create sync scheduler", zap.Error(err))
		}
		if err := syncScheduler.Start(context.Background()); err != nil {
			log.Fatal("Failed to start sync scheduler", zap.Error(err))
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := syncScheduler.Stop(stopCtx); err != nil {
				log.Error("Sync scheduler did not stop cleanly", zap.Error(err))
			}
		}()
	}

	// HTTP server
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(logger.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Invalid trusted proxies", zap.Error(err))
		}
	}

	engine.GET("/health", healthHandler(db))

	router.NewRouter(engine).
		Register(handler.NewSystemHandler(cfg.App.Name, version)).
		Register(handler.NewConnectorHandler(registry, cfg, log)).
		Register(handler.NewSyncHandler(runner, runRepo, log)).
		Setup()

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

// healthHandler reports liveness, including database reachability when
// history recording is on
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		body := gin.H{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		}
		if db != nil {
			if err := db.Ping(); err != nil {
				body["status"] = "unhealthy"
				body["database"] = "error"
				c.JSON(http.StatusServiceUnavailable, body)
				return
			}
			body["database"] = "ok"
		}
		c.JSON(http.StatusOK, body)
	}
}
