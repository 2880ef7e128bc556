package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coffeetrade/backend/internal/application/reconcile"
	"github.com/coffeetrade/backend/internal/application/store"
	"github.com/coffeetrade/backend/internal/infrastructure/auditlog"
	"github.com/coffeetrade/backend/internal/infrastructure/cache"
	"github.com/coffeetrade/backend/internal/infrastructure/config"
	"github.com/coffeetrade/backend/internal/infrastructure/logger"
	"github.com/coffeetrade/backend/internal/infrastructure/persistence"
	"github.com/coffeetrade/backend/internal/interfaces/http/handler"
	"github.com/coffeetrade/backend/internal/interfaces/http/middleware"
	"github.com/coffeetrade/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting coffee trade backend",
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port))

	// Database
	var gormLog gormlogger.Interface = logger.NewGormLogger(log)
	if cfg.App.Env == "production" {
		gormLog = gormLog.LogMode(gormlogger.Warn)
	}
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Repositories
	lotRepo := persistence.NewGormCoffeeLotRepository(db.DB)
	deductionRepo := persistence.NewGormSaleDeductionRepository(db.DB)
	batchRepo := persistence.NewGormInventoryBatchRepository(db.DB)
	sourceRepo := persistence.NewGormBatchSourceRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Resync run lock: Redis when configured, in-process otherwise
	var runLock reconcile.RunLock
	if cfg.Redis.Enabled {
		redisLock, err := cache.NewRedisRunLock(cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, cfg.Batch.LockTTL)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisLock.Close()
		runLock = redisLock
	} else {
		log.Info("Redis disabled, using in-process resync lock")
		runLock = cache.NewInMemoryRunLock()
	}

	// Application services
	reconcileOpts := []reconcile.ServiceOption{
		reconcile.WithLogger(log),
		reconcile.WithRunLock(runLock),
		reconcile.WithTargetCapacity(decimal.NewFromFloat(cfg.Batch.TargetCapacityKg)),
		reconcile.WithNoiseFloor(decimal.NewFromFloat(cfg.Batch.NoiseFloorKg)),
	}
	if cfg.Mongo.Enabled {
		runLog, err := auditlog.NewMongoRunLogStore(&cfg.Mongo)
		if err != nil {
			log.Fatal("Failed to connect to MongoDB", zap.Error(err))
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = runLog.Close(ctx)
		}()
		reconcileOpts = append(reconcileOpts, reconcile.WithRunLog(runLog))
	}

	reconcileService := reconcile.NewService(lotRepo, deductionRepo, batchRepo, sourceRepo, txScope, reconcileOpts...)
	lotService := store.NewLotService(lotRepo)
	deductionService := store.NewDeductionService(deductionRepo, lotRepo)
	batchQueryService := store.NewBatchQueryService(batchRepo, sourceRepo)

	// HTTP
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

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r := router.NewRouter(engine)
	r.Register(handler.NewCoffeeLotHandler(lotService))
	r.Register(handler.NewSaleDeductionHandler(deductionService))
	r.Register(handler.NewBatchHandler(batchQueryService, reconcileService))
	r.Register(handler.NewSystemHandler(db))
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
