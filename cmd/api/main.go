package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/sgmi/production-backend/internal/config"
	"github.com/sgmi/production-backend/internal/handler"
	"github.com/sgmi/production-backend/internal/infra/postgresql"
	"github.com/sgmi/production-backend/internal/infra/postgresql/migrations"
	infraredis "github.com/sgmi/production-backend/internal/infra/redis"
	"github.com/sgmi/production-backend/internal/observability"
	"github.com/sgmi/production-backend/internal/queue"
	"github.com/sgmi/production-backend/internal/repository"
	"github.com/sgmi/production-backend/internal/service"
	"github.com/sgmi/production-backend/internal/transport"
	"github.com/sgmi/production-backend/internal/ws"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	db, err := postgresql.NewPostgres(cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("postgres initialization failed", zap.Error(err))
	}

	if err := migrations.Migrate(db); err != nil {
		logger.Fatal("database migrations failed", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("postgres underlying db init failed", zap.Error(err))
	}
	defer sqlDB.Close()

	rdb, err := infraredis.NewRedis(cfg.RedisURL)
	if err != nil {
		logger.Fatal("redis initialization failed", zap.Error(err))
	}
	defer rdb.Close()

	limiter, err := infraredis.NewRedisRateLimiter(rdb, cfg.AuthRatePerSec)
	if err != nil {
		logger.Fatal("rate limiter initialization failed", zap.Error(err))
	}

	rabbit, err := queue.NewRabbitMQ(cfg.RabbitMQURL)
	if err != nil {
		logger.Fatal("rabbitmq initialization failed", zap.Error(err))
	}
	defer rabbit.Close()
	publisher := queue.NewRabbitMQPublisher(rabbit)

	metrics := observability.NewMetrics()
	hub := ws.NewHub(time.Duration(cfg.HeartbeatSeconds)*time.Second, logger, metrics)

	users := repository.NewGormUserRepo(db)
	products := repository.NewGormProductRepo(db)
	plans := repository.NewGormPlanRepo(db)
	batches := repository.NewGormBatchRepo(db)
	entries := repository.NewGormEntryRepo(db)
	reports := repository.NewGormReportRepo(db)

	authService, err := service.NewAuthService(
		users,
		cfg.JWTSecret,
		cfg.JWTRefreshSecret,
		time.Duration(cfg.JWTAccessTTLMin)*time.Minute,
		time.Duration(cfg.JWTRefreshTTLDays)*24*time.Hour,
		logger,
	)
	if err != nil {
		logger.Fatal("auth service initialization failed", zap.Error(err))
	}

	productService, err := service.NewProductService(products)
	if err != nil {
		logger.Fatal("product service initialization failed", zap.Error(err))
	}

	planService, err := service.NewPlanService(plans, products, hub, publisher, logger)
	if err != nil {
		logger.Fatal("plan service initialization failed", zap.Error(err))
	}

	batchService, err := service.NewBatchService(batches, plans, products, hub, publisher, metrics, logger)
	if err != nil {
		logger.Fatal("batch service initialization failed", zap.Error(err))
	}
	hub.BindActioner(batchService)

	entryService, err := service.NewEntryService(entries, products, hub, publisher, logger)
	if err != nil {
		logger.Fatal("entry service initialization failed", zap.Error(err))
	}

	reportService, err := service.NewReportService(reports)
	if err != nil {
		logger.Fatal("report service initialization failed", zap.Error(err))
	}

	timerBroadcaster, err := service.NewTimerBroadcaster(
		batches,
		hub,
		time.Duration(cfg.TimerSweepSeconds)*time.Second,
		metrics,
		logger,
	)
	if err != nil {
		logger.Fatal("timer broadcaster initialization failed", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		AppName:      "production-backend",
		ErrorHandler: transport.ErrorHandler(logger),
	})
	app.Use(handler.RequestID())
	app.Use(metrics.HTTPMiddleware())

	handler.RegisterHealthRoutes(app, sqlDB, rdb, hub)
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	requireAuth := handler.RequireAuth(cfg.JWTSecret)
	authLimit := handler.RateLimit(limiter, "auth", logger)

	api := app.Group("/api/v1")
	if err := handler.RegisterAuthRoutes(api, authService, authLimit, requireAuth); err != nil {
		logger.Fatal("auth route registration failed", zap.Error(err))
	}
	if err := handler.RegisterProductRoutes(api, productService, requireAuth); err != nil {
		logger.Fatal("product route registration failed", zap.Error(err))
	}
	if err := handler.RegisterProductionRoutes(api, planService, batchService, entryService, requireAuth); err != nil {
		logger.Fatal("production route registration failed", zap.Error(err))
	}
	if err := handler.RegisterDirectorRoutes(api, reportService, requireAuth); err != nil {
		logger.Fatal("director route registration failed", zap.Error(err))
	}

	app.Use("/ws", ws.UpgradeGate(cfg.JWTSecret))
	app.Get("/ws", hub.Handler(cfg.JWTSecret))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return hub.Run(ctx)
	})
	g.Go(func() error {
		return timerBroadcaster.Start(ctx)
	})
	g.Go(func() error {
		logger.Info("production backend listening", zap.Int("port", cfg.APIPort))
		return app.Listen(fmt.Sprintf(":%d", cfg.APIPort))
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		return app.ShutdownWithTimeout(shutdownTimeout)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server exited with error", zap.Error(err))
	}
	logger.Info("shutdown complete")
}
