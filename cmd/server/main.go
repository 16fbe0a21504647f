package main // Entry point package

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/iliyamo/hotel-front-desk/internal/config"
	"github.com/iliyamo/hotel-front-desk/internal/database"
	"github.com/iliyamo/hotel-front-desk/internal/handler"
	"github.com/iliyamo/hotel-front-desk/internal/logger"
	"github.com/iliyamo/hotel-front-desk/internal/middleware"
	"github.com/iliyamo/hotel-front-desk/internal/queue"
	"github.com/iliyamo/hotel-front-desk/internal/repository"
	"github.com/iliyamo/hotel-front-desk/internal/router"
	"github.com/iliyamo/hotel-front-desk/internal/service"
)

// The MySQL store is the only Store implementation shipped.
var _ service.Store = (*repository.Store)(nil)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win

	cfg := config.Load()
	zl, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		zl.Fatal("database unavailable", zap.Error(err))
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Migrate {
		if err := database.Migrate(ctx, db, zl); err != nil {
			zl.Fatal("migration failed", zap.Error(err))
		}
	}

	rdb := config.NewRedisClient(zl)
	if rdb != nil {
		defer rdb.Close()
	}

	opts := service.Options{
		Logger:           zl,
		Location:         cfg.Location,
		DownpaymentRatio: cfg.DownpaymentRatio,
		CashSubMethodID:  cfg.CashSubMethodID,
	}
	if cfg.EventsEnabled {
		opts.Publisher = queue.NewPublisher(cfg.RabbitMQURL, zl)
		consumer := queue.NewConsumer(cfg.RabbitMQURL, zl)
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				zl.Error("event consumer stopped", zap.Error(err))
			}
		}()
	}
	svc := service.New(repository.NewStore(db), opts)
	h := handler.New(svc, zl)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLogger(zl))
	e.Use(echomw.Recover())
	e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, zl)

	router.RegisterRoutes(e)
	router.RegisterPublic(e, h, cfg.JWTSecret, limiter)
	router.RegisterFrontDesk(e, h, cfg.JWTSecret, limiter)

	addr := ":" + cfg.Port
	go func() {
		zl.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdown); err != nil {
		zl.Error("shutdown", zap.Error(err))
	}
}
