package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Sarwan-Projects/SlotSwapper/config"
	"github.com/Sarwan-Projects/SlotSwapper/internal/api/handler"
	"github.com/Sarwan-Projects/SlotSwapper/internal/api/router"
	"github.com/Sarwan-Projects/SlotSwapper/internal/notify"
	"github.com/Sarwan-Projects/SlotSwapper/internal/repository"
	"github.com/Sarwan-Projects/SlotSwapper/internal/service"
	"github.com/Sarwan-Projects/SlotSwapper/pkg/database"
	"github.com/Sarwan-Projects/SlotSwapper/pkg/jwt"
	applogger "github.com/Sarwan-Projects/SlotSwapper/pkg/logger"
	"github.com/Sarwan-Projects/SlotSwapper/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// 1. Configuration
	cfg, err := config.Load(os.Getenv("SLOTSWAP_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Logger
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
		zap.Bool("redis", cfg.Redis.Enabled),
	)

	// 3. Database + migrations
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("connect database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("get sql.DB", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("run migrations", zap.Error(err))
	}

	// 4. Redis (optional: without it the process runs single-instance,
	//    with no token revocation and no rate limiting)
	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb, err = redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			logger.Warn("redis unavailable, continuing without it", zap.Error(err))
			rdb = nil
		}
	}

	// 5. JWT
	jwtMgr := jwt.NewManager(&cfg.Auth)

	// 6. Notifications
	registry := notify.NewRegistry()
	dispatcher := notify.NewDispatcher(registry, logger)
	if rdb != nil {
		dispatcher.WithRelay(rdb, cfg.Notify.RelayChannel)
	}

	// 7. Repository → Service → Handler
	var blacklist service.TokenBlacklist
	if rdb != nil {
		blacklist = rdb
	}
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, jwtMgr, blacklist, dispatcher, logger)
	h := handler.NewHandler(cfg, svc, registry, logger)

	// 8. Router
	engine := router.Setup(cfg, h, jwtMgr, rdb, logger)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// 9. Serve until SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return dispatcher.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		// hijacked websocket connections are not tracked by Shutdown
		registry.CloseAll()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped with error", zap.Error(err))
	}

	if err := sqlDB.Close(); err != nil {
		logger.Warn("close database", zap.Error(err))
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			logger.Warn("close redis", zap.Error(err))
		}
	}

	logger.Info("server stopped")
}
