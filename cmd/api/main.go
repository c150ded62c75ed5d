package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/pageza/recipe-catalog/backend/config"
	"github.com/pageza/recipe-catalog/backend/internal/database"
	"github.com/pageza/recipe-catalog/backend/internal/logging"
	"github.com/pageza/recipe-catalog/backend/internal/server"
)

func main() {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		logging.Error(ctx, "failed to load configuration", "error", err)
		os.Exit(1)
	}
	if err := logging.SetLevel(cfg.LogLevel); err != nil {
		logging.Warn(ctx, "invalid log level, using info", "error", err)
	}
	if cfg.Environment.Strict() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.New(cfg)
	if err != nil {
		logging.Error(ctx, "failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logging.Error(ctx, "failed to close database", "error", err)
		}
	}()

	if err := database.RunMigrations(ctx, db); err != nil {
		logging.Error(ctx, "failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Continue without rate limiting if Redis is not available
	var rdb *redis.Client
	if cfg.RedisEnabled() {
		rdb, err = database.NewRedisClient(cfg)
		if err != nil {
			logging.Warn(ctx, "redis unavailable, write rate limiting disabled", "error", err)
			rdb = nil
		} else {
			defer rdb.Close()
		}
	}

	srv, err := server.New(cfg, db, rdb)
	if err != nil {
		logging.Error(ctx, "failed to build server", "error", err)
		os.Exit(1)
	}

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			logging.Error(ctx, "server error", "error", err)
			os.Exit(1)
		}
		return
	case sig := <-quit:
		logging.Info(ctx, "received signal", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error(ctx, "server shutdown error", "error", err)
	}
	logging.Info(ctx, "server stopped")
}
