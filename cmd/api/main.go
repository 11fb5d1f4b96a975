package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/ecocolecta/pickup-system/internal/api"
	"github.com/ecocolecta/pickup-system/internal/infrastructure/config"
	"github.com/ecocolecta/pickup-system/internal/infrastructure/db/postgres"
	redisdb "github.com/ecocolecta/pickup-system/internal/infrastructure/db/redis"
	"github.com/ecocolecta/pickup-system/internal/infrastructure/queue"
	"github.com/ecocolecta/pickup-system/pkg/logger"

	_ "github.com/ecocolecta/pickup-system/docs"
)

// @title        Recyclable Pickup Coordination API
// @version      1.0
// @description  Role-based API coordinating recyclable pickups between citizens, associations, and recyclers.
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Env == "development",
		Service: "pickup-api",
	})

	pool, err := postgres.Connect(ctx, postgres.Config{DSN: cfg.Postgres.DSN})
	if err != nil {
		log.Fatal().Err(err).Msg("postgres connection failed")
	}
	defer pool.Close()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	trail := queue.NewAuditDispatcher(cfg.AuditWorkers, postgres.NewAuditRepository(pool), log)
	trail.Start(ctx)

	e := api.NewRouter(pool, rdb, cfg, trail, log)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server started")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}
