package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"authgate/internal/cache"
	"authgate/internal/config"
	"authgate/internal/database"
	"authgate/internal/housekeeping"
	"authgate/internal/log"
	"authgate/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment, "housekeeper")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbPool, err := database.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect postgres")
	}
	defer dbPool.Close()

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect redis")
	}
	defer redisClient.Close()

	codeRepo := repository.NewVerificationCodeRepository(dbPool)
	sessionRepo := repository.NewSessionRepository(dbPool)
	cleaner := housekeeping.NewCleaner(codeRepo, sessionRepo, logger)

	hostname, _ := os.Hostname()
	consumer := housekeeping.NewConsumer(
		redisClient,
		"housekeepers",
		hostname,
		time.Minute,
		logger,
		cleaner,
	)

	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("consumer stopped unexpectedly")
	}

	logger.Info().Msg("housekeeper exited cleanly")
}
