package main

import (
	"context"

	"authgate/internal/config"
	"authgate/internal/database"
	"authgate/internal/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment, "migrate")

	if err := database.Migrate(context.Background(), cfg.Postgres.DSN); err != nil {
		logger.Fatal().Err(err).Msg("migrations failed")
	}

	logger.Info().Msg("migrations applied")
}
