package main

import (
	"libraryhub/config"
	"libraryhub/di"
	"libraryhub/helper"
	"libraryhub/shared/logger"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to migrate database")
		}
	}

	http, cleanup, err := di.InitializeService()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize service")
	}

	defer cleanup()

	if err := http.Serve(); err != nil {
		log.Error().Err(err).Msg("HTTP server stopped unexpectedly")
	}
}
