package main

import (
	"tourbook/config"
	"tourbook/di"
	"tourbook/helper"
	"tourbook/shared/logger"

	"github.com/rs/zerolog/log"
)

// @title						Tourbook API
// @version					1.0
// @description				Tour booking marketplace for tourists and service providers.
// @BasePath					/
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("failed to apply database migrations")
		}
	}

	http := di.InitializeService()
	http.Serve()
}
