package main

import (
	"flag"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ntp/agent-server-go/internal/database"
)

// migrateConfig needs only the database; config.Load would also demand REDIS_URL.
type migrateConfig struct {
	DatabaseURL string `env:"DATABASE_URL,required"`
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	direction := flag.String("direction", "up", "migration direction: up or down")
	flag.Parse()

	var cfg migrateConfig
	if err := env.Parse(&cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	if err := database.Migrate(cfg.DatabaseURL, *direction); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}
}
