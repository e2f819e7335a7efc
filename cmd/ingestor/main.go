package main

import (
	"context"
	"database/sql"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"tp_reviews/internal/adapters/csvfile"
	"tp_reviews/internal/adapters/observability"
	redisad "tp_reviews/internal/adapters/redis"
	"tp_reviews/internal/app"
	"tp_reviews/internal/shared"
	mysqlrepo "tp_reviews/internal/storage/mysql"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Str("csv", cfg.CSVPath).
		Int("batch_size", cfg.BatchSize).
		Bool("manage_schema", cfg.ManageSchema).
		Msg("ingestor starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)
	if cfg.ManageSchema {
		if err := repo.EnsureSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("schema creation failed")
		}
	}

	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	src := csvfile.NewSource(cfg.CSVPath)
	ing := app.NewIngestionService(src, repo, cache, cfg.BatchSize)

	if err := ing.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("ingestion failed")
	}
	log.Info().Msg("ingestion completed")
}
