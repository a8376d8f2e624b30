package main

import (
	"context"
	"database/sql"
	"embed"
	"flag"
	"os"

	"farmer-market-web/internal/config"
	"farmer-market-web/internal/logger"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

func main() {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()
	log := logger.L()

	mode := flag.String("mode", "up", "migration mode: up, down or status")
	flag.Parse()

	if cfg.DatabaseURL == "" {
		log.Fatal("DB_URL not set in environment")
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed to connect db", zap.Error(err))
	}
	defer db.Close()

	if err := run(context.Background(), db, *mode, migrationFiles); err != nil {
		log.Error("migration failed", zap.String("mode", *mode), zap.Error(err))
		os.Exit(1)
	}
}
