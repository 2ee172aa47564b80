package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"trip-planner-service/internal/adapters/repositories"
	"trip-planner-service/internal/config"
	"trip-planner-service/internal/platform/db"
	"trip-planner-service/internal/platform/logging"

	"go.uber.org/zap"
)

// dbtool prepares storage ahead of a deploy: the Postgres trip store when
// DATABASE_URL is set, and the local SQLite cache file.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := logging.New("trip-planner-dbtool", cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if strings.TrimSpace(cfg.DatabaseURL) != "" {
		pg, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal("open postgres", zap.Error(err))
		}
		defer pg.Close()

		initStore(ctx, log, "postgres trip store", pg, repositories.InitPostgresSchema)
	} else {
		log.Info("DATABASE_URL not set; skipping trip store")
	}

	cachePath := cfg.CachePath
	if dir := filepath.Dir(cachePath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatal("create cache dir", zap.String("dir", dir), zap.Error(err))
		}
	}

	sqlite, err := db.OpenSQLite(ctx, cachePath)
	if err != nil {
		log.Fatal("open sqlite cache", zap.String("path", cachePath), zap.Error(err))
	}
	defer sqlite.Close()

	initStore(ctx, log, "sqlite cache", sqlite, repositories.InitSchema)
}

func initStore(
	ctx context.Context,
	log *zap.Logger,
	name string,
	conn *sql.DB,
	initFn func(context.Context, *sql.DB) error,
) {
	log.Info("initializing schema", zap.String("store", name))
	if err := initFn(ctx, conn); err != nil {
		log.Fatal("schema initialization failed", zap.String("store", name), zap.Error(err))
	}
	log.Info("schema ready", zap.String("store", name))
}
