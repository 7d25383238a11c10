// Command migrate applies the database schema and verifies store
// connectivity. The tracker core itself is a library; this is the only
// binary the repo ships.
package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"github.com/focusloop/backend/internal/config"
	pgInfra "github.com/focusloop/backend/internal/infrastructure/postgres"
	"github.com/focusloop/backend/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	if cfg.Store.Backend != config.StorePostgres {
		zapLogger.Info("store backend needs no migrations", zap.String("backend", cfg.Store.Backend))
		return
	}

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := pgInfra.NewPool(ctx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	defer pgInfra.Close(pool, zapLogger)

	zapLogger.Info("store ready", zap.String("database", cfg.Database.Name))
}
