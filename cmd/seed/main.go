package main

import (
	"context"
	"log"
	"path/filepath"

	"spendo/internal/events"
	"spendo/internal/repository"
	"spendo/internal/service"
	"spendo/pkg/config"
	"spendo/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Logger.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	ctx := context.Background()
	repo, closeStore, err := repository.Open(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to open record store", zap.Error(err))
	}
	defer closeStore()

	recordService := service.NewRecordService(repo, events.Nop{}, appLogger)

	appLogger.Info("Starting database seeding...", zap.String("file", cfg.Seed.File))

	cacheFile := filepath.Join(filepath.Dir(cfg.Seed.File), ".seed_cache.json")
	created, err := seedRecords(ctx, cfg.Seed.File, cacheFile, recordService, cfg.Seed.Concurrency, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to seed records", zap.Error(err))
	}

	appLogger.Info("Database seeding completed successfully!", zap.Int("created", created))
}
