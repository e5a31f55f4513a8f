package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"spendo/internal/api"
	"spendo/internal/api/handlers"
	"spendo/internal/events"
	"spendo/internal/repository"
	"spendo/internal/service"
	"spendo/pkg/config"
	"spendo/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// @title Spendo API
// @version 1.0
// @description Expense and savings records for the Spendo finance tracker

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:4000
// @BasePath /

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting Spendo API", zap.String("store", cfg.Store.Driver))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, closeStore, err := repository.Open(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to open record store", zap.Error(err))
	}
	defer closeStore()

	var notifier events.Notifier = events.Nop{}
	if cfg.AMQP.URL != "" {
		publisher, err := events.NewRabbitPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to connect to AMQP broker", zap.Error(err))
		}
		defer publisher.Close()
		notifier = publisher
	}

	recordService := service.NewRecordService(repo, notifier, appLogger)
	recordHandler := handlers.NewRecordHandler(recordService, appLogger)

	app := api.SetupRouter(recordHandler, &cfg.Server, appLogger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		return app.Listen(addr)
	})
	g.Go(func() error {
		<-gctx.Done()
		appLogger.Info("Shutting down server")
		return app.Shutdown()
	})

	if err := g.Wait(); err != nil {
		appLogger.Error("Server stopped with error", zap.Error(err))
	}
}
