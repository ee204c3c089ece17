package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"loyalty/config"
	"loyalty/database"
	"loyalty/logger"
	"loyalty/middleware"
	"loyalty/routers"
	qualificationService "loyalty/services/qualification"
	"loyalty/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := config.LoadConfig(); err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	cfg := config.AppConfig

	zl, err := logger.Init(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	db, err := database.ConnectDb(cfg.DB, zl)
	if err != nil {
		zl.Fatal("Failed to connect to database", zap.Error(err))
	}

	app := routers.NewApp(routers.Options{
		Log:              zl,
		Qualifications:   qualificationService.New(db),
		Donations:        utils.NewDonationsClient(cfg.DonationsApiURL, cfg.DonationsApiTimeout),
		Metrics:          middleware.NewMetrics(),
		CorsAllowOrigins: cfg.CorsAllowOrigin,
		AccessLog:        true,
		DocsDir:          "./public/api-docs",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		zl.Info("Server is running", zap.String("port", cfg.Port))
		return app.Listen(":" + cfg.Port)
	})
	g.Go(func() error {
		<-ctx.Done()
		zl.Info("Shutting down")
		return app.ShutdownWithTimeout(cfg.ShutdownTimeout)
	})

	if err := g.Wait(); err != nil {
		zl.Error("Server stopped with error", zap.Error(err))
	}

	if err := database.Close(); err != nil {
		zl.Error("Failed to close database", zap.Error(err))
	}
}
