package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"scout-service/internal/app"
	"scout-service/internal/config"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("[MAIN] No .env file found, relying on system env vars")
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}

	os.Exit(run(logger))
}

func run(logger *zap.Logger) int {
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := app.NewServer(config.Load(), logger)
	defer func() {
		if err := srv.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown incomplete", zap.Error(err))
		}
	}()

	if err := srv.Init(ctx); err != nil {
		logger.Error("server failed to start", zap.Error(err))
		return 1
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server failed", zap.Error(err))
			return 1
		}
	case <-ctx.Done():
		logger.Info("shutting down server")
	}

	return 0
}
