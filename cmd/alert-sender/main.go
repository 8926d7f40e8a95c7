package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	alertsender "github.com/magabrotheeeer/estate-aggregator/internal/app/alert-sender"
	"github.com/magabrotheeeer/estate-aggregator/internal/config"
)

func main() {
	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	logger.Info("starting alert-sender", slog.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := alertsender.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize alert-sender", slog.Any("err", err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		logger.Error("alert-sender stopped with error", slog.Any("err", err))
		os.Exit(1)
	}

	logger.Info("alert-sender stopped gracefully")
}
