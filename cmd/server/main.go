package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"auth-gateway/internal/app"
	"auth-gateway/internal/config"
	"auth-gateway/internal/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger.Init()

	if err := run(); err != nil {
		logger.Fatal("auth-gateway failed", map[string]any{
			"error": err.Error(),
		})
	}
	logger.Info("auth-gateway stopped cleanly", nil)
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- application.Run()
	}()

	logger.Info("auth-gateway started", map[string]any{
		"port":          cfg.AppPort,
		"db_driver":     cfg.DatabaseDriver,
		"cookie_secure": cfg.CookieSecure,
	})

	select {
	case err := <-serveErr:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received", nil)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return application.Shutdown(shutdownCtx)
}
