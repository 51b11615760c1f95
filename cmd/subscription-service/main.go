// Package main Subscription Registry API
//
// @title           Subscription Registry API
// @version         1.0
// @description     API для регистрации подписчиков и проверки статуса подписки

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/magabrotheeeer/subscription-registry/internal/app/subscriptionservice"
	"github.com/magabrotheeeer/subscription-registry/internal/config"
	"github.com/magabrotheeeer/subscription-registry/internal/lib/sl"
)

func main() {
	cfg := config.MustLoad()
	logger := sl.New(os.Stdout, cfg.Debug)

	logger.Info("starting subscription-service", slog.String("env", cfg.Env), slog.Bool("debug", cfg.Debug))
	logger.Debug("loaded config\n" + cfg.String())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := subscriptionservice.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize app", sl.Err(err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("app stopped with error", sl.Err(err))
		os.Exit(1)
	}

	logger.Info("subscription-service stopped gracefully")
}
