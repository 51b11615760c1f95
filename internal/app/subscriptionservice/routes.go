// Package subscriptionservice собирает HTTP-приложение сервиса подписок.
package subscriptionservice

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	// Регистрация swagger-спецификации.
	_ "github.com/magabrotheeeer/subscription-registry/docs"
	"github.com/magabrotheeeer/subscription-registry/internal/config"
	"github.com/magabrotheeeer/subscription-registry/internal/http/handlers/subscription/health"
	"github.com/magabrotheeeer/subscription-registry/internal/http/handlers/subscription/status"
	"github.com/magabrotheeeer/subscription-registry/internal/http/handlers/subscription/subscribe"
	"github.com/magabrotheeeer/subscription-registry/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscription-registry/internal/metrics"
	services "github.com/magabrotheeeer/subscription-registry/internal/services/subscription"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, cfg *config.Config, logger *slog.Logger, subscriptionService *services.SubscriptionService,
	pinger health.Pinger, m *metrics.Metrics) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middlewarectx.MetricsMiddleware(m),
	)
	if cfg.Debug {
		r.Use(middleware.Logger)
	}

	hide := cfg.HTTPServer.HideInternalErrors

	r.Group(func(r chi.Router) {
		r.Use(middlewarectx.RateLimitMiddleware(logger, cfg.HTTPServer.RateLimitRPS, cfg.HTTPServer.RateLimitBurst))
		r.Post("/subscribe", subscribe.New(logger, subscriptionService, hide).ServeHTTP)
		r.Get("/subscription-status/{email}", status.New(logger, subscriptionService, hide).ServeHTTP)
	})

	r.Get("/health", health.New(logger, pinger).ServeHTTP)
	r.Handle("/metrics", promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
