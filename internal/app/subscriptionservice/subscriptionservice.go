package subscriptionservice

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/magabrotheeeer/subscription-registry/internal/cache"
	"github.com/magabrotheeeer/subscription-registry/internal/config"
	"github.com/magabrotheeeer/subscription-registry/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/subscription-registry/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-registry/internal/metrics"
	"github.com/magabrotheeeer/subscription-registry/internal/migrations"
	services "github.com/magabrotheeeer/subscription-registry/internal/services/subscription"
	"github.com/magabrotheeeer/subscription-registry/internal/storage"
)

const shutdownTimeout = 15 * time.Second

// App владеет HTTP-сервером и всеми внешними ресурсами процесса.
type App struct {
	server  *http.Server
	logger  *slog.Logger
	db      *storage.Storage
	closers []io.Closer
}

// New инициализирует хранилище, применяет миграции, подключает кеш и брокер
// и собирает роутер. Схема создаётся здесь один раз, а не на каждый запрос.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.subscriptionservice.New"

	db, err := storage.New(ctx, cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	app := &App{logger: logger, db: db}

	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		app.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.CheckDatabaseReady(ctx); err != nil {
		app.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	logger.Info("database schema is ready")

	var subCache services.Cache = cache.Nop{}
	if cfg.CacheEnabled() {
		redisCache, err := cache.InitServer(ctx, cfg.Redis)
		if err != nil {
			app.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		app.closers = append(app.closers, redisCache)
		subCache = redisCache
		logger.Info("redis cache enabled", slog.String("address", cfg.Redis.Address))
	}

	var publisher services.EventPublisher = rabbitmq.NopPublisher{}
	if cfg.EventsEnabled() {
		conn, err := rabbitmq.Connect(cfg.RabbitMQ.URL, cfg.RabbitMQ.Retries, cfg.RabbitMQ.RetryDelay)
		if err != nil {
			app.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		queues := []rabbitmq.QueueConfig{{
			QueueName:  cfg.RabbitMQ.Exchange + "." + cfg.RabbitMQ.RoutingKey,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
		}}
		p, err := rabbitmq.NewPublisher(conn, cfg.RabbitMQ.Exchange, cfg.RabbitMQ.RoutingKey, queues)
		if err != nil {
			_ = conn.Close()
			app.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		app.closers = append(app.closers, p)
		publisher = p
		logger.Info("subscription events enabled", slog.String("exchange", cfg.RabbitMQ.Exchange))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(db.DB, "subscriptions"),
	)
	m := metrics.New(reg)

	subscriptionService := services.NewSubscriptionService(db, subCache, publisher, m, cfg.Redis.TTL, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, cfg, logger, subscriptionService, db, m)

	app.server = &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}
	return app, nil
}

// Run запускает HTTP-сервер и блокируется до отмены ctx или ошибки сервера.
func (a *App) Run(ctx context.Context) error {
	defer a.close()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		return a.server.Shutdown(timeoutCtx)
	}
}

func (a *App) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.logger.Warn("failed to close resource", sl.Err(err))
		}
	}
	if err := a.db.Close(); err != nil {
		a.logger.Warn("failed to close storage", sl.Err(err))
	}
}
