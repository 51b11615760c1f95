// Package services содержит бизнес-логику регистрации подписок и проверки их статуса.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/subscription-registry/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-registry/internal/metrics"
	"github.com/magabrotheeeer/subscription-registry/internal/models"
	"github.com/magabrotheeeer/subscription-registry/internal/storage"
)

var (
	// ErrAlreadySubscribed возвращается, если email уже зарегистрирован.
	ErrAlreadySubscribed = errors.New("email already subscribed")
	// ErrNotFound возвращается, если подписка не найдена.
	ErrNotFound = errors.New("subscription not found")
)

// SubscriptionRepository определяет методы для работы с подписками в хранилище.
type SubscriptionRepository interface {
	// Create добавляет новую подписку и возвращает её ID.
	// При нарушении уникальности email возвращает storage.ErrEmailExists.
	Create(ctx context.Context, sub models.Subscription) (int, error)
	// GetByEmail возвращает подписку по email или storage.ErrNotFound.
	GetByEmail(ctx context.Context, email string) (*models.Subscription, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

// EventPublisher публикует доменные события.
type EventPublisher interface {
	Publish(ctx context.Context, event any) error
}

// SubscriptionService реализует регистрацию подписок и чтение их статуса.
type SubscriptionService struct {
	repo      SubscriptionRepository
	cache     Cache
	publisher EventPublisher
	metrics   *metrics.Metrics
	cacheTTL  time.Duration
	log       *slog.Logger
}

// NewSubscriptionService создает новый экземпляр SubscriptionService.
func NewSubscriptionService(repo SubscriptionRepository, cache Cache, publisher EventPublisher,
	m *metrics.Metrics, cacheTTL time.Duration, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		metrics:   m,
		cacheTTL:  cacheTTL,
		log:       log,
	}
}

func cacheKey(email string) string {
	return "subscription:" + email
}

// Subscribe регистрирует новую подписку. Запрос должен быть уже провалидирован.
// Предварительная проверка email лишь ускоряет отказ: источником истины
// остаётся ограничение уникальности в базе.
func (s *SubscriptionService) Subscribe(ctx context.Context, req models.SubscribeRequest) (int, error) {
	const op = "services.subscription.Subscribe"
	log := s.log.With(slog.String("op", op))

	_, err := s.repo.GetByEmail(ctx, req.Email)
	switch {
	case err == nil:
		s.metrics.SubscribeRejected.WithLabelValues(metrics.ReasonDuplicate).Inc()
		return 0, ErrAlreadySubscribed
	case !errors.Is(err, storage.ErrNotFound):
		s.metrics.SubscribeRejected.WithLabelValues(metrics.ReasonInternal).Inc()
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	sub := req.Subscription()
	id, err := s.repo.Create(ctx, sub)
	if err != nil {
		if errors.Is(err, storage.ErrEmailExists) {
			log.Info("duplicate email rejected by unique constraint")
			s.metrics.SubscribeRejected.WithLabelValues(metrics.ReasonDuplicate).Inc()
			return 0, ErrAlreadySubscribed
		}
		s.metrics.SubscribeRejected.WithLabelValues(metrics.ReasonInternal).Inc()
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	sub.ID = id

	log.Info("created new subscription", slog.Int("id", id))
	s.metrics.SubscriptionCreated.WithLabelValues(sub.SubscriptionPlan).Inc()

	if err := s.cache.Set(ctx, cacheKey(sub.Email), sub.Status(), s.cacheTTL); err != nil {
		log.Warn("failed to cache subscription", sl.Err(err))
	}

	event := models.SubscriptionCreatedEvent{
		EventID:          uuid.NewString(),
		SubscriptionID:   id,
		Email:            sub.Email,
		SubscriptionPlan: sub.SubscriptionPlan,
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.Warn("failed to publish subscription event", sl.Err(err))
	}

	return id, nil
}

// Status возвращает состояние подписки по email, используя кеш или репозиторий.
// Отсутствующие подписки в кеш не попадают.
func (s *SubscriptionService) Status(ctx context.Context, email string) (*models.SubscriptionStatus, error) {
	const op = "services.subscription.Status"
	log := s.log.With(slog.String("op", op))

	var cached models.SubscriptionStatus
	found, err := s.cache.Get(ctx, cacheKey(email), &cached)
	if err != nil {
		log.Warn("failed to read from cache", sl.Err(err))
	}
	if found {
		s.metrics.StatusLookups.WithLabelValues("cache").Inc()
		return &cached, nil
	}

	sub, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.metrics.StatusLookups.WithLabelValues("miss").Inc()
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.metrics.StatusLookups.WithLabelValues("storage").Inc()

	status := sub.Status()
	if err := s.cache.Set(ctx, cacheKey(email), status, s.cacheTTL); err != nil {
		log.Warn("failed to add to cache", sl.Err(err))
	}
	return &status, nil
}
