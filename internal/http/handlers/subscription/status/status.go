// Package status реализует HTTP-обработчик получения статуса подписки по email.
package status

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-registry/internal/http/response"
	"github.com/magabrotheeeer/subscription-registry/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-registry/internal/models"
	services "github.com/magabrotheeeer/subscription-registry/internal/services/subscription"
)

const (
	msgNotFound = "Subscription not found"
	msgInternal = "internal server error"
)

// Handler обрабатывает запросы на получение статуса подписки.
type Handler struct {
	log                *slog.Logger
	service            Service
	hideInternalErrors bool
}

// Service описывает интерфейс бизнес-логики чтения статуса.
type Service interface {
	Status(ctx context.Context, email string) (*models.SubscriptionStatus, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service, hideInternalErrors bool) *Handler {
	return &Handler{
		log:                log,
		service:            service,
		hideInternalErrors: hideInternalErrors,
	}
}

// ServeHTTP godoc
// @Summary Статус подписки
// @Description Возвращает сохранённое состояние подписки по email. Формат email не проверяется.
// @Tags Subscriptions
// @Produce  json
// @Param email path string true "Email подписчика"
// @Success 200 {object} models.SubscriptionStatus "Подписка найдена"
// @Failure 404 {object} response.ErrorResponse "Подписка не найдена"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка"
// @Router /subscription-status/{email} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.status"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	// chi сопоставляет маршрут по RawPath, если он задан, и тогда параметр
	// остаётся экранированным. Иначе r.URL.Path уже раскодирован.
	email := chi.URLParam(r, "email")
	if r.URL.RawPath != "" {
		if unescaped, err := url.PathUnescape(email); err == nil {
			email = unescaped
		}
	}

	res, err := h.service.Status(r.Context(), email)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			log.Debug("subscription not found", slog.String("email", email))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error(msgNotFound))
			return
		}
		log.Error("failed to read subscription status", sl.Err(err))
		msg := err.Error()
		if h.hideInternalErrors {
			msg = msgInternal
		}
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error(msg))
		return
	}

	log.Debug("success to read subscription status", slog.String("email", email))
	render.JSON(w, r, res)
}
