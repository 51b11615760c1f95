// Package subscribe реализует HTTP-обработчик регистрации новой подписки.
//
// Handler принимает JSON-запрос, валидирует его, вызывает сервис и отвечает
// 201 при успехе, 400 при уже зарегистрированном email, 422 при ошибках
// валидации и 500 при прочих ошибках.
package subscribe

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/subscription-registry/internal/http/response"
	"github.com/magabrotheeeer/subscription-registry/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-registry/internal/models"
	services "github.com/magabrotheeeer/subscription-registry/internal/services/subscription"
)

const (
	msgCreated           = "Subscription created successfully!"
	msgAlreadySubscribed = "Email already subscribed"
	msgInternal          = "internal server error"
)

// Handler управляет HTTP-запросами на создание подписок.
type Handler struct {
	log                *slog.Logger        // Логгер для записи информации и ошибок
	service            Service             // Сервис бизнес-логики
	validate           *validator.Validate // Валидатор структуры входящих данных
	hideInternalErrors bool                // Не отдавать клиенту текст внутренних ошибок
}

// Service описывает интерфейс бизнес-логики создания подписки.
type Service interface {
	Subscribe(ctx context.Context, req models.SubscribeRequest) (int, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service, hideInternalErrors bool) *Handler {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return &Handler{
		log:                log,
		service:            service,
		validate:           validate,
		hideInternalErrors: hideInternalErrors,
	}
}

// ServeHTTP godoc
// @Summary Оформить подписку
// @Description Регистрирует нового подписчика. Email должен быть уникальным.
// @Tags Subscriptions
// @Accept  json
// @Produce  json
// @Param request body models.SubscribeRequest true "Данные подписчика"
// @Success 201 {object} response.MessageResponse "Подписка создана"
// @Failure 400 {object} response.ErrorResponse "Email уже зарегистрирован"
// @Failure 422 {object} response.ValidationErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка"
// @Router /subscribe [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.subscribe"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.SubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.DecodeError(err))
		return
	}
	log.Debug("request body decoded", slog.Any("request", req))

	if err := h.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if !errors.As(err, &validationErrs) {
			log.Error("validator failed", sl.Err(err))
			h.internalError(w, r, err)
			return
		}
		log.Info("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(validationErrs))
		return
	}

	id, err := h.service.Subscribe(r.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrAlreadySubscribed) {
			log.Info("email already subscribed")
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(msgAlreadySubscribed))
			return
		}
		log.Error("failed to create subscription", sl.Err(err))
		h.internalError(w, r, err)
		return
	}

	log.Info("success to create subscription", slog.Int("id", id))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.Message(msgCreated))
}

func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, err error) {
	msg := err.Error()
	if h.hideInternalErrors {
		msg = msgInternal
	}
	render.Status(r, http.StatusInternalServerError)
	render.JSON(w, r, response.Error(msg))
}
