// Package models содержит доменные структуры подписки и схемы входящих запросов.
package models

import "time"

// Subscription представляет запись таблицы subscriptions.
type Subscription struct {
	ID               int       // Суррогатный идентификатор, назначается базой
	Name             string    // Отображаемое имя подписчика
	Email            string    // Уникальный email подписчика
	SubscriptionPlan string    // Идентификатор тарифа, не сверяется с каталогом
	IsActive         bool      // Признак активности, при создании всегда true
	CreatedAt        time.Time // Время создания записи
}

// SubscribeRequest используется для приёма данных из JSON-запроса на подписку.
// Ограничения длины совпадают с размерами колонок в таблице.
// Name и SubscriptionPlan обязаны присутствовать, но могут быть пустой строкой,
// поэтому отсутствие ключа или null отличаются от "" через указатель.
type SubscribeRequest struct {
	Name             *string `json:"name" validate:"required,max=100"`
	Email            string  `json:"email" validate:"required,email,max=120"`
	SubscriptionPlan *string `json:"subscription_plan" validate:"required,max=50"`
}

// NewSubscribeRequest собирает запрос на подписку из готовых значений.
func NewSubscribeRequest(name, email, plan string) SubscribeRequest {
	return SubscribeRequest{Name: &name, Email: email, SubscriptionPlan: &plan}
}

// Subscription возвращает новую активную подписку из запроса.
func (r SubscribeRequest) Subscription() Subscription {
	sub := Subscription{Email: r.Email, IsActive: true}
	if r.Name != nil {
		sub.Name = *r.Name
	}
	if r.SubscriptionPlan != nil {
		sub.SubscriptionPlan = *r.SubscriptionPlan
	}
	return sub
}

// SubscriptionStatus описывает представление подписки, которое отдаётся клиенту.
type SubscriptionStatus struct {
	Name             string `json:"name" example:"Ann"`
	Email            string `json:"email" example:"ann@example.com"`
	SubscriptionPlan string `json:"subscription_plan" example:"pro"`
	IsActive         bool   `json:"is_active" example:"true"`
}

// Status возвращает клиентское представление подписки.
func (s Subscription) Status() SubscriptionStatus {
	return SubscriptionStatus{
		Name:             s.Name,
		Email:            s.Email,
		SubscriptionPlan: s.SubscriptionPlan,
		IsActive:         s.IsActive,
	}
}

// SubscriptionCreatedEvent публикуется в брокер после успешного создания подписки.
type SubscriptionCreatedEvent struct {
	EventID          string    `json:"event_id"`
	SubscriptionID   int       `json:"subscription_id"`
	Email            string    `json:"email"`
	SubscriptionPlan string    `json:"subscription_plan"`
	CreatedAt        time.Time `json:"created_at"`
}
