// Package metrics содержит prometheus-метрики сервиса.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Причины отказа в создании подписки.
const (
	ReasonDuplicate = "duplicate"
	ReasonInternal  = "internal"
)

// Metrics объединяет счётчики HTTP-запросов и бизнес-операций.
type Metrics struct {
	Registry            prometheus.Gatherer
	HTTPRequests        *prometheus.CounterVec
	HTTPDuration        *prometheus.HistogramVec
	SubscriptionCreated *prometheus.CounterVec
	SubscribeRejected   *prometheus.CounterVec
	StatusLookups       *prometheus.CounterVec
}

// New создаёт метрики и регистрирует их в reg.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		Registry: reg,
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Number of HTTP requests by route, method and status code.",
		}, []string{"route", "method", "code"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route and method.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		SubscriptionCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "subscriptions_created_total",
			Help: "Number of subscriptions created, by plan.",
		}, []string{"plan"}),
		SubscribeRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "subscribe_rejections_total",
			Help: "Number of rejected subscribe requests, by reason.",
		}, []string{"reason"}),
		StatusLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "subscription_status_lookups_total",
			Help: "Number of status lookups, by source (cache, storage, miss).",
		}, []string{"source"}),
	}
	reg.MustRegister(
		m.HTTPRequests,
		m.HTTPDuration,
		m.SubscriptionCreated,
		m.SubscribeRejected,
		m.StatusLookups,
	)
	return m
}

// NewNop возвращает метрики на отдельном реестре; удобно в тестах.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}
