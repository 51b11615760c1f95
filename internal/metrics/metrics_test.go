package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.SubscriptionCreated.WithLabelValues("pro").Inc()
	m.SubscribeRejected.WithLabelValues(ReasonDuplicate).Inc()
	m.StatusLookups.WithLabelValues("cache").Inc()
	m.HTTPRequests.WithLabelValues("/subscribe", "POST", "201").Inc()
	m.HTTPDuration.WithLabelValues("/subscribe", "POST").Observe(0.01)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.ElementsMatch(t, []string{
		"http_requests_total",
		"http_request_duration_seconds",
		"subscriptions_created_total",
		"subscribe_rejections_total",
		"subscription_status_lookups_total",
	}, names)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.SubscriptionCreated.WithLabelValues("pro")))
}

func TestNew_DoubleRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}
