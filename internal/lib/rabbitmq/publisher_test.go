package rabbitmq

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/subscription-registry/internal/models"
)

func TestPublisher_Publish(t *testing.T) {
	ctx := context.Background()
	amqpURI, cleanup := amqpURIForTest(ctx, t)
	defer cleanup()

	conn, err := Connect(amqpURI, 3, time.Second)
	require.NoError(t, err)

	queues := []QueueConfig{{QueueName: "publisher-test.created", RoutingKey: "created"}}
	publisher, err := NewPublisher(conn, "publisher-test", "created", queues)
	require.NoError(t, err)
	defer func() {
		if err := publisher.Close(); err != nil {
			t.Errorf("failed to close publisher: %v", err)
		}
	}()

	event := models.SubscriptionCreatedEvent{
		EventID:          "6f1c1f0e-5b7a-4a8c-9d43-3b0b4c3f2a11",
		SubscriptionID:   1,
		Email:            "ann@example.com",
		SubscriptionPlan: "pro",
		CreatedAt:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, publisher.Publish(ctx, event))

	ch, err := conn.Channel()
	require.NoError(t, err)
	defer func() { _ = ch.Close() }()

	deliveries, err := ch.Consume("publisher-test.created", "test-consumer", true, false, false, false, nil)
	require.NoError(t, err)

	select {
	case d := <-deliveries:
		assert.Equal(t, "application/json", d.ContentType)
		var got models.SubscriptionCreatedEvent
		require.NoError(t, json.Unmarshal(d.Body, &got))
		assert.Equal(t, event, got)
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for message")
	}
}

func TestPublisher_PublishCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := &Publisher{}
	err := p.Publish(ctx, "event")
	require.ErrorIs(t, err, context.Canceled)
}

func TestNopPublisher(t *testing.T) {
	assert.NoError(t, NopPublisher{}.Publish(context.Background(), "event"))
}
