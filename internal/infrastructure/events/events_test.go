package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type samplePayload struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

func TestNewEnvelope(t *testing.T) {
	env, err := NewEnvelope(EventOrderStatusChanged, "bookstore-api", "order-1", samplePayload{OrderID: "order-1", Status: "Shipped"})
	require.NoError(t, err)

	assert.NotEmpty(t, env.EventID)
	assert.Equal(t, 1, env.EventVersion)
	assert.Equal(t, "order-1", env.CorrelationID)

	payload, err := UnwrapPayload[samplePayload](env)
	require.NoError(t, err)
	assert.Equal(t, "Shipped", payload.Status)
}

func TestBuildMessage_KeyedByOrder(t *testing.T) {
	env, err := NewEnvelope(EventOrderCreated, "bookstore-api", "order-42", samplePayload{OrderID: "order-42"})
	require.NoError(t, err)

	msg, err := buildMessage("order.created", "order-42", env)
	require.NoError(t, err)

	assert.Equal(t, "order.created", msg.Topic)
	assert.Equal(t, []byte("order-42"), msg.Key)
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "x-event-type", msg.Headers[0].Key)
	assert.Equal(t, EventOrderCreated, string(msg.Headers[0].Value))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	for _, field := range []string{"event_id", "event_type", "event_version", "occurred_at", "producer", "correlation_id", "payload"} {
		assert.Contains(t, decoded, field)
	}
}

func TestNoopPublisher(t *testing.T) {
	var p Publisher = NoopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), "order.created", "k", EventOrderCreated, nil))
	assert.NoError(t, p.Close())
}
