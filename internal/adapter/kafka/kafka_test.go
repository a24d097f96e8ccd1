package kafka

import (
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"

	"github.com/kebabish-pizza/geocoding-service/internal/order"
)

func TestMapMessageToRawEvent(t *testing.T) {
	now := time.Now()
	msg := kafkago.Message{
		Key:       []byte("ord-1"),
		Value:     []byte(`{"order_id":"ord-1"}`),
		Topic:     "placed-orders",
		Partition: 2,
		Offset:    42,
		Time:      now,
		Headers: []kafkago.Header{
			{Key: "source", Value: []byte("checkout")},
		},
	}

	raw := mapMessageToRawEvent(msg)

	assert.Equal(t, []byte("ord-1"), raw.Key)
	assert.JSONEq(t, `{"order_id":"ord-1"}`, string(raw.Value))
	assert.Equal(t, "placed-orders", raw.Topic)
	assert.Equal(t, 2, raw.Partition)
	assert.Equal(t, int64(42), raw.Offset)
	assert.Equal(t, now, raw.Timestamp)
	assert.Equal(t, "checkout", raw.Headers["source"])
	assert.Nil(t, raw.Commit, "commit closure is attached by the reader, not the mapper")
}

func TestMapOutputToMessage(t *testing.T) {
	event := order.OutputEvent{
		Key:   []byte("ord-1"),
		Value: []byte(`{"order_id":"ord-1","geo_status":"resolved"}`),
		Headers: map[string]string{
			"processed_at": "2026-08-25T12:00:00Z",
			"geo_status":   "resolved",
		},
	}

	msg := mapOutputToMessage(event)

	assert.Equal(t, []byte("ord-1"), msg.Key)
	assert.Equal(t, event.Value, msg.Value)

	// Headers come out in sorted key order.
	assert.Len(t, msg.Headers, 2)
	assert.Equal(t, "geo_status", msg.Headers[0].Key)
	assert.Equal(t, []byte("resolved"), msg.Headers[0].Value)
	assert.Equal(t, "processed_at", msg.Headers[1].Key)
	assert.Equal(t, []byte("2026-08-25T12:00:00Z"), msg.Headers[1].Value)
}

func TestMapOutputToMessage_NoHeaders(t *testing.T) {
	msg := mapOutputToMessage(order.OutputEvent{Key: []byte("ord-2"), Value: []byte(`{}`)})

	assert.Empty(t, msg.Headers)
}
