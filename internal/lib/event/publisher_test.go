package event

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/shop-microservices/internal/model"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func header(msg kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestPublishOrderPlaced(t *testing.T) {
	logger := zerolog.Nop()
	w := &fakeWriter{}
	p := newPublisher(w, "order-service", &logger)

	err := p.PublishOrderPlaced(context.Background(), model.OrderPlacedEvent{OrderNumber: "abc-123"})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "abc-123", string(msg.Key))
	assert.Equal(t, "application/json", header(msg, "content-type"))
	assert.Equal(t, "order-service", header(msg, "source"))

	var evt model.OrderPlacedEvent
	require.NoError(t, json.Unmarshal(msg.Value, &evt))
	assert.Equal(t, "abc-123", evt.OrderNumber)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestPublishOrderPlacedWriteError(t *testing.T) {
	logger := zerolog.Nop()
	w := &fakeWriter{err: errors.New("broker down")}
	p := newPublisher(w, "order-service", &logger)

	err := p.PublishOrderPlaced(context.Background(), model.OrderPlacedEvent{OrderNumber: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
}
