package job

import (
	"context"
	"errors"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/shop-microservices/internal/metrics"
	"github.com/deppfellow/shop-microservices/internal/model"
)

type recordingPublisher struct {
	events []model.OrderPlacedEvent
	err    error
}

func (r *recordingPublisher) PublishOrderPlaced(_ context.Context, evt model.OrderPlacedEvent) error {
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, evt)
	return nil
}

func newTestJobService(pub OrderEventPublisher) *JobService {
	logger := zerolog.Nop()
	return &JobService{
		logger:    &logger,
		publisher: pub,
		metrics:   metrics.New("order-service"),
	}
}

func TestNewOrderPlacedTask(t *testing.T) {
	orderNumber := gofakeit.UUID()

	task, err := NewOrderPlacedTask(orderNumber)
	require.NoError(t, err)

	assert.Equal(t, TaskOrderPlaced, task.Type())
	assert.JSONEq(t, `{"order_number":"`+orderNumber+`"}`, string(task.Payload()))
}

func TestHandleOrderPlacedTaskPublishes(t *testing.T) {
	pub := &recordingPublisher{}
	j := newTestJobService(pub)

	orderNumber := gofakeit.UUID()
	task, err := NewOrderPlacedTask(orderNumber)
	require.NoError(t, err)

	require.NoError(t, j.handleOrderPlacedTask(context.Background(), task))
	require.Len(t, pub.events, 1)
	assert.Equal(t, orderNumber, pub.events[0].OrderNumber)
}

func TestHandleOrderPlacedTaskWithoutPublisher(t *testing.T) {
	j := newTestJobService(nil)

	task, err := NewOrderPlacedTask(gofakeit.UUID())
	require.NoError(t, err)

	assert.NoError(t, j.handleOrderPlacedTask(context.Background(), task))
}

func TestHandleOrderPlacedTaskPublishError(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("kafka unavailable")}
	j := newTestJobService(pub)

	task, err := NewOrderPlacedTask(gofakeit.UUID())
	require.NoError(t, err)

	err = j.handleOrderPlacedTask(context.Background(), task)
	require.Error(t, err)
	assert.False(t, errors.Is(err, asynq.SkipRetry))
}

func TestHandleOrderPlacedTaskBadPayload(t *testing.T) {
	j := newTestJobService(&recordingPublisher{})

	err := j.handleOrderPlacedTask(context.Background(), asynq.NewTask(TaskOrderPlaced, []byte("{")))
	require.Error(t, err)
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}
