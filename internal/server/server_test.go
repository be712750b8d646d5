package server

import (
	"context"
	"io"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/shop-microservices/internal/config"
	"github.com/deppfellow/shop-microservices/internal/lib/event"
	"github.com/deppfellow/shop-microservices/internal/model"
)

func TestCloseDependenciesReleasesClients(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.Nop()

	s := &Server{
		Logger: &logger,
		Redis:  redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"}),
		Events: event.NewPublisher(&config.KafkaConfig{Brokers: "127.0.0.1:0", Topic: "order-placed"}, "order-service", &logger),
	}

	require.NoError(t, s.closeDependencies(ctx))

	assert.ErrorIs(t, s.Redis.Ping(ctx).Err(), redis.ErrClosed)
	assert.ErrorIs(t, s.Events.PublishOrderPlaced(ctx, model.OrderPlacedEvent{OrderNumber: "5f0c"}), io.ErrClosedPipe)
}

func TestShutdownWithoutDependencies(t *testing.T) {
	logger := zerolog.Nop()
	s := &Server{Logger: &logger}

	assert.NoError(t, s.Shutdown(context.Background()))
}
