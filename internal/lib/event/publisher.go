// Package event publishes domain events to Kafka.
package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/deppfellow/shop-microservices/internal/config"
	"github.com/deppfellow/shop-microservices/internal/model"
)

// messageWriter is satisfied by *kafka.Writer.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes JSON events keyed by order number, so all events of one
// order land on the same partition.
type Publisher struct {
	writer messageWriter
	source string
	logger *zerolog.Logger
}

// NewPublisher builds a Publisher for cfg.Topic on cfg's brokers.
// No connection is made until the first write.
func NewPublisher(cfg *config.KafkaConfig, source string, logger *zerolog.Logger) *Publisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.BrokerList()...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
	}
	return newPublisher(w, source, logger)
}

func newPublisher(w messageWriter, source string, logger *zerolog.Logger) *Publisher {
	return &Publisher{writer: w, source: source, logger: logger}
}

// PublishOrderPlaced emits an OrderPlacedEvent.
func (p *Publisher) PublishOrderPlaced(ctx context.Context, evt model.OrderPlacedEvent) error {
	val, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal order placed event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(evt.OrderNumber),
		Value: val,
		Time:  time.Now(),
		Headers: []kafka.Header{
			{Key: "content-type", Value: []byte("application/json")},
			{Key: "source", Value: []byte(p.source)},
		},
	})
	if err != nil {
		return fmt.Errorf("produce order placed event: %w", err)
	}

	p.logger.Info().
		Str("order_number", evt.OrderNumber).
		Str("source", p.source).
		Msg("published order placed event")
	return nil
}

// Close flushes pending messages and closes the writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
