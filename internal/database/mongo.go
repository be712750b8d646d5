package database

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/deppfellow/shop-microservices/internal/config"
)

// Mongo wraps the MongoDB client and the service's database handle.
type Mongo struct {
	Client *mongo.Client
	DB     *mongo.Database
	log    *zerolog.Logger
}

// commandMonitor logs failed and slow commands. In local env every
// command start is logged at debug as well.
func commandMonitor(logger *zerolog.Logger, threshold time.Duration, verbose bool) *event.CommandMonitor {
	return &event.CommandMonitor{
		Started: func(_ context.Context, evt *event.CommandStartedEvent) {
			if !verbose {
				return
			}
			logger.Debug().
				Str("component", "mongo").
				Str("command", evt.CommandName).
				Str("database", evt.DatabaseName).
				Int64("request_id", evt.RequestID).
				Msg("command started")
		},
		Succeeded: func(_ context.Context, evt *event.CommandSucceededEvent) {
			if threshold <= 0 || evt.Duration < threshold {
				return
			}
			logger.Warn().
				Str("component", "mongo").
				Str("command", evt.CommandName).
				Dur("duration", evt.Duration).
				Dur("threshold", threshold).
				Msg("slow query")
		},
		Failed: func(_ context.Context, evt *event.CommandFailedEvent) {
			logger.Error().
				Str("component", "mongo").
				Str("command", evt.CommandName).
				Dur("duration", evt.Duration).
				Str("failure", evt.Failure).
				Msg("command failed")
		},
	}
}

// NewMongo connects to MongoDB and pings the primary so startup fails
// fast when the deployment is unreachable.
func NewMongo(cfg *config.Config, logger *zerolog.Logger) (*Mongo, error) {
	if cfg.Mongo == nil {
		return nil, fmt.Errorf("mongo config is missing")
	}

	opts := options.Client().
		ApplyURI(cfg.Mongo.URI).
		SetMaxPoolSize(cfg.Mongo.MaxPoolSize).
		SetConnectTimeout(cfg.Mongo.ConnectTimeout).
		SetMonitor(commandMonitor(logger, cfg.Observability.Logging.SlowQueryThreshold, cfg.Primary.Env == "local"))

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Mongo.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	logger.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongo")

	return &Mongo{
		Client: client,
		DB:     client.Database(cfg.Mongo.Database),
		log:    logger,
	}, nil
}

// Ping checks connectivity to the primary.
func (m *Mongo) Ping(ctx context.Context) error {
	return m.Client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client, waiting for in-use connections up to ctx.
func (m *Mongo) Close(ctx context.Context) error {
	m.log.Info().Msg("closing mongo connection")
	return m.Client.Disconnect(ctx)
}
