package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/deppfellow/shop-microservices/internal/model"
)

// handleOrderPlacedTask publishes the order placed event, or logs it when
// no publisher is configured. A returned error makes asynq retry the task.
func (j *JobService) handleOrderPlacedTask(ctx context.Context, t *asynq.Task) error {
	var p OrderPlacedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal order placed payload: %w: %w", err, asynq.SkipRetry)
	}

	j.logger.Info().
		Str("type", TaskOrderPlaced).
		Str("order_number", p.OrderNumber).
		Msg("Processing order placed task")

	if j.publisher == nil {
		j.metrics.OrderEvent("logged")
		j.logger.Info().
			Str("type", TaskOrderPlaced).
			Str("order_number", p.OrderNumber).
			Msg("No event publisher configured, order placed event logged only")
		return nil
	}

	if err := j.publisher.PublishOrderPlaced(ctx, model.OrderPlacedEvent{OrderNumber: p.OrderNumber}); err != nil {
		j.metrics.OrderEvent("failed")
		j.logger.Error().
			Str("type", TaskOrderPlaced).
			Str("order_number", p.OrderNumber).
			Err(err).
			Msg("Failed to publish order placed event")
		return err
	}

	j.metrics.OrderEvent("published")
	return nil
}
