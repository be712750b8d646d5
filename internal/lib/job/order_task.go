package job

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

// TaskOrderPlaced is the asynq task type emitted after an order is stored.
const TaskOrderPlaced = "order:placed"

// OrderPlacedPayload is the JSON body of an order:placed task.
type OrderPlacedPayload struct {
	OrderNumber string `json:"order_number"`
}

// NewOrderPlacedTask builds the order:placed task. It is retried up to
// three times on the default queue.
func NewOrderPlacedTask(orderNumber string) (*asynq.Task, error) {
	payload, err := json.Marshal(OrderPlacedPayload{OrderNumber: orderNumber})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskOrderPlaced,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue("default"),
		asynq.Timeout(30*time.Second),
	), nil
}
