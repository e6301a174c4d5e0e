package queue

import (
	"encoding/json"

	"github.com/Shatar6/Gereltjin-Cargo-App/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderStatusNotify notifies operations of an order status change.
	TaskOrderStatusNotify = constants.TaskOrderStatusNotify
)

// OrderStatusNotifyPayload is the status-change notification task payload.
type OrderStatusNotifyPayload struct {
	OrderID   uint   `json:"order_id"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
	ActorName string `json:"actor_name"`
}

// NewOrderStatusNotifyTask creates a status-change notification task.
func NewOrderStatusNotifyTask(payload OrderStatusNotifyPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderStatusNotify, body), nil
}
