package worker

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/Shatar6/Gereltjin-Cargo-App/internal/logger"
	"github.com/Shatar6/Gereltjin-Cargo-App/internal/provider"
	"github.com/Shatar6/Gereltjin-Cargo-App/internal/queue"
	"github.com/Shatar6/Gereltjin-Cargo-App/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer handles async tasks against the shared container.
type Consumer struct {
	*provider.Container
}

// NewConsumer creates a consumer.
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register registers task handlers on the mux.
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderStatusNotify, c.handleOrderStatusNotify)
}

func (c *Consumer) handleOrderStatusNotify(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_status_notify_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderStatusNotifyPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_status_notify_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_status_notify_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}
	order, err := c.OrderRepo.GetByID(payload.OrderID)
	if err != nil {
		logger.Warnw("worker_status_notify_fetch_order_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	if order == nil {
		// order deleted after the change was enqueued, nothing to report
		logger.Debugw("worker_status_notify_skip_order_not_found", "order_id", payload.OrderID)
		return nil
	}
	opsEmail := ""
	if c.Config != nil {
		opsEmail = strings.TrimSpace(c.Config.Notify.OpsEmail)
	}
	if opsEmail == "" {
		logger.Debugw("worker_status_notify_skip_no_ops_email", "order_id", order.ID)
		return nil
	}
	if c.EmailService == nil {
		logger.Warnw("worker_status_notify_skip_email_service_nil", "order_id", order.ID)
		return nil
	}
	err = c.EmailService.SendOrderStatusEmail(opsEmail, service.OrderStatusEmailInput{
		OrderNumber: order.OrderNumber,
		OldStatus:   payload.OldStatus,
		NewStatus:   payload.NewStatus,
		ActorName:   payload.ActorName,
	})
	if err != nil {
		if err == service.ErrEmailServiceDisabled || err == service.ErrEmailServiceNotConfigured {
			logger.Debugw("worker_status_notify_skip_email_disabled", "order_id", order.ID)
			return nil
		}
		logger.Warnw("worker_status_notify_send_failed",
			"order_id", order.ID,
			"order_number", order.OrderNumber,
			"error", err,
		)
		return err
	}
	logger.Infow("worker_status_notify_sent",
		"order_id", order.ID,
		"order_number", order.OrderNumber,
		"old_status", payload.OldStatus,
		"new_status", payload.NewStatus,
	)
	return nil
}
