package worker

import (
	"context"
	"errors"

	"github.com/jpashop-api/internal/logger"
	"github.com/jpashop-api/internal/queue"
	"github.com/jpashop-api/internal/service"

	"github.com/hibiken/asynq"
)

// OrderSummaryFinder 按订单 ID 读取订单摘要
type OrderSummaryFinder interface {
	FindOrderSummary(ctx context.Context, orderID uint) (*service.SimpleOrderDto, error)
}

// Consumer 异步任务消费者
type Consumer struct {
	Orders OrderSummaryFinder
}

// NewConsumer 创建消费者
func NewConsumer(orders OrderSummaryFinder) *Consumer {
	return &Consumer{Orders: orders}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderStatusNotify, c.handleOrderStatusNotify)
}

func (c *Consumer) handleOrderStatusNotify(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_status_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseOrderStatusPayload(task)
	if err != nil {
		logger.Warnw("worker_order_status_unmarshal_failed", "error", err)
		// 载荷无法解析时重试没有意义
		return errors.Join(err, asynq.SkipRetry)
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_status_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}
	if c.Orders == nil {
		logger.Warnw("worker_order_status_skip_finder_nil", "order_id", payload.OrderID)
		return nil
	}
	summary, err := c.Orders.FindOrderSummary(ctx, payload.OrderID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			logger.Debugw("worker_order_status_skip_order_not_found", "order_id", payload.OrderID)
			return nil
		case errors.Is(err, service.ErrOrderGraphIncomplete):
			logger.Warnw("worker_order_status_graph_incomplete", "order_id", payload.OrderID, "error", err)
			return errors.Join(err, asynq.SkipRetry)
		default:
			logger.Warnw("worker_order_status_fetch_order_failed", "order_id", payload.OrderID, "error", err)
			return err
		}
	}
	status := payload.Status
	if status == "" {
		status = summary.OrderStatus
	}
	logger.Infow("order_status_notified",
		"order_id", summary.OrderID,
		"member", summary.Name,
		"status", status,
		"current_status", summary.OrderStatus,
		"city", summary.Address.City,
		"occurred_at", payload.OccurredAt,
	)
	return nil
}
