package queue

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jpashop-api/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderStatusNotify 订单状态变更通知任务
	TaskOrderStatusNotify = constants.TaskOrderStatusNotify
)

// OrderStatusPayload 订单状态变更任务载荷
type OrderStatusPayload struct {
	OrderID    uint      `json:"order_id"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewOrderStatusTask 创建订单状态变更任务
func NewOrderStatusTask(payload OrderStatusPayload) (*asynq.Task, error) {
	if payload.OrderID == 0 {
		return nil, fmt.Errorf("order status task: order id is required")
	}
	payload.Status = strings.TrimSpace(payload.Status)
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderStatusNotify, body), nil
}

// ParseOrderStatusPayload 解析订单状态变更任务载荷
func ParseOrderStatusPayload(task *asynq.Task) (OrderStatusPayload, error) {
	var payload OrderStatusPayload
	if task == nil {
		return payload, fmt.Errorf("order status task is nil")
	}
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return payload, fmt.Errorf("decode order status payload: %w", err)
	}
	return payload, nil
}
