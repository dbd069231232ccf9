package queue

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/jpashop-api/internal/config"
	"github.com/jpashop-api/internal/constants"
	"github.com/jpashop-api/internal/logger"

	"github.com/hibiken/asynq"
)

const (
	// DefaultQueue 默认队列名称
	DefaultQueue = constants.QueueDefault

	defaultConcurrency     = 10
	defaultMaxRetry        = 5
	defaultShutdownTimeout = 8 * time.Second
	maxRetryDelay          = 5 * time.Minute
)

// Client 订单事件投递客户端，未启用时所有投递都是空操作
type Client struct {
	client       *asynq.Client
	enabled      bool
	defaultQueue string
}

// NewClient 创建队列客户端，未启用时返回空实现
func NewClient(cfg *config.QueueConfig) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		return &Client{enabled: false, defaultQueue: DefaultQueue}, nil
	}
	return &Client{
		client:       asynq.NewClient(buildRedisOpt(cfg)),
		enabled:      true,
		defaultQueue: DefaultQueue,
	}, nil
}

// Enabled 判断是否启用
func (c *Client) Enabled() bool {
	return c != nil && c.enabled && c.client != nil
}

// Close 关闭客户端
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EnqueueOrderStatus 推送订单状态变更任务，同一订单同一状态只投递一次
func (c *Client) EnqueueOrderStatus(payload OrderStatusPayload, opts ...asynq.Option) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewOrderStatusTask(payload)
	if err != nil {
		return err
	}
	options := append([]asynq.Option{
		asynq.Queue(c.defaultQueue),
		asynq.MaxRetry(defaultMaxRetry),
		asynq.TaskID(orderStatusTaskID(payload)),
	}, opts...)
	_, err = c.client.Enqueue(task, options...)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	return err
}

func orderStatusTaskID(payload OrderStatusPayload) string {
	return fmt.Sprintf("%s:%d:%s", TaskOrderStatusNotify, payload.OrderID, strings.ToUpper(strings.TrimSpace(payload.Status)))
}

// BuildServerConfig 生成队列服务配置
func BuildServerConfig(cfg *config.QueueConfig) (asynq.RedisClientOpt, asynq.Config) {
	opt := buildRedisOpt(cfg)
	concurrency := defaultConcurrency
	if cfg != nil && cfg.Concurrency > 0 {
		concurrency = cfg.Concurrency
	}
	queues := map[string]int{DefaultQueue: 1}
	if cfg != nil && len(cfg.Queues) > 0 {
		queues = cfg.Queues
	}
	return opt, asynq.Config{
		Concurrency:     concurrency,
		Queues:          queues,
		ShutdownTimeout: defaultShutdownTimeout,
		Logger:          logger.S().Named("asynq"),
		RetryDelayFunc:  retryDelay,
		ErrorHandler:    asynq.ErrorHandlerFunc(logTaskFailure),
	}
}

// retryDelay 指数退避，上限 maxRetryDelay
func retryDelay(n int, _ error, _ *asynq.Task) time.Duration {
	if n < 0 {
		n = 0
	}
	if n > 8 {
		return maxRetryDelay
	}
	delay := time.Duration(1<<uint(n)) * time.Second
	if delay > maxRetryDelay {
		return maxRetryDelay
	}
	return delay
}

func logTaskFailure(ctx context.Context, task *asynq.Task, err error) {
	retried, _ := asynq.GetRetryCount(ctx)
	maxRetry, _ := asynq.GetMaxRetry(ctx)
	taskType := ""
	if task != nil {
		taskType = task.Type()
	}
	logger.Warnw("queue_task_failed",
		"task_type", taskType,
		"retried", retried,
		"max_retry", maxRetry,
		"error", err,
	)
}

func buildRedisOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	host := "127.0.0.1"
	port := 6379
	password := ""
	db := 0
	if cfg != nil {
		if strings.TrimSpace(cfg.Host) != "" {
			host = strings.TrimSpace(cfg.Host)
		}
		if cfg.Port > 0 {
			port = cfg.Port
		}
		password = cfg.Password
		db = cfg.DB
	}
	return asynq.RedisClientOpt{
		Addr:     net.JoinHostPort(host, strconv.Itoa(port)),
		Password: password,
		DB:       db,
	}
}
