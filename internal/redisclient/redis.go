package redisclient

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jpashop-api/internal/config"

	"github.com/redis/go-redis/v9"
)

const defaultPrefix = "jpashop"

// Client Redis 客户端封装，未启用时所有操作为空实现
type Client struct {
	rdb     *redis.Client
	prefix  string
	enabled bool
}

// New 创建 Redis 客户端
func New(cfg *config.RedisConfig) *Client {
	if cfg == nil || !cfg.Enabled {
		return &Client{prefix: defaultPrefix}
	}
	addr := strings.TrimSpace(cfg.Host)
	if addr == "" {
		addr = "127.0.0.1"
	}
	port := cfg.Port
	if port <= 0 {
		port = 6379
	}
	prefix := strings.TrimSpace(cfg.Prefix)
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &Client{
		rdb: redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", addr, port),
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
		prefix:  prefix,
		enabled: true,
	}
}

// Enabled 判断是否启用
func (c *Client) Enabled() bool {
	return c != nil && c.enabled && c.rdb != nil
}

// Ping 检查连通性
func (c *Client) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return c.rdb.Ping(ctx).Err()
}

// Close 关闭连接
func (c *Client) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.rdb.Close()
}

// Key 拼接带前缀的键
func (c *Client) Key(parts ...string) string {
	prefix := defaultPrefix
	if c != nil && c.prefix != "" {
		prefix = c.prefix
	}
	segments := make([]string, 0, len(parts)+1)
	segments = append(segments, prefix)
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			segments = append(segments, trimmed)
		}
	}
	return strings.Join(segments, ":")
}
