package redisclient

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateDecision 限流判定结果
type RateDecision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetIn   time.Duration
}

// 首次计数时设置过期时间，返回当前计数与剩余 TTL
var fixedWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
	redis.call("EXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("TTL", KEYS[1])
return {current, ttl}
`)

// FixedWindowLimiter 固定窗口限流
type FixedWindowLimiter struct {
	client *Client
	limit  int
	window time.Duration
}

// NewFixedWindowLimiter 创建固定窗口限流器，limit<=0 时不限流
func NewFixedWindowLimiter(client *Client, limit int, window time.Duration) *FixedWindowLimiter {
	if window < time.Second {
		window = time.Minute
	}
	return &FixedWindowLimiter{client: client, limit: limit, window: window}
}

// Allow 判断 subject 在当前窗口内是否仍可访问
func (l *FixedWindowLimiter) Allow(ctx context.Context, subject string) (RateDecision, error) {
	if l == nil {
		return RateDecision{Allowed: true}, nil
	}
	decision := RateDecision{Allowed: true, Limit: l.limit, Remaining: l.limit, ResetIn: l.window}
	if l.limit <= 0 || !l.client.Enabled() {
		return decision, nil
	}
	key := l.client.Key("ratelimit", subject)
	seconds := int(l.window / time.Second)
	result, err := fixedWindowScript.Run(ctx, l.client.rdb, []string{key}, seconds).Int64Slice()
	if err != nil {
		return decision, fmt.Errorf("rate limit script: %w", err)
	}
	if len(result) < 2 {
		return decision, fmt.Errorf("rate limit script: unexpected result %v", result)
	}
	count, ttl := int(result[0]), result[1]
	decision.Remaining = max(l.limit-count, 0)
	decision.Allowed = count <= l.limit
	if ttl > 0 {
		decision.ResetIn = time.Duration(ttl) * time.Second
	}
	return decision, nil
}
