package router

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jpashop-api/internal/http/response"
	"github.com/jpashop-api/internal/logger"
	"github.com/jpashop-api/internal/redisclient"

	"github.com/gin-gonic/gin"
)

// RateLimiter 限流判定接口
type RateLimiter interface {
	Allow(ctx context.Context, subject string) (redisclient.RateDecision, error)
}

// RateLimitKeyFunc 生成限流 key 的函数
type RateLimitKeyFunc func(*gin.Context) string

// RateLimitMiddleware 频率限制中间件，limiter 为空时直接放行
func RateLimitMiddleware(limiter RateLimiter, prefix string, keyFunc RateLimitKeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		key := ""
		if keyFunc != nil {
			key = strings.TrimSpace(keyFunc(c))
		}
		if key == "" {
			key = c.ClientIP()
		}
		if prefix != "" {
			key = fmt.Sprintf("%s:%s", prefix, key)
		}

		decision, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			// Redis 不可用时放行
			logger.Ctx(c.Request.Context()).Warnw("rate_limit_unavailable", "key", key, "error", err)
			c.Next()
			return
		}
		if decision.Limit > 0 {
			c.Header("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
			c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		}
		if !decision.Allowed {
			waitSeconds := int(decision.ResetIn.Seconds())
			if waitSeconds < 1 {
				waitSeconds = 1
			}
			c.Header("Retry-After", strconv.Itoa(waitSeconds))
			response.TooManyRequests(c, fmt.Sprintf("too many requests, retry after %d seconds", waitSeconds))
			return
		}

		c.Next()
	}
}

// KeyByIP 使用 IP 作为限流 key
func KeyByIP(c *gin.Context) string {
	return c.ClientIP()
}
