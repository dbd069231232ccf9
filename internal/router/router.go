package router

import (
	"fmt"
	"strings"

	"github.com/jpashop-api/internal/config"
	apihandlers "github.com/jpashop-api/internal/http/handlers/api"
	"github.com/jpashop-api/internal/http/response"
	"github.com/jpashop-api/internal/logger"
	"github.com/jpashop-api/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	handler := apihandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "jpashop"
	}
	var limiter RateLimiter
	if c.RateLimiter != nil {
		limiter = c.RateLimiter
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	api := r.Group("/api")
	api.Use(RateLimitMiddleware(limiter, fmt.Sprintf("%s:rate:api", redisPrefix), KeyByIP))
	{
		// 订单摘要：会员与配送
		api.GET("/v1/simple-orders", handler.GetSimpleOrdersV1)
		api.GET("/v2/simple-orders", handler.GetSimpleOrdersV2)
		api.GET("/v3/simple-orders", handler.GetSimpleOrdersV3)
		api.GET("/v4/simple-orders", handler.GetSimpleOrdersV4)

		// 订单详情：含订单项
		api.GET("/v1/orders", handler.GetOrdersV1)
		api.GET("/v2/orders", handler.GetOrdersV2)
		api.GET("/v3/orders", handler.GetOrdersV3)
		api.GET("/v3.1/orders", handler.GetOrdersV3Page)
		api.GET("/v4/orders", handler.GetOrdersV4)
		api.GET("/v5/orders", handler.GetOrdersV5)
		api.GET("/v6/orders", handler.GetOrdersV6)
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "route not found")
	})

	return r
}
