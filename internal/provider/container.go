package provider

import (
	"context"
	"time"

	"github.com/jpashop-api/internal/config"
	"github.com/jpashop-api/internal/logger"
	"github.com/jpashop-api/internal/models"
	"github.com/jpashop-api/internal/queue"
	"github.com/jpashop-api/internal/redisclient"
	"github.com/jpashop-api/internal/repository"
	"github.com/jpashop-api/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	DB          *gorm.DB
	QueueClient *queue.Client
	RedisClient *redisclient.Client
	RateLimiter *redisclient.FixedWindowLimiter
	PgxPool     *pgxpool.Pool

	// Repositories
	MemberRepo     repository.MemberRepository
	ItemRepo       repository.ItemRepository
	OrderRepo      repository.OrderRepository
	OrderQueryRepo repository.OrderQueryRepository

	// Services
	MemberService     *service.MemberService
	ItemService       *service.ItemService
	OrderService      *service.OrderService
	OrderQueryService *service.OrderQueryService
	SampleSeeder      *service.SampleSeeder
}

// NewContainer 使用全局数据库连接初始化容器
func NewContainer(cfg *config.Config) *Container {
	return NewContainerWithDB(cfg, models.DB)
}

// NewContainerWithDB 使用指定数据库连接初始化容器
func NewContainerWithDB(cfg *config.Config, db *gorm.DB) *Container {
	// 初始化队列客户端
	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		logger.Errorw("provider_init_queue_client_failed", "error", err)
		queueClient = nil
	}

	c := &Container{
		Config:      cfg,
		DB:          db,
		QueueClient: queueClient,
	}

	c.initRedis()

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRedis() {
	c.RedisClient = redisclient.New(&c.Config.Redis)
	if !c.RedisClient.Enabled() {
		return
	}
	if err := c.RedisClient.Ping(context.Background()); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}
	if c.Config.RateLimit.MaxRequests > 0 {
		window := time.Duration(c.Config.RateLimit.WindowSeconds) * time.Second
		c.RateLimiter = redisclient.NewFixedWindowLimiter(c.RedisClient, c.Config.RateLimit.MaxRequests, window)
	}
}

func (c *Container) initRepositories() {
	db := c.DB
	c.MemberRepo = repository.NewMemberRepository(db)
	c.ItemRepo = repository.NewItemRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.OrderQueryRepo = repository.NewOrderQueryRepository(db)

	if !c.Config.Database.UsePgxProjection() {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	maxConns := int32(c.Config.Database.Pool.MaxOpenConns)
	pool, err := repository.NewPgxPool(ctx, c.Config.Database.DSN, maxConns)
	if err != nil {
		logger.Warnw("provider_init_pgx_pool_failed", "error", err)
		return
	}
	c.PgxPool = pool
	c.OrderQueryRepo = repository.NewPgxOrderQueryRepository(pool)
	logger.Infow("provider_pgx_projection_enabled", "max_conns", maxConns)
}

func (c *Container) initServices() {
	var notifier service.OrderStatusNotifier
	if c.QueueClient != nil {
		notifier = c.QueueClient
	}
	c.MemberService = service.NewMemberService(c.MemberRepo)
	c.ItemService = service.NewItemService(c.ItemRepo)
	c.OrderService = service.NewOrderService(c.DB, c.OrderRepo, c.MemberRepo, c.ItemRepo, notifier)
	c.SampleSeeder = service.NewSampleSeeder(c.MemberService, c.ItemService, c.OrderService)
	c.OrderQueryService = service.NewOrderQueryService(
		c.OrderRepo,
		c.OrderQueryRepo,
		c.Config.Fetch.BatchSize,
		c.Config.Fetch.MaxResults,
	)
}

// Close 释放容器持有的外部连接
func (c *Container) Close() {
	if c == nil {
		return
	}
	if c.PgxPool != nil {
		c.PgxPool.Close()
	}
	if err := c.QueueClient.Close(); err != nil {
		logger.Warnw("provider_close_queue_client_failed", "error", err)
	}
	if err := c.RedisClient.Close(); err != nil {
		logger.Warnw("provider_close_redis_failed", "error", err)
	}
}
