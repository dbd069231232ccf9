package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/jpashop-api/internal/config"
	"github.com/jpashop-api/internal/logger"
	"github.com/jpashop-api/internal/models"
	"github.com/jpashop-api/internal/provider"
	"github.com/jpashop-api/internal/repository"
)

func main() {
	var (
		cancelID   = flag.Uint("cancel", 0, "cancel the order with this id instead of seeding")
		list       = flag.Bool("list", false, "print members, item stock and orders when done")
		memberName = flag.String("member", "", "with -list: only orders of members matching this LIKE pattern")
		status     = flag.String("status", "", "with -list: only orders in this status (ORDER or CANCEL)")
		timeout    = flag.Duration("timeout", 30*time.Second, "overall timeout")
	)
	flag.Parse()

	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, cfg.Database.Pool.ToModelsPool(), cfg.Server.Mode); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	container := provider.NewContainerWithDB(cfg, models.DB)
	defer container.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if *cancelID > 0 {
		if err := container.OrderService.CancelOrder(ctx, uint(*cancelID)); err != nil {
			stdLog.Fatalf("Failed to cancel order %d: %v", *cancelID, err)
		}
		stdLog.Printf("Order %d canceled", *cancelID)
	} else {
		// 示例会员、商品与订单，按会员名幂等
		created, err := container.SampleSeeder.Seed(ctx)
		if err != nil {
			stdLog.Fatalf("Failed to seed sample data: %v", err)
		}
		if created == 0 {
			stdLog.Printf("Sample data already exists, nothing to do")
		} else {
			stdLog.Printf("Seed completed: %d orders created", created)
		}
	}

	if !*list {
		return
	}
	search := repository.OrderSearch{
		MemberName:  *memberName,
		OrderStatus: *status,
		MaxResults:  cfg.Fetch.MaxResults,
	}
	if err := writeOverview(ctx, os.Stdout, container, search); err != nil {
		stdLog.Fatalf("Failed to print overview: %v", err)
	}
}
