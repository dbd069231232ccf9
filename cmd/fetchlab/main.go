package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/jpashop-api/internal/config"
	"github.com/jpashop-api/internal/fetchlab"
	"github.com/jpashop-api/internal/logger"
	"github.com/jpashop-api/internal/models"
	"github.com/jpashop-api/internal/repository"
	"github.com/jpashop-api/internal/service"
)

func main() {
	var (
		skipSeed  = flag.Bool("skip-seed", false, "skip inserting the sample members, items and orders")
		batchSize = flag.Int("batch", 0, "batch size for IN loading (0 uses fetch.batch_size)")
		timeout   = flag.Duration("timeout", 30*time.Second, "overall timeout for all scenarios")
	)
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	db, err := models.Open(cfg.Database.Driver, cfg.Database.DSN, cfg.Database.Pool.ToModelsPool(), cfg.Server.Mode)
	if err != nil {
		stdLog.Fatalf("failed to connect database: %v", err)
	}
	if err := models.MigrateAll(db); err != nil {
		stdLog.Fatalf("failed to migrate schema: %v", err)
	}
	if !*skipSeed {
		created, err := fetchlab.NewSampleSeeder(db).Seed(context.Background())
		if err != nil {
			stdLog.Fatalf("failed to seed sample data: %v", err)
		}
		stdLog.Printf("sample data ready (orders created=%d)", created)
	}

	counter := models.NewQueryCounter()
	if err := db.Use(counter); err != nil {
		stdLog.Fatalf("failed to register query counter: %v", err)
	}

	size := cfg.Fetch.BatchSize
	if *batchSize > 0 {
		size = *batchSize
	}
	queries := service.NewOrderQueryService(
		repository.NewOrderRepository(db),
		repository.NewOrderQueryRepository(db),
		size,
		cfg.Fetch.MaxResults,
	)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	results := fetchlab.NewLab(queries, counter).RunScenarios(ctx)
	if err := fetchlab.WriteReport(os.Stdout, results); err != nil {
		stdLog.Fatalf("failed to print report: %v", err)
	}
	if fetchlab.Failed(results) {
		os.Exit(1)
	}
}
