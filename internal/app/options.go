package app

import (
	"os"
	"time"

	"github.com/jpashop-api/internal/config"
	"github.com/jpashop-api/internal/logger"

	"go.uber.org/zap"
)

// 启动模式
const (
	ModeAll    = "all"
	ModeAPI    = "api"
	ModeWorker = "worker"
)

const defaultShutdownTimeout = 10 * time.Second

// Options 应用启动选项
type Options struct {
	Config          *config.Config
	Logger          *zap.SugaredLogger
	Signals         []os.Signal
	ShutdownTimeout time.Duration
	Mode            string
	// SeedSample 启动前写入示例会员、商品与订单
	SeedSample bool
}

func normalizeOptions(opts Options) Options {
	if opts.Logger == nil {
		opts.Logger = logger.S()
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = defaultShutdownTimeout
	}
	switch opts.Mode {
	case ModeAll, ModeAPI, ModeWorker:
	default:
		opts.Mode = ModeAll
	}
	return opts
}
