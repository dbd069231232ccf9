package logger

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const defaultSlowThreshold = 200 * time.Millisecond

// GormLogger 将 gorm 的 SQL 日志转发到 zap
type GormLogger struct {
	level         gormlogger.LogLevel
	slowThreshold time.Duration
}

// NewGormLogger 按运行模式创建 gorm 日志：debug 记录全部 SQL，其它模式只记录慢查询与错误
func NewGormLogger(mode string) *GormLogger {
	level := gormlogger.Warn
	if IsDebug(mode) {
		level = gormlogger.Info
	}
	return &GormLogger{level: level, slowThreshold: defaultSlowThreshold}
}

// LogMode 实现 gormlogger.Interface
func (g *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	next := *g
	next.level = level
	return &next
}

// Info 实现 gormlogger.Interface
func (g *GormLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	if g.level >= gormlogger.Info {
		Ctx(ctx).Infof(msg, args...)
	}
}

// Warn 实现 gormlogger.Interface
func (g *GormLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if g.level >= gormlogger.Warn {
		Ctx(ctx).Warnf(msg, args...)
	}
}

// Error 实现 gormlogger.Interface
func (g *GormLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	if g.level >= gormlogger.Error {
		Ctx(ctx).Errorf(msg, args...)
	}
}

// Trace 实现 gormlogger.Interface
func (g *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if g.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sql, rows := fc()
	fields := []interface{}{"sql", sql, "rows", rows, "elapsed", elapsed}
	switch {
	case err != nil && g.level >= gormlogger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		Ctx(ctx).Errorw("gorm_query_failed", append(fields, "error", err)...)
	case g.slowThreshold > 0 && elapsed > g.slowThreshold && g.level >= gormlogger.Warn:
		Ctx(ctx).Warnw("gorm_slow_query", append(fields, "threshold", g.slowThreshold)...)
	case g.level >= gormlogger.Info:
		Ctx(ctx).Debugw("gorm_query", fields...)
	}
}

// Level 当前日志级别
func (g *GormLogger) Level() gormlogger.LogLevel {
	return g.level
}

var _ gormlogger.Interface = (*GormLogger)(nil)
