package models

import (
	"sync/atomic"

	"gorm.io/gorm"
)

const queryCounterName = "jpashop:query_counter"

// QueryCounter 统计读语句执行次数的 gorm 插件，用于观察 N+1 与 fetch join 的差异
type QueryCounter struct {
	count atomic.Int64
}

// NewQueryCounter 创建查询计数插件
func NewQueryCounter() *QueryCounter {
	return &QueryCounter{}
}

// Name 插件名称
func (c *QueryCounter) Name() string {
	return queryCounterName
}

// Initialize 注册查询回调
func (c *QueryCounter) Initialize(db *gorm.DB) error {
	if err := db.Callback().Query().After("gorm:query").Register(queryCounterName+":query", c.observe); err != nil {
		return err
	}
	if err := db.Callback().Row().After("gorm:row").Register(queryCounterName+":row", c.observe); err != nil {
		return err
	}
	return db.Callback().Raw().After("gorm:raw").Register(queryCounterName+":raw", c.observe)
}

func (c *QueryCounter) observe(db *gorm.DB) {
	if db == nil || db.Statement == nil || db.Statement.SQL.Len() == 0 {
		return
	}
	c.count.Add(1)
}

// Count 当前累计次数
func (c *QueryCounter) Count() int64 {
	if c == nil {
		return 0
	}
	return c.count.Load()
}

// Reset 清零并返回清零前的次数
func (c *QueryCounter) Reset() int64 {
	if c == nil {
		return 0
	}
	return c.count.Swap(0)
}
