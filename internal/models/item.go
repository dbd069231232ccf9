package models

import (
	"errors"
	"time"
)

// ErrNotEnoughStock 库存不足
var ErrNotEnoughStock = errors.New("need more stock")

// Item 商品表
type Item struct {
	ID            uint      `gorm:"primarykey" json:"id"`                               // 主键
	Name          string    `gorm:"type:varchar(200);not null" json:"name"`             // 商品名
	Price         Money     `gorm:"type:decimal(20,2);not null;default:0" json:"price"` // 单价
	StockQuantity int       `gorm:"not null;default:0" json:"stockQuantity"`            // 库存
	CreatedAt     time.Time `gorm:"index" json:"-"`                                     // 创建时间
	UpdatedAt     time.Time `json:"-"`                                                  // 更新时间
}

// TableName 指定表名
func (Item) TableName() string {
	return "items"
}

// AddStock 增加库存
func (i *Item) AddStock(quantity int) {
	if quantity <= 0 {
		return
	}
	i.StockQuantity += quantity
}

// RemoveStock 扣减库存，不足时返回 ErrNotEnoughStock
func (i *Item) RemoveStock(quantity int) error {
	rest := i.StockQuantity - quantity
	if rest < 0 {
		return ErrNotEnoughStock
	}
	i.StockQuantity = rest
	return nil
}
