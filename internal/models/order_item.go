package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItem 订单项表
type OrderItem struct {
	ID         uint      `gorm:"primarykey" json:"id"`                                    // 主键
	OrderID    uint      `gorm:"index;not null" json:"-"`                                 // 订单ID
	ItemID     uint      `gorm:"index;not null" json:"-"`                                 // 商品ID
	OrderPrice Money     `gorm:"type:decimal(20,2);not null;default:0" json:"orderPrice"` // 下单时单价
	Count      int       `gorm:"not null" json:"count"`                                   // 数量
	CreatedAt  time.Time `json:"-"`                                                       // 创建时间
	UpdatedAt  time.Time `json:"-"`                                                       // 更新时间

	Item *Item `gorm:"foreignKey:ItemID" json:"item,omitempty"` // 商品
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}

// TotalPrice 订单项小计
func (oi OrderItem) TotalPrice() Money {
	return NewMoneyFromDecimal(oi.OrderPrice.Decimal.Mul(decimal.NewFromInt(int64(oi.Count))))
}
