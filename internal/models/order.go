package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order 订单表
type Order struct {
	ID         uint      `gorm:"primarykey" json:"id"`                          // 主键
	MemberID   uint      `gorm:"index;not null" json:"-"`                       // 会员ID
	DeliveryID uint      `gorm:"uniqueIndex;not null" json:"-"`                 // 配送ID
	OrderDate  time.Time `gorm:"index;not null" json:"orderDate"`               // 下单时间
	Status     string    `gorm:"type:varchar(20);index;not null" json:"status"` // 订单状态 ORDER / CANCEL
	CreatedAt  time.Time `json:"-"`                                             // 创建时间
	UpdatedAt  time.Time `json:"-"`                                             // 更新时间

	// 关联
	Member     *Member     `gorm:"foreignKey:MemberID" json:"member"`     // 会员
	Delivery   *Delivery   `gorm:"foreignKey:DeliveryID" json:"delivery"` // 配送
	OrderItems []OrderItem `gorm:"foreignKey:OrderID" json:"orderItems"`  // 订单项
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}

// TotalPrice 订单总价
func (o Order) TotalPrice() Money {
	total := decimal.Zero
	for _, item := range o.OrderItems {
		total = total.Add(item.TotalPrice().Decimal)
	}
	return NewMoneyFromDecimal(total)
}
