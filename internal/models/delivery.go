package models

import "time"

// Delivery 配送表
type Delivery struct {
	ID        uint      `gorm:"primarykey" json:"id"`                            // 主键
	Address   Address   `gorm:"embedded;embeddedPrefix:address_" json:"address"` // 收货地址快照
	Status    string    `gorm:"type:varchar(20);index;not null" json:"status"`   // 配送状态 READY / COMP
	CreatedAt time.Time `json:"-"`                                               // 创建时间
	UpdatedAt time.Time `json:"-"`                                               // 更新时间
}

// TableName 指定表名
func (Delivery) TableName() string {
	return "deliveries"
}
