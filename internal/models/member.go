package models

import "time"

// Member 会员表
type Member struct {
	ID        uint      `gorm:"primarykey" json:"id"`                               // 主键
	Name      string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"` // 会员名
	Address   Address   `gorm:"embedded;embeddedPrefix:address_" json:"address"`    // 地址
	CreatedAt time.Time `gorm:"index" json:"-"`                                     // 创建时间
	UpdatedAt time.Time `json:"-"`                                                  // 更新时间

	// 反向关联，序列化时忽略以避免 Order -> Member -> Orders 循环
	Orders []Order `gorm:"foreignKey:MemberID" json:"-"`
}

// TableName 指定表名
func (Member) TableName() string {
	return "members"
}
