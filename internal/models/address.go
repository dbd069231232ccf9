package models

import "strings"

// Address 地址值对象（嵌入会员与配送表）
type Address struct {
	City    string `gorm:"type:varchar(100)" json:"city"`   // 城市
	Street  string `gorm:"type:varchar(200)" json:"street"` // 街道
	Zipcode string `gorm:"type:varchar(20)" json:"zipcode"` // 邮编
}

// NewAddress 创建地址，去除首尾空白
func NewAddress(city, street, zipcode string) Address {
	return Address{
		City:    strings.TrimSpace(city),
		Street:  strings.TrimSpace(street),
		Zipcode: strings.TrimSpace(zipcode),
	}
}

// IsZero 判断地址是否为空
func (a Address) IsZero() bool {
	return a.City == "" && a.Street == "" && a.Zipcode == ""
}
