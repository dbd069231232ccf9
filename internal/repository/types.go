package repository

import (
	"errors"
	"time"

	"github.com/jpashop-api/internal/models"
)

// ErrDanglingReference 订单引用的会员、配送或商品不存在
var ErrDanglingReference = errors.New("dangling reference")

// OrderSearch 订单查询条件
type OrderSearch struct {
	MemberName  string // 会员名（大小写不敏感匹配）
	OrderStatus string // 订单状态 ORDER / CANCEL
	MaxResults  int    // 最大返回条数，<=0 使用默认值
}

// OrderSimpleQueryDto 订单摘要投影（数据库侧直接构造）
type OrderSimpleQueryDto struct {
	OrderID     uint           `json:"orderId"`
	Name        string         `json:"name"`
	OrderDate   time.Time      `json:"orderDate"`
	OrderStatus string         `json:"orderStatus"`
	Address     models.Address `json:"address"`
}

// OrderQueryDto 订单详情投影
type OrderQueryDto struct {
	OrderID     uint                `json:"orderId"`
	Name        string              `json:"name"`
	OrderDate   time.Time           `json:"orderDate"`
	OrderStatus string              `json:"orderStatus"`
	Address     models.Address      `json:"address"`
	OrderItems  []OrderItemQueryDto `json:"orderItems"`
}

// OrderItemQueryDto 订单项投影
type OrderItemQueryDto struct {
	OrderID    uint         `json:"-"`
	ItemName   string       `json:"itemName"`
	OrderPrice models.Money `json:"orderPrice"`
	Count      int          `json:"count"`
}

// OrderFlatDto 订单与订单项展开后的单行投影
type OrderFlatDto struct {
	OrderID     uint
	Name        string
	OrderDate   time.Time
	OrderStatus string
	Address     models.Address

	HasItem    bool
	ItemName   string
	OrderPrice models.Money
	Count      int
}
