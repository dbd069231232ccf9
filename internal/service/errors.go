package service

import "errors"

var (
	// ErrMemberNotFound 会员不存在
	ErrMemberNotFound = errors.New("member not found")
	// ErrInvalidMember 会员参数无效
	ErrInvalidMember = errors.New("invalid member")
	// ErrDuplicateMember 会员名已存在
	ErrDuplicateMember = errors.New("member name already exists")
	// ErrItemNotFound 商品不存在
	ErrItemNotFound = errors.New("item not found")
	// ErrInvalidItem 商品参数无效
	ErrInvalidItem = errors.New("invalid item")
	// ErrNotEnoughStock 库存不足
	ErrNotEnoughStock = errors.New("not enough stock")
	// ErrEmptyOrder 下单没有任何明细
	ErrEmptyOrder = errors.New("order has no lines")
	// ErrInvalidOrderCount 下单数量无效
	ErrInvalidOrderCount = errors.New("order count must be positive")
	// ErrOrderNotFound 订单不存在
	ErrOrderNotFound = errors.New("order not found")
	// ErrAlreadyDelivered 已完成配送的订单不可取消
	ErrAlreadyDelivered = errors.New("order already delivered")
	// ErrOrderAlreadyCanceled 订单已取消
	ErrOrderAlreadyCanceled = errors.New("order already canceled")
	// ErrOrderGraphIncomplete 订单引用的会员、配送或商品缺失
	ErrOrderGraphIncomplete = errors.New("order graph incomplete")
	// ErrInvalidPagination offset/limit 无效
	ErrInvalidPagination = errors.New("invalid pagination")
)
