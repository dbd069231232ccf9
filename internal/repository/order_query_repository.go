package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// OrderQueryRepository 订单 DTO 投影查询，不实例化实体。
// maxResults 限制的是订单数而不是展开行数，<=0 使用默认上限。
type OrderQueryRepository interface {
	// FindOrderSimpleDtos 单条语句直接投影订单摘要
	FindOrderSimpleDtos(ctx context.Context, maxResults int) ([]OrderSimpleQueryDto, error)
	// FindOrderQueryDtos 先查订单摘要，再逐个订单查询订单项（1 + N）
	FindOrderQueryDtos(ctx context.Context, maxResults int) ([]OrderQueryDto, error)
	// FindAllByDtoOptimized 订单摘要一次、订单项按 IN 一次，共 2 条语句
	FindAllByDtoOptimized(ctx context.Context, maxResults int) ([]OrderQueryDto, error)
	// FindAllByDtoFlat 单条语句返回展开行，由调用方分组
	FindAllByDtoFlat(ctx context.Context, maxResults int) ([]OrderFlatDto, error)
}

// cappedOrdersFrom 按订单 ID 升序取前 N 个订单再做 join；
// 用派生表而不是 IN 子查询，mysql 不支持 IN 子查询里的 LIMIT
const cappedOrdersFrom = `FROM (SELECT id FROM orders ORDER BY id ASC LIMIT %s) capped
JOIN orders o ON o.id = capped.id`

const orderSummaryTemplate = `
SELECT o.id AS order_id, o.member_id AS order_member_id, o.delivery_id AS order_delivery_id,
       o.order_date AS order_date, o.status AS order_status,
       m.id AS member_id, m.name AS member_name,
       d.id AS delivery_id, d.address_city AS delivery_city, d.address_street AS delivery_street,
       d.address_zipcode AS delivery_zipcode
%s
LEFT JOIN members m ON m.id = o.member_id
LEFT JOIN deliveries d ON d.id = o.delivery_id
ORDER BY o.id ASC`

const orderItemSelectSQL = `
SELECT oi.order_id AS order_id, oi.id AS order_item_id, oi.item_id AS order_item_item_id,
       oi.order_price AS order_price, oi.count AS item_count,
       i.id AS item_id, i.name AS item_name
FROM order_items oi
LEFT JOIN items i ON i.id = oi.item_id`

const orderFlatTemplate = `
SELECT o.id AS order_id, o.member_id AS order_member_id, o.delivery_id AS order_delivery_id,
       o.order_date AS order_date, o.status AS order_status,
       m.id AS member_id, m.name AS member_name,
       d.id AS delivery_id, d.address_city AS delivery_city, d.address_street AS delivery_street,
       d.address_zipcode AS delivery_zipcode,
       oi.id AS order_item_id, oi.item_id AS order_item_item_id, oi.order_price AS order_price, oi.count AS item_count,
       i.id AS item_id, i.name AS item_name
%s
LEFT JOIN members m ON m.id = o.member_id
LEFT JOIN deliveries d ON d.id = o.delivery_id
LEFT JOIN order_items oi ON oi.order_id = o.id
LEFT JOIN items i ON i.id = oi.item_id
ORDER BY o.id ASC, oi.id ASC`

// gorm 使用 ? 占位符，pgx 使用 $1
var (
	orderSummarySQL    = fmt.Sprintf(orderSummaryTemplate, fmt.Sprintf(cappedOrdersFrom, "?"))
	orderSummaryPgxSQL = fmt.Sprintf(orderSummaryTemplate, fmt.Sprintf(cappedOrdersFrom, "$1"))
	orderFlatSQL       = fmt.Sprintf(orderFlatTemplate, fmt.Sprintf(cappedOrdersFrom, "?"))
	orderFlatPgxSQL    = fmt.Sprintf(orderFlatTemplate, fmt.Sprintf(cappedOrdersFrom, "$1"))
)

// GormOrderQueryRepository 基于 GORM 原生 SQL 的投影实现，适用于所有方言
type GormOrderQueryRepository struct {
	db *gorm.DB
}

// NewOrderQueryRepository 创建投影查询仓库
func NewOrderQueryRepository(db *gorm.DB) *GormOrderQueryRepository {
	return &GormOrderQueryRepository{db: db}
}

// FindOrderSimpleDtos 投影订单摘要
func (r *GormOrderQueryRepository) FindOrderSimpleDtos(ctx context.Context, maxResults int) ([]OrderSimpleQueryDto, error) {
	var rows []orderSummaryRow
	if err := r.db.WithContext(ctx).Raw(orderSummarySQL, normalizeMaxResults(maxResults)).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return summaryRowsToDtos(rows)
}

// FindOrderQueryDtos 1 + N 方式查询订单详情
func (r *GormOrderQueryRepository) FindOrderQueryDtos(ctx context.Context, maxResults int) ([]OrderQueryDto, error) {
	summaries, err := r.FindOrderSimpleDtos(ctx, maxResults)
	if err != nil {
		return nil, err
	}
	orders, _ := withItems(summaries)
	for i := range orders {
		items, err := r.findOrderItems(ctx, orders[i].OrderID)
		if err != nil {
			return nil, err
		}
		orders[i].OrderItems = append(orders[i].OrderItems, items...)
	}
	return orders, nil
}

// FindAllByDtoOptimized 2 条语句查询订单详情
func (r *GormOrderQueryRepository) FindAllByDtoOptimized(ctx context.Context, maxResults int) ([]OrderQueryDto, error) {
	summaries, err := r.FindOrderSimpleDtos(ctx, maxResults)
	if err != nil {
		return nil, err
	}
	orders, ids := withItems(summaries)
	if len(ids) == 0 {
		return orders, nil
	}
	var rows []orderItemRow
	if err := r.db.WithContext(ctx).
		Raw(orderItemSelectSQL+"\nWHERE oi.order_id IN ?\nORDER BY oi.order_id ASC, oi.id ASC", ids).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	items, err := itemRowsToDtos(rows)
	if err != nil {
		return nil, err
	}
	attachItems(orders, items)
	return orders, nil
}

// FindAllByDtoFlat 单条语句查询展开行
func (r *GormOrderQueryRepository) FindAllByDtoFlat(ctx context.Context, maxResults int) ([]OrderFlatDto, error) {
	var rows []orderFlatRow
	if err := r.db.WithContext(ctx).Raw(orderFlatSQL, normalizeMaxResults(maxResults)).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return flatRowsToDtos(rows)
}

func (r *GormOrderQueryRepository) findOrderItems(ctx context.Context, orderID uint) ([]OrderItemQueryDto, error) {
	var rows []orderItemRow
	if err := r.db.WithContext(ctx).
		Raw(orderItemSelectSQL+"\nWHERE oi.order_id = ?\nORDER BY oi.id ASC", orderID).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return itemRowsToDtos(rows)
}
