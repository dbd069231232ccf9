package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxOrderQueryRepository 基于 pgx 连接池的投影实现，仅用于 postgres
type PgxOrderQueryRepository struct {
	pool *pgxpool.Pool
}

// NewPgxOrderQueryRepository 创建 pgx 投影查询仓库
func NewPgxOrderQueryRepository(pool *pgxpool.Pool) *PgxOrderQueryRepository {
	return &PgxOrderQueryRepository{pool: pool}
}

// NewPgxPool 按 DSN 建立连接池并校验连通性
func NewPgxPool(ctx context.Context, dsn string, maxConns int32) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pgx dsn: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping pgx pool: %w", err)
	}
	return pool, nil
}

// FindOrderSimpleDtos 投影订单摘要
func (r *PgxOrderQueryRepository) FindOrderSimpleDtos(ctx context.Context, maxResults int) ([]OrderSimpleQueryDto, error) {
	if r.pool == nil {
		return nil, errors.New("pgx pool is nil")
	}
	rows, err := r.pool.Query(ctx, orderSummaryPgxSQL, normalizeMaxResults(maxResults))
	if err != nil {
		return nil, err
	}
	summaries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (orderSummaryRow, error) {
		var s orderSummaryRow
		err := row.Scan(
			&s.OrderID, &s.OrderMemberID, &s.OrderDeliveryID, &s.OrderDate, &s.OrderStatus,
			&s.MemberID, &s.MemberName,
			&s.DeliveryID, &s.DeliveryCity, &s.DeliveryStreet, &s.DeliveryZipcode,
		)
		return s, err
	})
	if err != nil {
		return nil, err
	}
	return summaryRowsToDtos(summaries)
}

// FindOrderQueryDtos 1 + N 方式查询订单详情
func (r *PgxOrderQueryRepository) FindOrderQueryDtos(ctx context.Context, maxResults int) ([]OrderQueryDto, error) {
	summaries, err := r.FindOrderSimpleDtos(ctx, maxResults)
	if err != nil {
		return nil, err
	}
	orders, _ := withItems(summaries)
	for i := range orders {
		items, err := r.queryOrderItems(ctx, orderItemSelectSQL+"\nWHERE oi.order_id = $1\nORDER BY oi.id ASC", int64(orders[i].OrderID))
		if err != nil {
			return nil, err
		}
		orders[i].OrderItems = append(orders[i].OrderItems, items...)
	}
	return orders, nil
}

// FindAllByDtoOptimized 2 条语句查询订单详情
func (r *PgxOrderQueryRepository) FindAllByDtoOptimized(ctx context.Context, maxResults int) ([]OrderQueryDto, error) {
	summaries, err := r.FindOrderSimpleDtos(ctx, maxResults)
	if err != nil {
		return nil, err
	}
	orders, ids := withItems(summaries)
	if len(ids) == 0 {
		return orders, nil
	}
	items, err := r.queryOrderItems(ctx, orderItemSelectSQL+"\nWHERE oi.order_id = ANY($1)\nORDER BY oi.order_id ASC, oi.id ASC", toInt64s(ids))
	if err != nil {
		return nil, err
	}
	attachItems(orders, items)
	return orders, nil
}

// FindAllByDtoFlat 单条语句查询展开行
func (r *PgxOrderQueryRepository) FindAllByDtoFlat(ctx context.Context, maxResults int) ([]OrderFlatDto, error) {
	if r.pool == nil {
		return nil, errors.New("pgx pool is nil")
	}
	rows, err := r.pool.Query(ctx, orderFlatPgxSQL, normalizeMaxResults(maxResults))
	if err != nil {
		return nil, err
	}
	flat, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (orderFlatRow, error) {
		var f orderFlatRow
		err := row.Scan(
			&f.OrderID, &f.OrderMemberID, &f.OrderDeliveryID, &f.OrderDate, &f.OrderStatus,
			&f.MemberID, &f.MemberName,
			&f.DeliveryID, &f.DeliveryCity, &f.DeliveryStreet, &f.DeliveryZipcode,
			&f.OrderItemID, &f.OrderItemItemID, &f.OrderPrice, &f.ItemCount,
			&f.ItemID, &f.ItemName,
		)
		return f, err
	})
	if err != nil {
		return nil, err
	}
	return flatRowsToDtos(flat)
}

func (r *PgxOrderQueryRepository) queryOrderItems(ctx context.Context, sql string, args ...any) ([]OrderItemQueryDto, error) {
	if r.pool == nil {
		return nil, errors.New("pgx pool is nil")
	}
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (orderItemRow, error) {
		var it orderItemRow
		err := row.Scan(
			&it.OrderID, &it.OrderItemID, &it.OrderItemItemID, &it.OrderPrice, &it.Count,
			&it.ItemID, &it.ItemName,
		)
		return it, err
	})
	if err != nil {
		return nil, err
	}
	return itemRowsToDtos(items)
}

func toInt64s(ids []uint) []int64 {
	result := make([]int64, 0, len(ids))
	for _, id := range ids {
		result = append(result, int64(id))
	}
	return result
}
