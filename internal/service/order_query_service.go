package service

import (
	"context"

	"github.com/jpashop-api/internal/constants"
	"github.com/jpashop-api/internal/models"
	"github.com/jpashop-api/internal/repository"
)

// OrderQueryService 订单列表查询，每个方法对应一种加载策略。
// 不分页的方法统一按 maxResults 截断订单数，各策略返回的订单集合一致。
type OrderQueryService struct {
	orderRepo  repository.OrderRepository
	queryRepo  repository.OrderQueryRepository
	batchSize  int
	maxResults int
}

// NewOrderQueryService 创建订单查询服务
func NewOrderQueryService(orderRepo repository.OrderRepository, queryRepo repository.OrderQueryRepository, batchSize, maxResults int) *OrderQueryService {
	if batchSize <= 0 {
		batchSize = constants.DefaultBatchFetchSize
	}
	if maxResults <= 0 {
		maxResults = constants.DefaultMaxResults
	}
	return &OrderQueryService{
		orderRepo:  orderRepo,
		queryRepo:  queryRepo,
		batchSize:  batchSize,
		maxResults: maxResults,
	}
}

// MaxResults 单次查询条数上限
func (s *OrderQueryService) MaxResults() int {
	return s.maxResults
}

// SimpleOrdersV1 返回实体，逐个订单加载会员与配送
func (s *OrderQueryService) SimpleOrdersV1(ctx context.Context) ([]models.Order, error) {
	orders, err := s.findOrders(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.loadToOne(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// SimpleOrdersV2 实体转 DTO，关联逐行加载（1 + 2N）
func (s *OrderQueryService) SimpleOrdersV2(ctx context.Context) ([]SimpleOrderDto, error) {
	orders, err := s.SimpleOrdersV1(ctx)
	if err != nil {
		return nil, err
	}
	return toSimpleOrderDtos(orders), nil
}

// SimpleOrdersV3 fetch join 一次取回订单、会员与配送
func (s *OrderQueryService) SimpleOrdersV3(ctx context.Context) ([]SimpleOrderDto, error) {
	orders, err := s.orderRepo.FindAllWithMemberDelivery(ctx, 0, s.maxResults)
	if err != nil {
		return nil, wrapGraphError(err)
	}
	return toSimpleOrderDtos(orders), nil
}

// SimpleOrdersV4 数据库侧直接投影 DTO
func (s *OrderQueryService) SimpleOrdersV4(ctx context.Context) ([]SimpleOrderDto, error) {
	rows, err := s.queryRepo.FindOrderSimpleDtos(ctx, s.maxResults)
	if err != nil {
		return nil, wrapGraphError(err)
	}
	return fromSimpleQueryDtos(rows), nil
}

// OrdersV1 返回实体，逐个加载全部关联
func (s *OrderQueryService) OrdersV1(ctx context.Context) ([]models.Order, error) {
	orders, err := s.findOrders(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.loadToOne(ctx, orders); err != nil {
		return nil, err
	}
	for i := range orders {
		if err := s.orderRepo.LoadOrderItems(ctx, &orders[i]); err != nil {
			return nil, err
		}
		for j := range orders[i].OrderItems {
			if err := s.orderRepo.LoadItem(ctx, &orders[i].OrderItems[j]); err != nil {
				return nil, wrapGraphError(err)
			}
		}
	}
	return orders, nil
}

// OrdersV2 实体转 DTO，关联逐行加载
func (s *OrderQueryService) OrdersV2(ctx context.Context) ([]OrderDto, error) {
	orders, err := s.OrdersV1(ctx)
	if err != nil {
		return nil, err
	}
	return toOrderDtos(orders), nil
}

// OrdersV3 单条 join 取回整图，内存去重
func (s *OrderQueryService) OrdersV3(ctx context.Context) ([]OrderDto, error) {
	orders, err := s.orderRepo.FindAllWithItem(ctx, s.maxResults)
	if err != nil {
		return nil, wrapGraphError(err)
	}
	return toOrderDtos(orders), nil
}

// OrdersV3Page to-one 关联 fetch join 分页，集合按批次 IN 加载
func (s *OrderQueryService) OrdersV3Page(ctx context.Context, offset, limit int) ([]OrderDto, error) {
	offset, limit, err := s.NormalizePage(offset, limit)
	if err != nil {
		return nil, err
	}
	orders, err := s.orderRepo.FindAllWithMemberDelivery(ctx, offset, limit)
	if err != nil {
		return nil, wrapGraphError(err)
	}
	if err := s.orderRepo.LoadOrderItemsBatch(ctx, orders, s.batchSize); err != nil {
		return nil, wrapGraphError(err)
	}
	return toOrderDtos(orders), nil
}

// OrdersV4 DTO 投影，订单项逐个订单查询（1 + N）
func (s *OrderQueryService) OrdersV4(ctx context.Context) ([]OrderDto, error) {
	rows, err := s.queryRepo.FindOrderQueryDtos(ctx, s.maxResults)
	if err != nil {
		return nil, wrapGraphError(err)
	}
	return fromQueryDtos(rows), nil
}

// OrdersV5 DTO 投影，订单项一次 IN 查询（共 2 条语句）
func (s *OrderQueryService) OrdersV5(ctx context.Context) ([]OrderDto, error) {
	rows, err := s.queryRepo.FindAllByDtoOptimized(ctx, s.maxResults)
	if err != nil {
		return nil, wrapGraphError(err)
	}
	return fromQueryDtos(rows), nil
}

// OrdersV6 单条展开查询，内存按订单分组
func (s *OrderQueryService) OrdersV6(ctx context.Context) ([]OrderDto, error) {
	rows, err := s.queryRepo.FindAllByDtoFlat(ctx, s.maxResults)
	if err != nil {
		return nil, wrapGraphError(err)
	}
	return groupFlatRows(rows), nil
}

// NormalizePage 校验 offset/limit，limit 超过上限时截断
func (s *OrderQueryService) NormalizePage(offset, limit int) (int, int, error) {
	if offset < 0 || limit < 0 {
		return 0, 0, ErrInvalidPagination
	}
	if limit > s.maxResults {
		limit = s.maxResults
	}
	return offset, limit, nil
}

func (s *OrderQueryService) findOrders(ctx context.Context) ([]models.Order, error) {
	return s.orderRepo.FindAll(ctx, repository.OrderSearch{MaxResults: s.maxResults})
}

func (s *OrderQueryService) loadToOne(ctx context.Context, orders []models.Order) error {
	for i := range orders {
		if err := s.orderRepo.LoadMember(ctx, &orders[i]); err != nil {
			return wrapGraphError(err)
		}
		if err := s.orderRepo.LoadDelivery(ctx, &orders[i]); err != nil {
			return wrapGraphError(err)
		}
	}
	return nil
}
