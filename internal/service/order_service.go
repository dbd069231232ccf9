package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jpashop-api/internal/constants"
	"github.com/jpashop-api/internal/logger"
	"github.com/jpashop-api/internal/models"
	"github.com/jpashop-api/internal/queue"
	"github.com/jpashop-api/internal/repository"

	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

// OrderStatusNotifier 订单状态变更通知
type OrderStatusNotifier interface {
	EnqueueOrderStatus(payload queue.OrderStatusPayload, opts ...asynq.Option) error
}

// OrderService 订单服务
type OrderService struct {
	db         *gorm.DB
	orderRepo  repository.OrderRepository
	memberRepo repository.MemberRepository
	itemRepo   repository.ItemRepository
	notifier   OrderStatusNotifier
	now        func() time.Time
}

// NewOrderService 创建订单服务
func NewOrderService(db *gorm.DB, orderRepo repository.OrderRepository, memberRepo repository.MemberRepository, itemRepo repository.ItemRepository, notifier OrderStatusNotifier) *OrderService {
	return &OrderService{
		db:         db,
		orderRepo:  orderRepo,
		memberRepo: memberRepo,
		itemRepo:   itemRepo,
		notifier:   notifier,
		now:        time.Now,
	}
}

// OrderLine 下单明细
type OrderLine struct {
	ItemID uint
	Count  int
}

// Order 下单：快照会员地址生成配送，按当前价格生成订单项并扣减库存，全部明细在同一事务内完成
func (s *OrderService) Order(ctx context.Context, memberID uint, lines ...OrderLine) (*models.Order, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}
	for _, line := range lines {
		if line.Count <= 0 {
			return nil, ErrInvalidOrderCount
		}
	}
	var order *models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		member, err := s.memberRepo.WithTx(tx).FindByID(ctx, memberID)
		if err != nil {
			return err
		}
		if member == nil {
			return ErrMemberNotFound
		}
		itemRepo := s.itemRepo.WithTx(tx)
		orderItems := make([]models.OrderItem, 0, len(lines))
		for _, line := range lines {
			item, err := itemRepo.FindByIDForUpdate(ctx, line.ItemID)
			if err != nil {
				return err
			}
			if item == nil {
				return fmt.Errorf("%w: item %d", ErrItemNotFound, line.ItemID)
			}
			if err := item.RemoveStock(line.Count); err != nil {
				if errors.Is(err, models.ErrNotEnoughStock) {
					return fmt.Errorf("%w: item %d has %d, requested %d", ErrNotEnoughStock, item.ID, item.StockQuantity, line.Count)
				}
				return err
			}
			if err := itemRepo.Save(ctx, item); err != nil {
				return err
			}
			orderItems = append(orderItems, models.OrderItem{Item: item, OrderPrice: item.Price, Count: line.Count})
		}

		order = &models.Order{
			Member: member,
			Delivery: &models.Delivery{
				Address: member.Address,
				Status:  constants.DeliveryStatusReady,
			},
			OrderDate:  s.now(),
			Status:     constants.OrderStatusOrder,
			OrderItems: orderItems,
		}
		return s.orderRepo.WithTx(tx).Create(ctx, order)
	})
	if err != nil {
		logger.Ctx(ctx).Warnw("order_place_failed", "member_id", memberID, "lines", len(lines), "error", err)
		return nil, err
	}
	logger.Ctx(ctx).Infow("order_placed", "order_id", order.ID, "member_id", memberID, "lines", len(lines), "total", order.TotalPrice().String())
	s.notifyStatus(ctx, order.ID, order.Status)
	return order, nil
}

// CancelOrder 取消订单并恢复库存，已完成配送的订单不可取消
func (s *OrderService) CancelOrder(ctx context.Context, orderID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		order, err := orderRepo.FindOne(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		if order.Status == constants.OrderStatusCancel {
			return ErrOrderAlreadyCanceled
		}
		if err := orderRepo.LoadDelivery(ctx, order); err != nil {
			return wrapGraphError(err)
		}
		if order.Delivery.Status == constants.DeliveryStatusComplete {
			return ErrAlreadyDelivered
		}
		if err := orderRepo.LoadOrderItems(ctx, order); err != nil {
			return err
		}
		itemRepo := s.itemRepo.WithTx(tx)
		for _, orderItem := range order.OrderItems {
			item, err := itemRepo.FindByIDForUpdate(ctx, orderItem.ItemID)
			if err != nil {
				return err
			}
			if item == nil {
				return fmt.Errorf("%w: item %d of order item %d", ErrOrderGraphIncomplete, orderItem.ItemID, orderItem.ID)
			}
			item.AddStock(orderItem.Count)
			if err := itemRepo.Save(ctx, item); err != nil {
				return err
			}
		}
		return orderRepo.UpdateStatus(ctx, order.ID, constants.OrderStatusCancel)
	})
	if err != nil {
		logger.Ctx(ctx).Warnw("order_cancel_failed", "order_id", orderID, "error", err)
		return err
	}
	logger.Ctx(ctx).Infow("order_canceled", "order_id", orderID)
	s.notifyStatus(ctx, orderID, constants.OrderStatusCancel)
	return nil
}

// FindOrders 按条件查询订单（仅订单本身）
func (s *OrderService) FindOrders(ctx context.Context, search repository.OrderSearch) ([]models.Order, error) {
	return s.orderRepo.FindAll(ctx, search)
}

// FindOrderSummary 查询单个订单摘要
func (s *OrderService) FindOrderSummary(ctx context.Context, orderID uint) (*SimpleOrderDto, error) {
	order, err := s.orderRepo.FindOne(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if err := s.orderRepo.LoadMember(ctx, order); err != nil {
		return nil, wrapGraphError(err)
	}
	if err := s.orderRepo.LoadDelivery(ctx, order); err != nil {
		return nil, wrapGraphError(err)
	}
	dto := newSimpleOrderDto(order)
	return &dto, nil
}

// notifyStatus 推送状态变更任务，失败只记录日志
func (s *OrderService) notifyStatus(ctx context.Context, orderID uint, status string) {
	if s.notifier == nil {
		return
	}
	err := s.notifier.EnqueueOrderStatus(queue.OrderStatusPayload{
		OrderID:    orderID,
		Status:     status,
		OccurredAt: s.now(),
	})
	if err != nil {
		logger.Ctx(ctx).Warnw("order_status_enqueue_failed", "order_id", orderID, "status", status, "error", err)
	}
}

// wrapGraphError 将悬空引用统一转换为 ErrOrderGraphIncomplete
func wrapGraphError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, repository.ErrDanglingReference) {
		return fmt.Errorf("%w: %w", ErrOrderGraphIncomplete, err)
	}
	return err
}
