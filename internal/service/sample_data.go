package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jpashop-api/internal/logger"
	"github.com/jpashop-api/internal/models"
)

type sampleLine struct {
	itemName string
	price    int64
	stock    int
	count    int
}

type sampleOrder struct {
	memberName string
	address    models.Address
	lines      []sampleLine
}

var sampleOrders = []sampleOrder{
	{
		memberName: "userA",
		address:    models.NewAddress("Seoul", "1", "1111"),
		lines: []sampleLine{
			{itemName: "JPA1 BOOK", price: 10000, stock: 100, count: 1},
			{itemName: "JPA2 BOOK", price: 20000, stock: 100, count: 2},
		},
	},
	{
		memberName: "userB",
		address:    models.NewAddress("Jinju", "2", "2222"),
		lines: []sampleLine{
			{itemName: "SPRING1 BOOK", price: 20000, stock: 200, count: 3},
			{itemName: "SPRING2 BOOK", price: 40000, stock: 300, count: 4},
		},
	},
}

// SampleSeeder 走正常的注册、上架、下单流程写入示例数据
type SampleSeeder struct {
	members *MemberService
	items   *ItemService
	orders  *OrderService
}

// NewSampleSeeder 创建示例数据写入器
func NewSampleSeeder(members *MemberService, items *ItemService, orders *OrderService) *SampleSeeder {
	return &SampleSeeder{members: members, items: items, orders: orders}
}

// Seed 写入两个会员、四本书与两个订单，返回新建订单数；会员名已存在时跳过对应订单
func (s *SampleSeeder) Seed(ctx context.Context) (int, error) {
	if s == nil || s.members == nil || s.items == nil || s.orders == nil {
		return 0, errors.New("sample seeder not initialized")
	}
	created := 0
	for _, sample := range sampleOrders {
		member, err := s.members.Join(ctx, sample.memberName, sample.address)
		if errors.Is(err, ErrDuplicateMember) {
			logger.Ctx(ctx).Debugw("seed_member_exists", "member", sample.memberName)
			continue
		}
		if err != nil {
			return created, fmt.Errorf("seed member %s: %w", sample.memberName, err)
		}

		lines := make([]OrderLine, 0, len(sample.lines))
		for _, line := range sample.lines {
			item := &models.Item{
				Name:          line.itemName,
				Price:         models.NewMoneyFromInt(line.price),
				StockQuantity: line.stock,
			}
			if err := s.items.SaveItem(ctx, item); err != nil {
				return created, fmt.Errorf("seed item %s: %w", line.itemName, err)
			}
			lines = append(lines, OrderLine{ItemID: item.ID, Count: line.count})
		}

		order, err := s.orders.Order(ctx, member.ID, lines...)
		if err != nil {
			return created, fmt.Errorf("seed order of %s: %w", sample.memberName, err)
		}
		created++
		logger.Ctx(ctx).Infow("seed_order_created", "order_id", order.ID, "member", sample.memberName, "items", len(lines))
	}
	return created, nil
}
