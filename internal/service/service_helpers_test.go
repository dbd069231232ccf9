package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jpashop-api/internal/models"
	"github.com/jpashop-api/internal/queue"
	"github.com/jpashop-api/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

var seededAt = time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)

type notifierStub struct {
	mu       sync.Mutex
	payloads []queue.OrderStatusPayload
	err      error
}

func (n *notifierStub) EnqueueOrderStatus(payload queue.OrderStatusPayload, _ ...asynq.Option) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.payloads = append(n.payloads, payload)
	return n.err
}

type serviceFixture struct {
	db       *gorm.DB
	counter  *models.QueryCounter
	notifier *notifierStub
	members  *MemberService
	items    *ItemService
	orders   *OrderService
	queries  *OrderQueryService
}

func setupServiceTest(t *testing.T, seed bool) *serviceFixture {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open("file:svc_"+name+"?mode=memory&cache=shared"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.MigrateAll(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	counter := models.NewQueryCounter()
	if err := db.Use(counter); err != nil {
		t.Fatalf("register query counter failed: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	orderRepo := repository.NewOrderRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	itemRepo := repository.NewItemRepository(db)
	notifier := &notifierStub{}
	fx := &serviceFixture{
		db:       db,
		counter:  counter,
		notifier: notifier,
		members:  NewMemberService(memberRepo),
		items:    NewItemService(itemRepo),
		orders:   NewOrderService(db, orderRepo, memberRepo, itemRepo, notifier),
		queries:  NewOrderQueryService(orderRepo, repository.NewOrderQueryRepository(db), 100, 1000),
	}
	if seed {
		fx.orders.now = func() time.Time { return seededAt }
		if _, err := NewSampleSeeder(fx.members, fx.items, fx.orders).Seed(context.Background()); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
		notifier.payloads = nil
	}
	fx.orders.now = func() time.Time { return seededAt.Add(time.Hour) }
	counter.Reset()
	return fx
}

// loadItem 绕过服务直接读取商品当前状态
func loadItem(t *testing.T, fx *serviceFixture, id uint) models.Item {
	t.Helper()
	var item models.Item
	if err := fx.db.First(&item, id).Error; err != nil {
		t.Fatalf("load item %d failed: %v", id, err)
	}
	return item
}
