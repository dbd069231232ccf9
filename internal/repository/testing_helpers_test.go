package repository

import (
	"strings"
	"testing"
	"time"

	"github.com/jpashop-api/internal/constants"
	"github.com/jpashop-api/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var fixtureOrderDate = time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)

// setupOrderRepositoryTest 每个测试独立的内存库，注册查询计数插件并写入示例数据
func setupOrderRepositoryTest(t *testing.T) (*gorm.DB, *models.QueryCounter) {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
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
	seedFixtureOrders(t, db)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	counter.Reset()
	return db, counter
}

// createEmptyOrder 创建一个没有订单项的订单
func createEmptyOrder(t *testing.T, db *gorm.DB, memberName string) *models.Order {
	t.Helper()
	var member models.Member
	if err := db.Where("name = ?", memberName).First(&member).Error; err != nil {
		t.Fatalf("load member %s failed: %v", memberName, err)
	}
	delivery := models.Delivery{Address: member.Address, Status: constants.DeliveryStatusReady}
	if err := db.Create(&delivery).Error; err != nil {
		t.Fatalf("create delivery failed: %v", err)
	}
	order := models.Order{
		MemberID:   member.ID,
		DeliveryID: delivery.ID,
		OrderDate:  fixtureOrderDate.Add(time.Hour),
		Status:     constants.OrderStatusOrder,
	}
	if err := db.Omit(clause.Associations).Create(&order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return &order
}

type fixtureLine struct {
	name  string
	price int64
	stock int
	count int
}

// seedFixtureOrders 直接写表生成两个会员各一单：userA 两本 JPA，userB 两本 SPRING
func seedFixtureOrders(t *testing.T, db *gorm.DB) {
	t.Helper()
	fixtures := []struct {
		member  string
		address models.Address
		lines   []fixtureLine
	}{
		{member: "userA", address: models.NewAddress("Seoul", "1", "1111"), lines: []fixtureLine{
			{name: "JPA1 BOOK", price: 10000, stock: 100, count: 1},
			{name: "JPA2 BOOK", price: 20000, stock: 100, count: 2},
		}},
		{member: "userB", address: models.NewAddress("Jinju", "2", "2222"), lines: []fixtureLine{
			{name: "SPRING1 BOOK", price: 20000, stock: 200, count: 3},
			{name: "SPRING2 BOOK", price: 40000, stock: 300, count: 4},
		}},
	}
	for _, f := range fixtures {
		member := models.Member{Name: f.member, Address: f.address}
		if err := db.Omit(clause.Associations).Create(&member).Error; err != nil {
			t.Fatalf("create member failed: %v", err)
		}
		delivery := models.Delivery{Address: member.Address, Status: constants.DeliveryStatusReady}
		if err := db.Create(&delivery).Error; err != nil {
			t.Fatalf("create delivery failed: %v", err)
		}
		order := models.Order{MemberID: member.ID, DeliveryID: delivery.ID, OrderDate: fixtureOrderDate, Status: constants.OrderStatusOrder}
		if err := db.Omit(clause.Associations).Create(&order).Error; err != nil {
			t.Fatalf("create order failed: %v", err)
		}
		for _, line := range f.lines {
			item := models.Item{Name: line.name, Price: models.NewMoneyFromInt(line.price), StockQuantity: line.stock - line.count}
			if err := db.Create(&item).Error; err != nil {
				t.Fatalf("create item failed: %v", err)
			}
			orderItem := models.OrderItem{OrderID: order.ID, ItemID: item.ID, OrderPrice: item.Price, Count: line.count}
			if err := db.Omit(clause.Associations).Create(&orderItem).Error; err != nil {
				t.Fatalf("create order item failed: %v", err)
			}
		}
	}
}
