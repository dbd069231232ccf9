package models

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func openModelsTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:models_"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := MigrateAll(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestItemStock(t *testing.T) {
	item := Item{Name: "JPA1 BOOK", StockQuantity: 3}

	if err := item.RemoveStock(2); err != nil {
		t.Fatalf("remove stock failed: %v", err)
	}
	if item.StockQuantity != 1 {
		t.Fatalf("stock want 1 got %d", item.StockQuantity)
	}
	if err := item.RemoveStock(2); !errors.Is(err, ErrNotEnoughStock) {
		t.Fatalf("expected ErrNotEnoughStock, got %v", err)
	}
	if item.StockQuantity != 1 {
		t.Fatalf("stock should stay 1 after failed removal, got %d", item.StockQuantity)
	}

	item.AddStock(4)
	item.AddStock(-1)
	if item.StockQuantity != 5 {
		t.Fatalf("stock want 5 got %d", item.StockQuantity)
	}
}

func TestOrderTotalPrice(t *testing.T) {
	order := Order{OrderItems: []OrderItem{
		{OrderPrice: NewMoneyFromInt(10000), Count: 1},
		{OrderPrice: NewMoneyFromInt(20000), Count: 2},
	}}
	if got := order.TotalPrice().String(); got != "50000.00" {
		t.Fatalf("total want 50000.00 got %s", got)
	}
	if got := (Order{}).TotalPrice().String(); got != "0.00" {
		t.Fatalf("empty total want 0.00 got %s", got)
	}
}

func TestMoneyJSON(t *testing.T) {
	m, err := ParseMoney("12.345")
	if err != nil {
		t.Fatalf("parse money failed: %v", err)
	}
	raw, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal money failed: %v", err)
	}
	if string(raw) != `"12.35"` {
		t.Fatalf("money json want \"12.35\" got %s", raw)
	}

	var fromNumber Money
	if err := json.Unmarshal([]byte(`20000`), &fromNumber); err != nil {
		t.Fatalf("unmarshal number failed: %v", err)
	}
	if fromNumber.String() != "20000.00" {
		t.Fatalf("money want 20000.00 got %s", fromNumber.String())
	}
	if _, err := ParseMoney("abc"); err == nil {
		t.Fatalf("invalid money should fail")
	}
}

func TestNormalizeDriver(t *testing.T) {
	cases := map[string]string{
		"":         "sqlite",
		"SQLite3":  "sqlite",
		"postgres": "postgres",
		" MySQL ":  "mysql",
		"oracle":   "oracle",
	}
	for input, want := range cases {
		if got := NormalizeDriver(input); got != want {
			t.Fatalf("NormalizeDriver(%q) want %s got %s", input, want, got)
		}
	}
	if _, err := OpenDialector("oracle", "dsn"); err == nil {
		t.Fatalf("unsupported driver should fail")
	}
}

func TestQueryCounterCountsReads(t *testing.T) {
	db := openModelsTestDB(t)
	counter := NewQueryCounter()
	if err := db.Use(counter); err != nil {
		t.Fatalf("register counter failed: %v", err)
	}

	if err := db.Create(&Member{Name: "counter", Address: NewAddress("Seoul", "1", "1111")}).Error; err != nil {
		t.Fatalf("create member failed: %v", err)
	}
	if got := counter.Count(); got != 0 {
		t.Fatalf("writes should not be counted, got %d", got)
	}

	var members []Member
	db.Find(&members)
	var n int64
	db.Model(&Member{}).Count(&n)
	var names []string
	db.Raw("SELECT name FROM members").Scan(&names)

	if got := counter.Reset(); got != 3 {
		t.Fatalf("reads want 3 got %d", got)
	}
	if got := counter.Count(); got != 0 {
		t.Fatalf("count after reset want 0 got %d", got)
	}
	var nilCounter *QueryCounter
	if nilCounter.Count() != 0 || nilCounter.Reset() != 0 {
		t.Fatalf("nil counter should report zero")
	}
}
