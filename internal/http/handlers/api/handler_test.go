package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jpashop-api/internal/config"
	"github.com/jpashop-api/internal/constants"
	"github.com/jpashop-api/internal/http/response"
	"github.com/jpashop-api/internal/models"
	"github.com/jpashop-api/internal/provider"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var handlerSeededAt = time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)

type orderItemBody struct {
	ItemName   string `json:"itemName"`
	OrderPrice string `json:"orderPrice"`
	Count      int    `json:"count"`
}

type orderBody struct {
	OrderID     uint            `json:"orderId"`
	Name        string          `json:"name"`
	OrderDate   time.Time       `json:"orderDate"`
	OrderStatus string          `json:"orderStatus"`
	Address     models.Address  `json:"address"`
	OrderItems  []orderItemBody `json:"orderItems"`
}

func setupHandlerTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open("file:api_"+name+"?mode=memory&cache=shared"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.MigrateAll(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	cfg := config.Default()
	cfg.Fetch.MaxResults = 50
	container := provider.NewContainerWithDB(cfg, db)
	if _, err := container.SampleSeeder.Seed(context.Background()); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	h := New(container)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(response.RequestIDKey, "req-test")
		c.Next()
	})
	r.GET("/api/v1/simple-orders", h.GetSimpleOrdersV1)
	r.GET("/api/v2/simple-orders", h.GetSimpleOrdersV2)
	r.GET("/api/v3/simple-orders", h.GetSimpleOrdersV3)
	r.GET("/api/v4/simple-orders", h.GetSimpleOrdersV4)
	r.GET("/api/v1/orders", h.GetOrdersV1)
	r.GET("/api/v2/orders", h.GetOrdersV2)
	r.GET("/api/v3/orders", h.GetOrdersV3)
	r.GET("/api/v3.1/orders", h.GetOrdersV3Page)
	r.GET("/api/v4/orders", h.GetOrdersV4)
	r.GET("/api/v5/orders", h.GetOrdersV5)
	r.GET("/api/v6/orders", h.GetOrdersV6)
	return r, db
}

func doGet(t *testing.T, r *gin.Engine, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func decodeOrders(t *testing.T, w *httptest.ResponseRecorder) []orderBody {
	t.Helper()
	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d body=%s", w.Code, w.Body.String())
	}
	var orders []orderBody
	if err := json.Unmarshal(w.Body.Bytes(), &orders); err != nil {
		t.Fatalf("unmarshal orders failed: %v body=%s", err, w.Body.String())
	}
	return orders
}

func assertSameOrders(t *testing.T, label string, want, got []orderBody) {
	t.Helper()
	if len(want) != len(got) {
		t.Fatalf("%s: order count want %d got %d", label, len(want), len(got))
	}
	for i := range want {
		w, g := want[i], got[i]
		if w.OrderID != g.OrderID || w.Name != g.Name || w.OrderStatus != g.OrderStatus || w.Address != g.Address {
			t.Fatalf("%s: order %d mismatch want %+v got %+v", label, i, w, g)
		}
		if !w.OrderDate.Equal(g.OrderDate) {
			t.Fatalf("%s: order %d date want %s got %s", label, i, w.OrderDate, g.OrderDate)
		}
		if len(w.OrderItems) != len(g.OrderItems) {
			t.Fatalf("%s: order %d item count want %d got %d", label, i, len(w.OrderItems), len(g.OrderItems))
		}
		for j := range w.OrderItems {
			if w.OrderItems[j] != g.OrderItems[j] {
				t.Fatalf("%s: order %d item %d want %+v got %+v", label, i, j, w.OrderItems[j], g.OrderItems[j])
			}
		}
	}
}

func TestGetSimpleOrdersShape(t *testing.T) {
	r, _ := setupHandlerTest(t)

	base := decodeOrders(t, doGet(t, r, "/api/v2/simple-orders"))
	if len(base) != 2 {
		t.Fatalf("simple orders want 2 got %d", len(base))
	}
	if base[0].Name != "userA" || base[0].Address.City != "Seoul" || base[0].OrderStatus != constants.OrderStatusOrder {
		t.Fatalf("unexpected first order: %+v", base[0])
	}
	if base[1].Name != "userB" || base[1].Address.Zipcode != "2222" {
		t.Fatalf("unexpected second order: %+v", base[1])
	}
	for _, path := range []string{"/api/v3/simple-orders", "/api/v4/simple-orders"} {
		assertSameOrders(t, path, base, decodeOrders(t, doGet(t, r, path)))
	}

	w := doGet(t, r, "/api/v2/simple-orders")
	if strings.Contains(w.Body.String(), "orderItems") {
		t.Fatalf("simple orders should not contain orderItems: %s", w.Body.String())
	}
}

func TestGetSimpleOrdersV1ReturnsEntities(t *testing.T) {
	r, _ := setupHandlerTest(t)

	w := doGet(t, r, "/api/v1/simple-orders")
	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	var orders []models.Order
	if err := json.Unmarshal(w.Body.Bytes(), &orders); err != nil {
		t.Fatalf("unmarshal entities failed: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("entities want 2 got %d", len(orders))
	}
	if orders[0].Member == nil || orders[0].Member.Name != "userA" {
		t.Fatalf("member should be loaded: %+v", orders[0].Member)
	}
	if orders[0].Delivery == nil || orders[0].Delivery.Address.City != "Seoul" {
		t.Fatalf("delivery should be loaded: %+v", orders[0].Delivery)
	}
}

func TestGetOrdersVariantsAgree(t *testing.T) {
	r, _ := setupHandlerTest(t)

	base := decodeOrders(t, doGet(t, r, "/api/v2/orders"))
	if len(base) != 2 {
		t.Fatalf("orders want 2 got %d", len(base))
	}
	first := base[0]
	if len(first.OrderItems) != 2 || first.OrderItems[0].ItemName != "JPA1 BOOK" || first.OrderItems[1].Count != 2 {
		t.Fatalf("unexpected items of first order: %+v", first.OrderItems)
	}
	if first.OrderItems[1].OrderPrice != "20000.00" {
		t.Fatalf("order price want 20000.00 got %s", first.OrderItems[1].OrderPrice)
	}

	paths := []string{
		"/api/v3/orders",
		"/api/v3.1/orders",
		"/api/v4/orders",
		"/api/v5/orders",
		"/api/v6/orders",
	}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			assertSameOrders(t, path, base, decodeOrders(t, doGet(t, r, path)))
		})
	}
}

func TestGetOrdersV1IncludesItems(t *testing.T) {
	r, _ := setupHandlerTest(t)

	w := doGet(t, r, "/api/v1/orders")
	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	var orders []models.Order
	if err := json.Unmarshal(w.Body.Bytes(), &orders); err != nil {
		t.Fatalf("unmarshal entities failed: %v", err)
	}
	if len(orders) != 2 || len(orders[1].OrderItems) != 2 {
		t.Fatalf("unexpected entities: %+v", orders)
	}
	if orders[1].OrderItems[0].Item == nil || orders[1].OrderItems[0].Item.Name != "SPRING1 BOOK" {
		t.Fatalf("item should be loaded: %+v", orders[1].OrderItems[0])
	}
}

func TestGetOrdersV3PageSlices(t *testing.T) {
	r, _ := setupHandlerTest(t)

	full := decodeOrders(t, doGet(t, r, "/api/v2/orders"))
	page := decodeOrders(t, doGet(t, r, "/api/v3.1/orders?offset=1&limit=1"))
	assertSameOrders(t, "offset=1&limit=1", full[1:2], page)

	empty := doGet(t, r, "/api/v3.1/orders?offset=10&limit=5")
	if empty.Code != http.StatusOK || strings.TrimSpace(empty.Body.String()) != "[]" {
		t.Fatalf("offset beyond result should be [], got %d %s", empty.Code, empty.Body.String())
	}

	zero := doGet(t, r, "/api/v3.1/orders?limit=0")
	if zero.Code != http.StatusOK || strings.TrimSpace(zero.Body.String()) != "[]" {
		t.Fatalf("limit=0 should be [], got %d %s", zero.Code, zero.Body.String())
	}
}

func TestGetOrdersV3PageRejectsInvalidParams(t *testing.T) {
	r, _ := setupHandlerTest(t)

	cases := []string{
		"/api/v3.1/orders?offset=abc",
		"/api/v3.1/orders?limit=1.5",
		"/api/v3.1/orders?offset=-1",
		"/api/v3.1/orders?limit=-3",
	}
	for _, target := range cases {
		t.Run(target, func(t *testing.T) {
			w := doGet(t, r, target)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status want 400 got %d", w.Code)
			}
			var resp struct {
				StatusCode int    `json:"status_code"`
				Msg        string `json:"msg"`
				Data       struct {
					RequestID string `json:"request_id"`
				} `json:"data"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("unmarshal error body failed: %v", err)
			}
			if resp.StatusCode != response.CodeBadRequest || resp.Data.RequestID != "req-test" {
				t.Fatalf("unexpected error envelope: %+v", resp)
			}
		})
	}
}

func TestGetOrdersEmptyOrderHasEmptyItems(t *testing.T) {
	r, db := setupHandlerTest(t)

	var member models.Member
	if err := db.Where("name = ?", "userA").First(&member).Error; err != nil {
		t.Fatalf("load member failed: %v", err)
	}
	delivery := models.Delivery{Address: member.Address, Status: constants.DeliveryStatusReady}
	if err := db.Create(&delivery).Error; err != nil {
		t.Fatalf("create delivery failed: %v", err)
	}
	order := models.Order{
		MemberID:   member.ID,
		DeliveryID: delivery.ID,
		OrderDate:  handlerSeededAt.Add(time.Hour),
		Status:     constants.OrderStatusOrder,
	}
	if err := db.Omit(clause.Associations).Create(&order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	for _, path := range []string{"/api/v2/orders", "/api/v3/orders", "/api/v3.1/orders", "/api/v4/orders", "/api/v5/orders", "/api/v6/orders"} {
		t.Run(path, func(t *testing.T) {
			w := doGet(t, r, path)
			if !strings.Contains(w.Body.String(), `"orderItems":[]`) {
				t.Fatalf("empty order should render orderItems as [], got %s", w.Body.String())
			}
			orders := decodeOrders(t, w)
			if len(orders) != 3 || orders[2].OrderID != order.ID {
				t.Fatalf("empty order should be listed last, got %+v", orders)
			}
		})
	}
}

func TestGetOrdersGraphIncomplete(t *testing.T) {
	r, db := setupHandlerTest(t)

	if err := db.Exec("DELETE FROM members WHERE name = ?", "userB").Error; err != nil {
		t.Fatalf("delete member failed: %v", err)
	}

	w := doGet(t, r, "/api/v2/orders")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status want 500 got %d body=%s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"status_code":500`) {
		t.Fatalf("expected error envelope, got %s", w.Body.String())
	}
}
