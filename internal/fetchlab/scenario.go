package fetchlab

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jpashop-api/internal/models"
	"github.com/jpashop-api/internal/service"
)

const (
	TypeSimple = "simple-orders"
	TypeDetail = "orders"
)

// Scenario 一种订单列表加载策略
type Scenario struct {
	Type        string
	Name        string
	Path        string
	Description string
	Run         func(ctx context.Context) ([]string, int, error)
}

// ScenarioResult 单个策略的执行结果
type ScenarioResult struct {
	Type        string
	Name        string
	Path        string
	Description string
	Queries     int64
	Orders      int
	Items       int
	Duration    time.Duration
	Matches     bool
	Err         error
}

// Lab 策略对比实验
type Lab struct {
	queries *service.OrderQueryService
	counter *models.QueryCounter
}

// NewLab 创建实验，counter 需已注册到查询所用的 gorm 连接
func NewLab(queries *service.OrderQueryService, counter *models.QueryCounter) *Lab {
	return &Lab{queries: queries, counter: counter}
}

// Scenarios 全部策略，每组第一个 DTO 策略（v2）作为对比基准
func (l *Lab) Scenarios() []Scenario {
	q := l.queries
	return []Scenario{
		{Type: TypeSimple, Name: "v1", Path: "/api/v1/simple-orders", Description: "实体逐行加载会员与配送", Run: func(ctx context.Context) ([]string, int, error) {
			orders, err := q.SimpleOrdersV1(ctx)
			return fingerprintEntities(orders, false), 0, err
		}},
		{Type: TypeSimple, Name: "v2", Path: "/api/v2/simple-orders", Description: "实体转 DTO（1 + 2N）", Run: func(ctx context.Context) ([]string, int, error) {
			orders, err := q.SimpleOrdersV2(ctx)
			return fingerprintSimple(orders), 0, err
		}},
		{Type: TypeSimple, Name: "v3", Path: "/api/v3/simple-orders", Description: "fetch join 会员与配送", Run: func(ctx context.Context) ([]string, int, error) {
			orders, err := q.SimpleOrdersV3(ctx)
			return fingerprintSimple(orders), 0, err
		}},
		{Type: TypeSimple, Name: "v4", Path: "/api/v4/simple-orders", Description: "直接查询 DTO", Run: func(ctx context.Context) ([]string, int, error) {
			orders, err := q.SimpleOrdersV4(ctx)
			return fingerprintSimple(orders), 0, err
		}},
		{Type: TypeDetail, Name: "v1", Path: "/api/v1/orders", Description: "实体逐行加载全部关联", Run: func(ctx context.Context) ([]string, int, error) {
			orders, err := q.OrdersV1(ctx)
			return fingerprintEntities(orders, true), countEntityItems(orders), err
		}},
		{Type: TypeDetail, Name: "v2", Path: "/api/v2/orders", Description: "实体转 DTO，关联逐行加载", Run: func(ctx context.Context) ([]string, int, error) {
			orders, err := q.OrdersV2(ctx)
			return fingerprintDetail(orders), countDtoItems(orders), err
		}},
		{Type: TypeDetail, Name: "v3", Path: "/api/v3/orders", Description: "单条 join 取回整图，内存去重", Run: func(ctx context.Context) ([]string, int, error) {
			orders, err := q.OrdersV3(ctx)
			return fingerprintDetail(orders), countDtoItems(orders), err
		}},
		{Type: TypeDetail, Name: "v3.1", Path: "/api/v3.1/orders", Description: "to-one join 分页，订单项批量 IN", Run: func(ctx context.Context) ([]string, int, error) {
			orders, err := q.OrdersV3Page(ctx, 0, q.MaxResults())
			return fingerprintDetail(orders), countDtoItems(orders), err
		}},
		{Type: TypeDetail, Name: "v4", Path: "/api/v4/orders", Description: "DTO 投影，订单项逐单查询（1 + N）", Run: func(ctx context.Context) ([]string, int, error) {
			orders, err := q.OrdersV4(ctx)
			return fingerprintDetail(orders), countDtoItems(orders), err
		}},
		{Type: TypeDetail, Name: "v5", Path: "/api/v5/orders", Description: "DTO 投影，订单项单次 IN", Run: func(ctx context.Context) ([]string, int, error) {
			orders, err := q.OrdersV5(ctx)
			return fingerprintDetail(orders), countDtoItems(orders), err
		}},
		{Type: TypeDetail, Name: "v6", Path: "/api/v6/orders", Description: "单条展开查询，内存分组", Run: func(ctx context.Context) ([]string, int, error) {
			orders, err := q.OrdersV6(ctx)
			return fingerprintDetail(orders), countDtoItems(orders), err
		}},
	}
}

// RunScenarios 依次执行全部策略，统计语句数并与同组 v2 结果比对
func (l *Lab) RunScenarios(ctx context.Context) []ScenarioResult {
	scenarios := l.Scenarios()
	results := make([]ScenarioResult, 0, len(scenarios))
	prints := make([][]string, 0, len(scenarios))
	baselines := make(map[string][]string, 2)

	for _, sc := range scenarios {
		res := ScenarioResult{Type: sc.Type, Name: sc.Name, Path: sc.Path, Description: sc.Description}
		l.counter.Reset()
		start := time.Now()
		fp, items, err := sc.Run(ctx)
		res.Duration = time.Since(start)
		res.Queries = l.counter.Reset()
		res.Err = err
		res.Orders = len(fp)
		res.Items = items
		if err == nil && sc.Name == "v2" {
			baselines[sc.Type] = fp
		}
		results = append(results, res)
		prints = append(prints, fp)
	}

	for i := range results {
		if results[i].Err != nil {
			continue
		}
		results[i].Matches = sameFingerprints(baselines[results[i].Type], prints[i])
	}
	return results
}

func sameFingerprints(want, got []string) bool {
	if want == nil || len(want) != len(got) {
		return false
	}
	for i := range want {
		if want[i] != got[i] {
			return false
		}
	}
	return true
}

func fingerprintOrder(id uint, name string, date time.Time, status string, address models.Address) string {
	return fmt.Sprintf("%d|%s|%s|%s|%s/%s/%s",
		id, name, date.UTC().Format(time.RFC3339Nano), status,
		address.City, address.Street, address.Zipcode)
}

func fingerprintLine(itemName string, price models.Money, count int) string {
	return fmt.Sprintf("%s:%s:%d", itemName, price.String(), count)
}

func fingerprintSimple(orders []service.SimpleOrderDto) []string {
	prints := make([]string, 0, len(orders))
	for _, o := range orders {
		prints = append(prints, fingerprintOrder(o.OrderID, o.Name, o.OrderDate, o.OrderStatus, o.Address))
	}
	return prints
}

func fingerprintDetail(orders []service.OrderDto) []string {
	prints := make([]string, 0, len(orders))
	for _, o := range orders {
		lines := make([]string, 0, len(o.OrderItems))
		for _, item := range o.OrderItems {
			lines = append(lines, fingerprintLine(item.ItemName, item.OrderPrice, item.Count))
		}
		prints = append(prints, fingerprintOrder(o.OrderID, o.Name, o.OrderDate, o.OrderStatus, o.Address)+"#"+strings.Join(lines, ";"))
	}
	return prints
}

func fingerprintEntities(orders []models.Order, withItems bool) []string {
	prints := make([]string, 0, len(orders))
	for _, o := range orders {
		var name string
		var address models.Address
		if o.Member != nil {
			name = o.Member.Name
		}
		if o.Delivery != nil {
			address = o.Delivery.Address
		}
		line := fingerprintOrder(o.ID, name, o.OrderDate, o.Status, address)
		if withItems {
			lines := make([]string, 0, len(o.OrderItems))
			for _, oi := range o.OrderItems {
				itemName := ""
				if oi.Item != nil {
					itemName = oi.Item.Name
				}
				lines = append(lines, fingerprintLine(itemName, oi.OrderPrice, oi.Count))
			}
			line += "#" + strings.Join(lines, ";")
		}
		prints = append(prints, line)
	}
	return prints
}

func countDtoItems(orders []service.OrderDto) int {
	total := 0
	for _, o := range orders {
		total += len(o.OrderItems)
	}
	return total
}

func countEntityItems(orders []models.Order) int {
	total := 0
	for _, o := range orders {
		total += len(o.OrderItems)
	}
	return total
}
