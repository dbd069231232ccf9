package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jpashop-api/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderRepository 订单数据访问接口
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	FindOne(ctx context.Context, id uint) (*models.Order, error)
	FindAll(ctx context.Context, search OrderSearch) ([]models.Order, error)
	LoadMember(ctx context.Context, order *models.Order) error
	LoadDelivery(ctx context.Context, order *models.Order) error
	LoadOrderItems(ctx context.Context, order *models.Order) error
	LoadItem(ctx context.Context, orderItem *models.OrderItem) error
	FindAllWithMemberDelivery(ctx context.Context, offset, limit int) ([]models.Order, error)
	FindAllWithItem(ctx context.Context, maxResults int) ([]models.Order, error)
	LoadOrderItemsBatch(ctx context.Context, orders []models.Order, batchSize int) error
	UpdateStatus(ctx context.Context, id uint, status string) error
	WithTx(tx *gorm.DB) OrderRepository
}

// GormOrderRepository GORM 实现
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOrderRepository) WithTx(tx *gorm.DB) OrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

// Create 创建配送、订单与订单项
func (r *GormOrderRepository) Create(ctx context.Context, order *models.Order) error {
	if order == nil {
		return errors.New("order is nil")
	}
	db := r.db.WithContext(ctx)
	if order.Delivery != nil {
		if err := db.Create(order.Delivery).Error; err != nil {
			return err
		}
		order.DeliveryID = order.Delivery.ID
	}
	if order.Member != nil && order.MemberID == 0 {
		order.MemberID = order.Member.ID
	}
	if err := db.Omit(clause.Associations).Create(order).Error; err != nil {
		return err
	}
	if len(order.OrderItems) == 0 {
		return nil
	}
	for i := range order.OrderItems {
		order.OrderItems[i].OrderID = order.ID
		if order.OrderItems[i].Item != nil && order.OrderItems[i].ItemID == 0 {
			order.OrderItems[i].ItemID = order.OrderItems[i].Item.ID
		}
	}
	return db.Omit(clause.Associations).Create(&order.OrderItems).Error
}

// FindOne 根据 ID 获取订单（不加载关联）
func (r *GormOrderRepository) FindOne(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// FindAll 按条件查询订单，仅查询订单表本身，关联需另行加载
func (r *GormOrderRepository) FindAll(ctx context.Context, search OrderSearch) ([]models.Order, error) {
	query := r.db.WithContext(ctx).Model(&models.Order{})

	memberName := strings.TrimSpace(search.MemberName)
	if memberName != "" {
		query = query.Joins("JOIN members ON members.id = orders.member_id").
			Where("members.name "+likeOperator(r.db)+" ?", memberName)
	}
	status := strings.TrimSpace(search.OrderStatus)
	if status != "" {
		query = query.Where("orders.status = ?", status)
	}

	var orders []models.Order
	if err := query.Select("orders.*").
		Order("orders.id asc").
		Limit(normalizeMaxResults(search.MaxResults)).
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// LoadMember 单独加载订单会员（每个订单一次查询）
func (r *GormOrderRepository) LoadMember(ctx context.Context, order *models.Order) error {
	if order == nil || order.Member != nil {
		return nil
	}
	var member models.Member
	if err := r.db.WithContext(ctx).First(&member, order.MemberID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: member %d of order %d", ErrDanglingReference, order.MemberID, order.ID)
		}
		return err
	}
	order.Member = &member
	return nil
}

// LoadDelivery 单独加载订单配送
func (r *GormOrderRepository) LoadDelivery(ctx context.Context, order *models.Order) error {
	if order == nil || order.Delivery != nil {
		return nil
	}
	var delivery models.Delivery
	if err := r.db.WithContext(ctx).First(&delivery, order.DeliveryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: delivery %d of order %d", ErrDanglingReference, order.DeliveryID, order.ID)
		}
		return err
	}
	order.Delivery = &delivery
	return nil
}

// LoadOrderItems 单独加载订单项集合
func (r *GormOrderRepository) LoadOrderItems(ctx context.Context, order *models.Order) error {
	if order == nil || order.OrderItems != nil {
		return nil
	}
	items := make([]models.OrderItem, 0)
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", order.ID).
		Order("id asc").
		Find(&items).Error; err != nil {
		return err
	}
	order.OrderItems = items
	return nil
}

// LoadItem 单独加载订单项商品
func (r *GormOrderRepository) LoadItem(ctx context.Context, orderItem *models.OrderItem) error {
	if orderItem == nil || orderItem.Item != nil {
		return nil
	}
	var item models.Item
	if err := r.db.WithContext(ctx).First(&item, orderItem.ItemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: item %d of order item %d", ErrDanglingReference, orderItem.ItemID, orderItem.ID)
		}
		return err
	}
	orderItem.Item = &item
	return nil
}

// FindAllWithMemberDelivery 一次 join 查询订单及其会员、配送，支持分页
func (r *GormOrderRepository) FindAllWithMemberDelivery(ctx context.Context, offset, limit int) ([]models.Order, error) {
	query := r.db.WithContext(ctx).
		Joins("Member").
		Joins("Delivery").
		Order("orders.id asc")
	query = applyOffsetLimit(query, offset, limit)

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].Member == nil || orders[i].Member.ID == 0 {
			return nil, fmt.Errorf("%w: member %d of order %d", ErrDanglingReference, orders[i].MemberID, orders[i].ID)
		}
		if orders[i].Delivery == nil || orders[i].Delivery.ID == 0 {
			return nil, fmt.Errorf("%w: delivery %d of order %d", ErrDanglingReference, orders[i].DeliveryID, orders[i].ID)
		}
	}
	return orders, nil
}

// orderGraphRow 订单整图 join 的单行结果
type orderGraphRow struct {
	OrderID         uint      `gorm:"column:order_id"`
	OrderMemberID   uint      `gorm:"column:order_member_id"`
	OrderDeliveryID uint      `gorm:"column:order_delivery_id"`
	OrderDate       time.Time `gorm:"column:order_date"`
	OrderStatus     string    `gorm:"column:order_status"`

	MemberID      *uint   `gorm:"column:member_id"`
	MemberName    *string `gorm:"column:member_name"`
	MemberCity    *string `gorm:"column:member_city"`
	MemberStreet  *string `gorm:"column:member_street"`
	MemberZipcode *string `gorm:"column:member_zipcode"`

	DeliveryID      *uint   `gorm:"column:delivery_id"`
	DeliveryCity    *string `gorm:"column:delivery_city"`
	DeliveryStreet  *string `gorm:"column:delivery_street"`
	DeliveryZipcode *string `gorm:"column:delivery_zipcode"`
	DeliveryStatus  *string `gorm:"column:delivery_status"`

	OrderItemID     *uint               `gorm:"column:order_item_id"`
	OrderItemItemID *uint               `gorm:"column:order_item_item_id"`
	OrderPrice      decimal.NullDecimal `gorm:"column:order_price"`
	ItemCount       *int                `gorm:"column:item_count"`

	ItemID        *uint               `gorm:"column:item_id"`
	ItemName      *string             `gorm:"column:item_name"`
	ItemPrice     decimal.NullDecimal `gorm:"column:item_price"`
	StockQuantity *int                `gorm:"column:stock_quantity"`
}

var orderGraphSQL = `
SELECT o.id AS order_id, o.member_id AS order_member_id, o.delivery_id AS order_delivery_id,
       o.order_date AS order_date, o.status AS order_status,
       m.id AS member_id, m.name AS member_name,
       m.address_city AS member_city, m.address_street AS member_street, m.address_zipcode AS member_zipcode,
       d.id AS delivery_id, d.address_city AS delivery_city, d.address_street AS delivery_street,
       d.address_zipcode AS delivery_zipcode, d.status AS delivery_status,
       oi.id AS order_item_id, oi.item_id AS order_item_item_id, oi.order_price AS order_price, oi.count AS item_count,
       i.id AS item_id, i.name AS item_name, i.price AS item_price, i.stock_quantity AS stock_quantity
` + fmt.Sprintf(cappedOrdersFrom, "?") + `
LEFT JOIN members m ON m.id = o.member_id
LEFT JOIN deliveries d ON d.id = o.delivery_id
LEFT JOIN order_items oi ON oi.order_id = o.id
LEFT JOIN items i ON i.id = oi.item_id
ORDER BY o.id ASC, oi.id ASC`

// FindAllWithItem 一条 join 语句取回订单整图；一对多 join 导致订单行重复，在内存中按订单 ID 去重。
// 该方式无法按 offset 分页，maxResults 按订单数截断。
func (r *GormOrderRepository) FindAllWithItem(ctx context.Context, maxResults int) ([]models.Order, error) {
	var rows []orderGraphRow
	if err := r.db.WithContext(ctx).Raw(orderGraphSQL, normalizeMaxResults(maxResults)).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return assembleOrderGraph(rows)
}

func assembleOrderGraph(rows []orderGraphRow) ([]models.Order, error) {
	orders := make([]models.Order, 0)
	index := make(map[uint]int)
	for _, row := range rows {
		pos, ok := index[row.OrderID]
		if !ok {
			if row.MemberID == nil {
				return nil, fmt.Errorf("%w: member %d of order %d", ErrDanglingReference, row.OrderMemberID, row.OrderID)
			}
			if row.DeliveryID == nil {
				return nil, fmt.Errorf("%w: delivery %d of order %d", ErrDanglingReference, row.OrderDeliveryID, row.OrderID)
			}
			orders = append(orders, models.Order{
				ID:         row.OrderID,
				MemberID:   row.OrderMemberID,
				DeliveryID: row.OrderDeliveryID,
				OrderDate:  row.OrderDate,
				Status:     row.OrderStatus,
				Member: &models.Member{
					ID:      *row.MemberID,
					Name:    derefString(row.MemberName),
					Address: models.NewAddress(derefString(row.MemberCity), derefString(row.MemberStreet), derefString(row.MemberZipcode)),
				},
				Delivery: &models.Delivery{
					ID:      *row.DeliveryID,
					Address: models.NewAddress(derefString(row.DeliveryCity), derefString(row.DeliveryStreet), derefString(row.DeliveryZipcode)),
					Status:  derefString(row.DeliveryStatus),
				},
				OrderItems: make([]models.OrderItem, 0),
			})
			pos = len(orders) - 1
			index[row.OrderID] = pos
		}
		if row.OrderItemID == nil {
			continue
		}
		if row.ItemID == nil {
			return nil, fmt.Errorf("%w: item %d of order item %d", ErrDanglingReference, derefUint(row.OrderItemItemID), *row.OrderItemID)
		}
		orders[pos].OrderItems = append(orders[pos].OrderItems, models.OrderItem{
			ID:         *row.OrderItemID,
			OrderID:    row.OrderID,
			ItemID:     *row.ItemID,
			OrderPrice: models.NewMoneyFromDecimal(row.OrderPrice.Decimal),
			Count:      derefInt(row.ItemCount),
			Item: &models.Item{
				ID:            *row.ItemID,
				Name:          derefString(row.ItemName),
				Price:         models.NewMoneyFromDecimal(row.ItemPrice.Decimal),
				StockQuantity: derefInt(row.StockQuantity),
			},
		})
	}
	return orders, nil
}

// LoadOrderItemsBatch 按批次用 IN 查询加载订单项与商品，查询次数约为 2 * ceil(N / batchSize)
func (r *GormOrderRepository) LoadOrderItemsBatch(ctx context.Context, orders []models.Order, batchSize int) error {
	if len(orders) == 0 {
		return nil
	}
	db := r.db.WithContext(ctx)

	orderIDs := make([]uint, 0, len(orders))
	for i := range orders {
		orderIDs = append(orderIDs, orders[i].ID)
	}
	itemsByOrder := make(map[uint][]models.OrderItem, len(orders))
	itemIDs := make([]uint, 0)
	for _, chunk := range chunkIDs(uniqueIDs(orderIDs), batchSize) {
		var batch []models.OrderItem
		if err := db.Where("order_id IN ?", chunk).Order("id asc").Find(&batch).Error; err != nil {
			return err
		}
		for _, oi := range batch {
			itemsByOrder[oi.OrderID] = append(itemsByOrder[oi.OrderID], oi)
			itemIDs = append(itemIDs, oi.ItemID)
		}
	}

	itemByID := make(map[uint]*models.Item)
	for _, chunk := range chunkIDs(uniqueIDs(itemIDs), batchSize) {
		var batch []models.Item
		if err := db.Where("id IN ?", chunk).Find(&batch).Error; err != nil {
			return err
		}
		for i := range batch {
			item := batch[i]
			itemByID[item.ID] = &item
		}
	}

	for i := range orders {
		list := itemsByOrder[orders[i].ID]
		if list == nil {
			list = make([]models.OrderItem, 0)
		}
		for j := range list {
			item, ok := itemByID[list[j].ItemID]
			if !ok {
				return fmt.Errorf("%w: item %d of order item %d", ErrDanglingReference, list[j].ItemID, list[j].ID)
			}
			list[j].Item = item
		}
		orders[i].OrderItems = list
	}
	return nil
}

// UpdateStatus 更新订单状态
func (r *GormOrderRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	return r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Update("status", status).Error
}

func derefString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func derefInt(value *int) int {
	if value == nil {
		return 0
	}
	return *value
}

func derefUint(value *uint) uint {
	if value == nil {
		return 0
	}
	return *value
}
