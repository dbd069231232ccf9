package repository

import (
	"fmt"
	"time"

	"github.com/jpashop-api/internal/models"

	"github.com/shopspring/decimal"
)

// orderSummaryRow 订单摘要投影的单行结果
type orderSummaryRow struct {
	OrderID         uint      `gorm:"column:order_id"`
	OrderMemberID   uint      `gorm:"column:order_member_id"`
	OrderDeliveryID uint      `gorm:"column:order_delivery_id"`
	OrderDate       time.Time `gorm:"column:order_date"`
	OrderStatus     string    `gorm:"column:order_status"`

	MemberID   *uint   `gorm:"column:member_id"`
	MemberName *string `gorm:"column:member_name"`

	DeliveryID      *uint   `gorm:"column:delivery_id"`
	DeliveryCity    *string `gorm:"column:delivery_city"`
	DeliveryStreet  *string `gorm:"column:delivery_street"`
	DeliveryZipcode *string `gorm:"column:delivery_zipcode"`
}

func (row orderSummaryRow) toDto() (OrderSimpleQueryDto, error) {
	if row.MemberID == nil {
		return OrderSimpleQueryDto{}, fmt.Errorf("%w: member %d of order %d", ErrDanglingReference, row.OrderMemberID, row.OrderID)
	}
	if row.DeliveryID == nil {
		return OrderSimpleQueryDto{}, fmt.Errorf("%w: delivery %d of order %d", ErrDanglingReference, row.OrderDeliveryID, row.OrderID)
	}
	return OrderSimpleQueryDto{
		OrderID:     row.OrderID,
		Name:        derefString(row.MemberName),
		OrderDate:   row.OrderDate,
		OrderStatus: row.OrderStatus,
		Address:     models.NewAddress(derefString(row.DeliveryCity), derefString(row.DeliveryStreet), derefString(row.DeliveryZipcode)),
	}, nil
}

// orderItemRow 订单项投影的单行结果
type orderItemRow struct {
	OrderID         uint         `gorm:"column:order_id"`
	OrderItemID     uint         `gorm:"column:order_item_id"`
	OrderItemItemID uint         `gorm:"column:order_item_item_id"`
	OrderPrice      models.Money `gorm:"column:order_price"`
	Count           int          `gorm:"column:item_count"`

	ItemID   *uint   `gorm:"column:item_id"`
	ItemName *string `gorm:"column:item_name"`
}

func (row orderItemRow) toDto() (OrderItemQueryDto, error) {
	if row.ItemID == nil {
		return OrderItemQueryDto{}, fmt.Errorf("%w: item %d of order item %d", ErrDanglingReference, row.OrderItemItemID, row.OrderItemID)
	}
	return OrderItemQueryDto{
		OrderID:    row.OrderID,
		ItemName:   derefString(row.ItemName),
		OrderPrice: row.OrderPrice,
		Count:      row.Count,
	}, nil
}

// orderFlatRow 订单与订单项 LEFT JOIN 后的单行结果，无订单项时订单项列全部为 NULL
type orderFlatRow struct {
	OrderID         uint      `gorm:"column:order_id"`
	OrderMemberID   uint      `gorm:"column:order_member_id"`
	OrderDeliveryID uint      `gorm:"column:order_delivery_id"`
	OrderDate       time.Time `gorm:"column:order_date"`
	OrderStatus     string    `gorm:"column:order_status"`

	MemberID   *uint   `gorm:"column:member_id"`
	MemberName *string `gorm:"column:member_name"`

	DeliveryID      *uint   `gorm:"column:delivery_id"`
	DeliveryCity    *string `gorm:"column:delivery_city"`
	DeliveryStreet  *string `gorm:"column:delivery_street"`
	DeliveryZipcode *string `gorm:"column:delivery_zipcode"`

	OrderItemID     *uint               `gorm:"column:order_item_id"`
	OrderItemItemID *uint               `gorm:"column:order_item_item_id"`
	OrderPrice      decimal.NullDecimal `gorm:"column:order_price"`
	ItemCount       *int                `gorm:"column:item_count"`
	ItemID          *uint               `gorm:"column:item_id"`
	ItemName        *string             `gorm:"column:item_name"`
}

func (row orderFlatRow) summary() orderSummaryRow {
	return orderSummaryRow{
		OrderID:         row.OrderID,
		OrderMemberID:   row.OrderMemberID,
		OrderDeliveryID: row.OrderDeliveryID,
		OrderDate:       row.OrderDate,
		OrderStatus:     row.OrderStatus,
		MemberID:        row.MemberID,
		MemberName:      row.MemberName,
		DeliveryID:      row.DeliveryID,
		DeliveryCity:    row.DeliveryCity,
		DeliveryStreet:  row.DeliveryStreet,
		DeliveryZipcode: row.DeliveryZipcode,
	}
}

func (row orderFlatRow) toDto() (OrderFlatDto, error) {
	summary, err := row.summary().toDto()
	if err != nil {
		return OrderFlatDto{}, err
	}
	flat := OrderFlatDto{
		OrderID:     summary.OrderID,
		Name:        summary.Name,
		OrderDate:   summary.OrderDate,
		OrderStatus: summary.OrderStatus,
		Address:     summary.Address,
	}
	if row.OrderItemID == nil {
		return flat, nil
	}
	if row.ItemID == nil {
		return OrderFlatDto{}, fmt.Errorf("%w: item %d of order item %d", ErrDanglingReference, derefUint(row.OrderItemItemID), *row.OrderItemID)
	}
	flat.HasItem = true
	flat.ItemName = derefString(row.ItemName)
	flat.OrderPrice = models.NewMoneyFromDecimal(row.OrderPrice.Decimal)
	flat.Count = derefInt(row.ItemCount)
	return flat, nil
}

func summaryRowsToDtos(rows []orderSummaryRow) ([]OrderSimpleQueryDto, error) {
	result := make([]OrderSimpleQueryDto, 0, len(rows))
	for _, row := range rows {
		dto, err := row.toDto()
		if err != nil {
			return nil, err
		}
		result = append(result, dto)
	}
	return result, nil
}

func itemRowsToDtos(rows []orderItemRow) ([]OrderItemQueryDto, error) {
	result := make([]OrderItemQueryDto, 0, len(rows))
	for _, row := range rows {
		dto, err := row.toDto()
		if err != nil {
			return nil, err
		}
		result = append(result, dto)
	}
	return result, nil
}

func flatRowsToDtos(rows []orderFlatRow) ([]OrderFlatDto, error) {
	result := make([]OrderFlatDto, 0, len(rows))
	for _, row := range rows {
		dto, err := row.toDto()
		if err != nil {
			return nil, err
		}
		result = append(result, dto)
	}
	return result, nil
}

// withItems 将摘要扩展为详情，订单项初始为空切片
func withItems(summaries []OrderSimpleQueryDto) ([]OrderQueryDto, []uint) {
	orders := make([]OrderQueryDto, 0, len(summaries))
	ids := make([]uint, 0, len(summaries))
	for _, s := range summaries {
		orders = append(orders, OrderQueryDto{
			OrderID:     s.OrderID,
			Name:        s.Name,
			OrderDate:   s.OrderDate,
			OrderStatus: s.OrderStatus,
			Address:     s.Address,
			OrderItems:  make([]OrderItemQueryDto, 0),
		})
		ids = append(ids, s.OrderID)
	}
	return orders, ids
}

// attachItems 按订单 ID 分组挂载订单项，保持订单项原有顺序
func attachItems(orders []OrderQueryDto, items []OrderItemQueryDto) {
	index := make(map[uint]int, len(orders))
	for i := range orders {
		index[orders[i].OrderID] = i
	}
	for _, item := range items {
		pos, ok := index[item.OrderID]
		if !ok {
			continue
		}
		orders[pos].OrderItems = append(orders[pos].OrderItems, item)
	}
}
