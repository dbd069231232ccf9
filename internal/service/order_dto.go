package service

import (
	"time"

	"github.com/jpashop-api/internal/models"
	"github.com/jpashop-api/internal/repository"
)

// SimpleOrderDto 订单摘要
type SimpleOrderDto struct {
	OrderID     uint           `json:"orderId"`
	Name        string         `json:"name"`
	OrderDate   time.Time      `json:"orderDate"`
	OrderStatus string         `json:"orderStatus"`
	Address     models.Address `json:"address"` // 配送地址
}

// OrderDto 订单详情
type OrderDto struct {
	OrderID     uint           `json:"orderId"`
	Name        string         `json:"name"`
	OrderDate   time.Time      `json:"orderDate"`
	OrderStatus string         `json:"orderStatus"`
	Address     models.Address `json:"address"`
	OrderItems  []OrderItemDto `json:"orderItems"`
}

// OrderItemDto 订单项
type OrderItemDto struct {
	ItemName   string       `json:"itemName"`
	OrderPrice models.Money `json:"orderPrice"`
	Count      int          `json:"count"`
}

// OrderFlatDto 展开行
type OrderFlatDto = repository.OrderFlatDto

// newSimpleOrderDto 实体转摘要，要求会员与配送已加载
func newSimpleOrderDto(order *models.Order) SimpleOrderDto {
	dto := SimpleOrderDto{
		OrderID:     order.ID,
		OrderDate:   order.OrderDate,
		OrderStatus: order.Status,
	}
	if order.Member != nil {
		dto.Name = order.Member.Name
	}
	if order.Delivery != nil {
		dto.Address = order.Delivery.Address
	}
	return dto
}

// newOrderDto 实体转详情，要求订单项与商品已加载
func newOrderDto(order *models.Order) OrderDto {
	simple := newSimpleOrderDto(order)
	dto := OrderDto{
		OrderID:     simple.OrderID,
		Name:        simple.Name,
		OrderDate:   simple.OrderDate,
		OrderStatus: simple.OrderStatus,
		Address:     simple.Address,
		OrderItems:  make([]OrderItemDto, 0, len(order.OrderItems)),
	}
	for i := range order.OrderItems {
		dto.OrderItems = append(dto.OrderItems, newOrderItemDto(&order.OrderItems[i]))
	}
	return dto
}

func newOrderItemDto(orderItem *models.OrderItem) OrderItemDto {
	dto := OrderItemDto{
		OrderPrice: orderItem.OrderPrice,
		Count:      orderItem.Count,
	}
	if orderItem.Item != nil {
		dto.ItemName = orderItem.Item.Name
	}
	return dto
}

func toSimpleOrderDtos(orders []models.Order) []SimpleOrderDto {
	result := make([]SimpleOrderDto, 0, len(orders))
	for i := range orders {
		result = append(result, newSimpleOrderDto(&orders[i]))
	}
	return result
}

func toOrderDtos(orders []models.Order) []OrderDto {
	result := make([]OrderDto, 0, len(orders))
	for i := range orders {
		result = append(result, newOrderDto(&orders[i]))
	}
	return result
}

func fromSimpleQueryDtos(rows []repository.OrderSimpleQueryDto) []SimpleOrderDto {
	result := make([]SimpleOrderDto, 0, len(rows))
	for _, row := range rows {
		result = append(result, SimpleOrderDto{
			OrderID:     row.OrderID,
			Name:        row.Name,
			OrderDate:   row.OrderDate,
			OrderStatus: row.OrderStatus,
			Address:     row.Address,
		})
	}
	return result
}

func fromQueryDtos(rows []repository.OrderQueryDto) []OrderDto {
	result := make([]OrderDto, 0, len(rows))
	for _, row := range rows {
		dto := OrderDto{
			OrderID:     row.OrderID,
			Name:        row.Name,
			OrderDate:   row.OrderDate,
			OrderStatus: row.OrderStatus,
			Address:     row.Address,
			OrderItems:  make([]OrderItemDto, 0, len(row.OrderItems)),
		}
		for _, item := range row.OrderItems {
			dto.OrderItems = append(dto.OrderItems, OrderItemDto{
				ItemName:   item.ItemName,
				OrderPrice: item.OrderPrice,
				Count:      item.Count,
			})
		}
		result = append(result, dto)
	}
	return result
}

// groupFlatRows 按订单 ID 分组展开行，订单顺序取首次出现顺序
func groupFlatRows(rows []OrderFlatDto) []OrderDto {
	result := make([]OrderDto, 0)
	index := make(map[uint]int)
	for _, row := range rows {
		pos, ok := index[row.OrderID]
		if !ok {
			result = append(result, OrderDto{
				OrderID:     row.OrderID,
				Name:        row.Name,
				OrderDate:   row.OrderDate,
				OrderStatus: row.OrderStatus,
				Address:     row.Address,
				OrderItems:  make([]OrderItemDto, 0),
			})
			pos = len(result) - 1
			index[row.OrderID] = pos
		}
		if !row.HasItem {
			continue
		}
		result[pos].OrderItems = append(result[pos].OrderItems, OrderItemDto{
			ItemName:   row.ItemName,
			OrderPrice: row.OrderPrice,
			Count:      row.Count,
		})
	}
	return result
}
